package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const upsertCustomerSQL = `
INSERT INTO customers (id, name, email, image_url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`

// Upsert inserts the customer unless a row with the same ID exists.
func (r *CustomerRepository) Upsert(ctx context.Context, customer model.Customer) error {
	if _, err := r.db.Exec(ctx, upsertCustomerSQL,
		customer.ID, customer.Name, customer.Email, customer.ImageURL,
	); err != nil {
		return fmt.Errorf("upserting customer %s: %w", customer.ID, err)
	}
	return nil
}
