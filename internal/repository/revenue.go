package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type RevenueRepository struct {
	db DBTX
}

func NewRevenueRepository(db DBTX) *RevenueRepository {
	return &RevenueRepository{db: db}
}

const upsertRevenueSQL = `
INSERT INTO revenue (month, revenue)
VALUES ($1, $2)
ON CONFLICT (month) DO NOTHING`

func (r *RevenueRepository) Upsert(ctx context.Context, revenue model.Revenue) error {
	if _, err := r.db.Exec(ctx, upsertRevenueSQL, revenue.Month, revenue.Revenue); err != nil {
		return fmt.Errorf("upserting revenue for %s: %w", revenue.Month, err)
	}
	return nil
}
