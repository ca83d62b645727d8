package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const upsertUserSQL = `
INSERT INTO users (id, name, email, password)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`

// Upsert inserts the user unless a row with the same ID exists.
// Password must already be hashed.
func (r *UserRepository) Upsert(ctx context.Context, user model.User) error {
	if _, err := r.db.Exec(ctx, upsertUserSQL, user.ID, user.Name, user.Email, user.Password); err != nil {
		return fmt.Errorf("upserting user %s: %w", user.ID, err)
	}
	return nil
}
