package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type InvoiceRepository struct {
	db DBTX
}

func NewInvoiceRepository(db DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Invoices have no stable ID in the demo data, so re-seeding relies on the
// (customer_id, amount, date) constraint to stay idempotent.
const upsertInvoiceSQL = `
INSERT INTO invoices (customer_id, amount, status, date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (customer_id, amount, date) DO NOTHING`

func (r *InvoiceRepository) Upsert(ctx context.Context, invoice model.Invoice) error {
	if _, err := r.db.Exec(ctx, upsertInvoiceSQL,
		invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.Date.Time,
	); err != nil {
		return fmt.Errorf("upserting invoice for customer %s: %w", invoice.CustomerID, err)
	}
	return nil
}

const listInvoicesByAmountSQL = `
SELECT id, customer_id, amount, status, date
FROM invoices
WHERE amount = $1
ORDER BY date DESC, id`

// ListByAmount returns every invoice with exactly the given amount.
// The result is never nil so it always encodes as a JSON array.
func (r *InvoiceRepository) ListByAmount(ctx context.Context, amount int) ([]model.Invoice, error) {
	rows, err := r.db.Query(ctx, listInvoicesByAmountSQL, amount)
	if err != nil {
		return nil, fmt.Errorf("querying invoices with amount %d: %w", amount, err)
	}

	invoices, err := pgx.CollectRows(rows, scanInvoice)
	if err != nil {
		return nil, fmt.Errorf("scanning invoices with amount %d: %w", amount, err)
	}

	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

func scanInvoice(row pgx.CollectableRow) (model.Invoice, error) {
	var (
		invoice model.Invoice
		status  string
		date    time.Time
	)

	if err := row.Scan(&invoice.ID, &invoice.CustomerID, &invoice.Amount, &status, &date); err != nil {
		return model.Invoice{}, err
	}

	invoice.Status = model.InvoiceStatus(status)
	invoice.Date = model.Date{Time: date}
	return invoice, nil
}
