package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type invoiceLister interface {
	ListByAmount(ctx context.Context, amount int) ([]model.Invoice, error)
}

type InvoiceService struct {
	invoices      invoiceLister
	defaultAmount int
}

func NewInvoiceService(invoices invoiceLister, defaultAmount int) *InvoiceService {
	return &InvoiceService{invoices: invoices, defaultAmount: defaultAmount}
}

// DefaultAmount is the amount used when a request does not name one.
func (s *InvoiceService) DefaultAmount() int {
	return s.defaultAmount
}

// ListByAmount returns the invoices of exactly amount cents. Zero means
// the default amount.
func (s *InvoiceService) ListByAmount(ctx context.Context, amount int) ([]model.Invoice, error) {
	if amount == 0 {
		amount = s.defaultAmount
	}
	return s.invoices.ListByAmount(ctx, amount)
}

var invoiceCSVHeader = []string{"id", "customer_id", "amount", "status", "date"}

// ExportCSV renders ListByAmount as CSV with a header row.
func (s *InvoiceService) ExportCSV(ctx context.Context, amount int) ([]byte, error) {
	invoices, err := s.ListByAmount(ctx, amount)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(invoiceCSVHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, inv := range invoices {
		record := []string{inv.ID, inv.CustomerID, strconv.Itoa(inv.Amount), string(inv.Status), inv.Date.String()}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing invoice %s: %w", inv.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
