package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/server"
)

// ExportFilename is the download name of GET /query/export.
const ExportFilename = "invoices.csv"

type invoiceFinder interface {
	ListByAmount(ctx context.Context, amount int) ([]model.Invoice, error)
	ExportCSV(ctx context.Context, amount int) ([]byte, error)
}

type InvoiceHandler struct {
	Handler
	invoices invoiceFinder
}

func NewInvoiceHandler(s *server.Server, invoices invoiceFinder) *InvoiceHandler {
	return &InvoiceHandler{
		Handler:  NewHandler(s),
		invoices: invoices,
	}
}

// InvoiceQuery filters invoices by amount in cents. A missing or zero
// amount selects the configured default. The upper bound is the range of
// the amount INT column.
type InvoiceQuery struct {
	Amount int `query:"amount" validate:"omitempty,min=1,max=2147483647"`
}

func (q *InvoiceQuery) Validate() error {
	return validate.Struct(q)
}

// Query serves GET /query.
func (h *InvoiceHandler) Query() echo.HandlerFunc {
	return Handle(h.Handler, h.query, http.StatusOK)
}

// Export serves GET /query/export.
func (h *InvoiceHandler) Export() echo.HandlerFunc {
	return HandleFile(h.Handler, h.export, http.StatusOK, ExportFilename, "text/csv; charset=utf-8")
}

func (h *InvoiceHandler) query(c echo.Context, q *InvoiceQuery) ([]model.Invoice, error) {
	invoices, err := h.invoices.ListByAmount(c.Request().Context(), q.Amount)
	if err != nil {
		return nil, internalError(c, err, "failed to query invoices")
	}
	return invoices, nil
}

func (h *InvoiceHandler) export(c echo.Context, q *InvoiceQuery) ([]byte, error) {
	data, err := h.invoices.ExportCSV(c.Request().Context(), q.Amount)
	if err != nil {
		return nil, internalError(c, err, "failed to export invoices")
	}
	return data, nil
}
