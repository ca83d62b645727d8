// Package model holds the domain types shared by the repository,
// service and handler layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// User is a dashboard login. Password holds the plain text in placeholder
// data and the bcrypt hash once it reaches the repository; it is never
// serialized.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Customer is someone invoices are billed to.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// Invoice amounts are stored in cents.
type Invoice struct {
	ID         string        `json:"id,omitempty"`
	CustomerID string        `json:"customer_id"`
	Amount     int           `json:"amount"`
	Status     InvoiceStatus `json:"status"`
	Date       Date          `json:"date"`
}

// Revenue is the total revenue of one month, keyed by the
// three-letter month name ("Jan", "Feb", ...).
type Revenue struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. It maps to a Postgres
// DATE column and serializes as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the Date for the given day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
