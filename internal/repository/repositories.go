package repository

import (
	"github.com/deppfellow/invoice-dashboard/internal/server"
)

// Repositories groups every repository behind the shared pool.
type Repositories struct {
	Users     *UserRepository
	Customers *CustomerRepository
	Invoices  *InvoiceRepository
	Revenue   *RevenueRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return newRepositories(s.DB.Pool)
}

func newRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Customers: NewCustomerRepository(db),
		Invoices:  NewInvoiceRepository(db),
		Revenue:   NewRevenueRepository(db),
	}
}
