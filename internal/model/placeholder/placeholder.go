// Package placeholder contains the demo data set GET /seed writes
// into an empty dashboard database.
package placeholder

import (
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

// Users are seeded with plain text passwords; the seeder hashes them.
var Users = []model.User{
	{
		ID:       "410544b2-4001-4271-9855-fec4b6a6442a",
		Name:     "User",
		Email:    "user@nextmail.com",
		Password: "123456",
	},
}

var Customers = []model.Customer{
	{
		ID:       "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa",
		Name:     "Evil Rabbit",
		Email:    "evil@rabbit.com",
		ImageURL: "/customers/evil-rabbit.png",
	},
	{
		ID:       "3958dc9e-712f-4377-85e9-fec4b6a6442a",
		Name:     "Delba de Oliveira",
		Email:    "delba@oliveira.com",
		ImageURL: "/customers/delba-de-oliveira.png",
	},
	{
		ID:       "3958dc9e-742f-4377-85e9-fec4b6a6442a",
		Name:     "Lee Robinson",
		Email:    "lee@robinson.com",
		ImageURL: "/customers/lee-robinson.png",
	},
	{
		ID:       "76d65c26-f784-44a2-ac19-586678f7c2f2",
		Name:     "Michael Novotny",
		Email:    "michael@novotny.com",
		ImageURL: "/customers/michael-novotny.png",
	},
	{
		ID:       "cc27c14a-0acf-4f4a-a6c9-d45682c144b9",
		Name:     "Amy Burns",
		Email:    "amy@burns.com",
		ImageURL: "/customers/amy-burns.png",
	},
	{
		ID:       "13d07535-c59e-4157-a011-f8d2ef4e0cbb",
		Name:     "Balazs Orban",
		Email:    "balazs@orban.com",
		ImageURL: "/customers/balazs-orban.png",
	},
}

// Invoices reference Customers by index so the IDs cannot drift apart.
// Exactly one of them carries the amount GET /query looks for by default.
var Invoices = []model.Invoice{
	invoice(0, 15795, model.InvoiceStatusPending, 2022, time.December, 6),
	invoice(1, 20348, model.InvoiceStatusPending, 2022, time.November, 14),
	invoice(4, 3040, model.InvoiceStatusPaid, 2022, time.October, 29),
	invoice(3, 44800, model.InvoiceStatusPaid, 2023, time.September, 10),
	invoice(5, 34577, model.InvoiceStatusPending, 2023, time.August, 5),
	invoice(2, 54246, model.InvoiceStatusPending, 2023, time.July, 16),
	invoice(0, 666, model.InvoiceStatusPending, 2023, time.June, 27),
	invoice(3, 32545, model.InvoiceStatusPaid, 2023, time.June, 9),
	invoice(4, 1250, model.InvoiceStatusPaid, 2023, time.June, 17),
	invoice(5, 8546, model.InvoiceStatusPaid, 2023, time.June, 7),
	invoice(1, 500, model.InvoiceStatusPaid, 2023, time.August, 19),
	invoice(5, 8945, model.InvoiceStatusPaid, 2023, time.June, 3),
	invoice(2, 1000, model.InvoiceStatusPaid, 2022, time.June, 5),
}

var Revenue = []model.Revenue{
	{Month: "Jan", Revenue: 2000},
	{Month: "Feb", Revenue: 1800},
	{Month: "Mar", Revenue: 2200},
	{Month: "Apr", Revenue: 2500},
	{Month: "May", Revenue: 2300},
	{Month: "Jun", Revenue: 3200},
	{Month: "Jul", Revenue: 3500},
	{Month: "Aug", Revenue: 3700},
	{Month: "Sep", Revenue: 2500},
	{Month: "Oct", Revenue: 2800},
	{Month: "Nov", Revenue: 3000},
	{Month: "Dec", Revenue: 4800},
}

func invoice(customer, amount int, status model.InvoiceStatus, year int, month time.Month, day int) model.Invoice {
	return model.Invoice{
		CustomerID: Customers[customer].ID,
		Amount:     amount,
		Status:     status,
		Date:       model.NewDate(year, month, day),
	}
}
