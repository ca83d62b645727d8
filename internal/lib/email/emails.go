package email

import (
	"strconv"
	"time"
)

// SeedReport is what the seed report email shows.
type SeedReport struct {
	Environment string
	Users       int
	Customers   int
	Invoices    int
	Revenue     int
	Duration    time.Duration
}

func (r SeedReport) templateData() map[string]string {
	return map[string]string{
		"Environment": r.Environment,
		"Users":       strconv.Itoa(r.Users),
		"Customers":   strconv.Itoa(r.Customers),
		"Invoices":    strconv.Itoa(r.Invoices),
		"Revenue":     strconv.Itoa(r.Revenue),
		"Duration":    r.Duration.Round(time.Millisecond).String(),
	}
}

// SendSeedReportEmail tells an operator a seed run finished.
func (c *Client) SendSeedReportEmail(to string, report SeedReport) error {
	return c.SendEmail(
		to,
		"Invoice dashboard database seeded",
		TemplateSeedReport,
		report.templateData(),
	)
}
