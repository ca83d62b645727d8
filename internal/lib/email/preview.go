package email

// PreviewData holds sample template data, keyed by template name, for
// rendering emails locally.
var PreviewData = map[Template]map[string]string{
	TemplateSeedReport: SeedReport{
		Environment: "local",
		Users:       1,
		Customers:   6,
		Invoices:    13,
		Revenue:     12,
		Duration:    842_000_000,
	}.templateData(),
}
