package email

// Template names an HTML file under templates/.
type Template string

const (
	TemplateSeedReport Template = "seed_report"
)
