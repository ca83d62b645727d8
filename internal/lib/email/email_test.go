package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, html)
		})
	}
}

func TestRender_SeedReport(t *testing.T) {
	html, err := Render(TemplateSeedReport, PreviewData[TemplateSeedReport])
	require.NoError(t, err)

	assert.Contains(t, html, "The local dashboard database was seeded in 842ms.")
	assert.Contains(t, html, "<td>Invoices</td><td>13</td>")
}

func TestRender_EscapesValues(t *testing.T) {
	html, err := Render(TemplateSeedReport, map[string]string{"Environment": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("welcome"), nil)
	assert.Error(t, err)
}

func TestSeedReportTemplateData(t *testing.T) {
	data := SeedReport{Users: 1, Invoices: 13, Duration: 1500 * time.Microsecond}.templateData()
	assert.Equal(t, "1", data["Users"])
	assert.Equal(t, "13", data["Invoices"])
	assert.Equal(t, "2ms", data["Duration"])
}
