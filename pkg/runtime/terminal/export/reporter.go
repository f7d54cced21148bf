package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/dustin/go-humanize"
)

type TableConfig struct {
	WorkloadWidth int
	CountWidth    int
	BytesWidth    int
	GrowthWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		WorkloadWidth: 8,
		CountWidth:    8,
		BytesWidth:    12,
		GrowthWidth:   16,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// reportView wraps the report with the workload rows in fixed order, so
// the template never ranges over the map directly.
type reportView struct {
	*domain.SizingReport
	Rows []*domain.WorkloadTotals
}

func (c *Reporter) Handle(report *domain.SizingReport) error {
	funcMap := template.FuncMap{
		"bytes": func(v int64) string {
			return humanize.IBytes(uint64(v))
		},
		"fbytes": fbytes,
		"headerRow": func(horizon int) string {
			return c.formatRow("Workload", "Entities", "Used", "Growth/yr",
				"1 Year", "3 Years", fmt.Sprintf("%d Years", horizon))
		},
		"workloadRow": func(t *domain.WorkloadTotals) string {
			growth := fmt.Sprintf("%.2f%% %s", t.GrowthRate*100, t.GrowthBasis)
			return c.formatRow(
				t.Workload.String(),
				fmt.Sprintf("%d", t.EntityCount),
				humanize.IBytes(uint64(t.TotalBytes)),
				growth,
				fbytes(t.OneYearBytes),
				fbytes(t.ThreeYearBytes),
				fbytes(t.CustomYearBytes),
			)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.WorkloadWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.BytesWidth+2),
				strings.Repeat("-", c.config.GrowthWidth+2),
				strings.Repeat("-", c.config.BytesWidth+2),
				strings.Repeat("-", c.config.BytesWidth+2),
				strings.Repeat("-", c.config.BytesWidth+2))
		},
	}

	tmpl := `
Capacity forecast for {{.Tenant}} ({{.WindowDays}}-day window, {{.Method}} growth)
Run {{.RunID}} generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}

{{separator}}
{{headerRow .HorizonYears}}
{{separator}}
{{range .Rows}}{{workloadRow .}}
{{end}}{{separator}}

Tenant total: {{bytes .Totals.TotalBytes}} now, {{fbytes .Totals.OneYearBytes}} in 1 year, {{fbytes .Totals.ThreeYearBytes}} in 3 years
{{if .Archive.Mailboxes}}In-place archives: {{.Archive.Mailboxes}} mailboxes, {{bytes .Archive.TotalBytes}} ({{.Archive.TotalGB}} GB)
{{end}}
{{- if .Plan}}
=== License Plan ===
Required users: {{.Totals.RequiredUsers}}
{{if .Plan.Unavailable}}Pack recommendation unavailable: the license solver could not be reached.
{{else if .Plan.Unlimited}}Unlimited tier: {{(.Plan.Allocation "unlimited").Packs}} packs ({{.Plan.TotalUsers}} seats)
{{else}}{{range .Plan.Tiers}}{{if gt .Packs 0}}{{.Tier.Code}}: {{.Packs}} packs ({{.Users}} seats)
{{end}}{{end}}Total: {{.Plan.TotalCapacityGB}} GB across {{.Plan.TotalUsers}} seats
{{end}}{{end}}
{{- if .Warnings}}
=== Warnings ===
{{range .Warnings}}- {{if .Workload}}[{{.Workload}}] {{end}}{{.Message}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	view := reportView{SizingReport: report}
	for _, w := range domain.Workloads() {
		if totals, ok := report.Workloads[w]; ok {
			view.Rows = append(view.Rows, totals)
		}
	}

	return t.Execute(c.writer, view)
}

// fbytes renders a projected byte quantity. Projections with a strongly
// negative growth rate can cross zero; a shrinking workload bottoms out
// at nothing, so clamp instead of wrapping around.
func fbytes(v float64) string {
	if v < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(v))
}

func (c *Reporter) formatRow(workload, entities, used, growth, oneYear, threeYears, custom string) string {
	return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s | %-*s | %-*s |",
		c.config.WorkloadWidth, workload,
		c.config.CountWidth, entities,
		c.config.BytesWidth, used,
		c.config.GrowthWidth, growth,
		c.config.BytesWidth, oneYear,
		c.config.BytesWidth, threeYears,
		c.config.BytesWidth, custom)
}
