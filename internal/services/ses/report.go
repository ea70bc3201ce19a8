package ses

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"nomad-visa-engine/internal/models"
	"nomad-visa-engine/internal/utils"
)

// DefaultReportSize is the number of recommended countries listed in a report.
const DefaultReportSize = 5

// ErrMissingRecipient is returned when a report has no recipient.
var ErrMissingRecipient = errors.New("recipient email is required")

// Report is the data rendered into a recommendation email.
type Report struct {
	Recommended []ReportEntry
	Excluded    []ExcludedEntry
	TotalCount  int
}

// ExcludedEntry is one excluded country and why.
type ExcludedEntry struct {
	Flag    string
	Name    string
	Reasons []string
}

// ReportEntry is one recommended country in a report.
type ReportEntry struct {
	Rank     int
	Flag     string
	Name     string
	VisaName string
	Score    string
	Tier     string
	Pros     []string
	Cons     []string
}

// Subject returns the email subject line.
func (r Report) Subject() string {
	if len(r.Recommended) == 0 {
		return "Your digital nomad visa report: no eligible countries"
	}
	return fmt.Sprintf("Your digital nomad visa report: %s is your top match", r.Recommended[0].Name)
}

// BuildReport takes the first limit recommended results in order and lists
// every excluded one.
func BuildReport(results []models.CountryResult, limit int) Report {
	report := Report{TotalCount: len(results)}

	for _, r := range results {
		if r.IsExcluded() {
			ex := ExcludedEntry{Reasons: r.ExcludeReasons}
			if r.Country != nil {
				ex.Flag = r.Country.Flag
				ex.Name = r.Country.Name
			}
			report.Excluded = append(report.Excluded, ex)
			continue
		}
		if len(report.Recommended) >= limit {
			continue
		}

		entry := ReportEntry{
			Rank: len(report.Recommended) + 1,
			Tier: r.Tier,
		}
		if r.Country != nil {
			entry.Flag = r.Country.Flag
			entry.Name = r.Country.Name
			entry.VisaName = r.Country.VisaName
		}
		if r.Score != nil {
			entry.Score = utils.FormatThousands(*r.Score)
		}
		for _, h := range r.Highlights {
			entry.Pros = append(entry.Pros, h.Text)
		}
		for _, risk := range r.Risks {
			entry.Cons = append(entry.Cons, risk.Text)
		}
		report.Recommended = append(report.Recommended, entry)
	}

	return report
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f6feb; color: white; padding: 24px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f9f9f9; padding: 24px; border-radius: 0 0 10px 10px; }
        .card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .card h3 { margin: 0 0 6px 0; }
        .visa { color: #666; font-size: 14px; }
        .score { display: inline-block; background: #28a745; color: white; padding: 2px 10px; border-radius: 12px; font-weight: bold; }
        .pro { color: #1a7f37; }
        .con { color: #cf222e; }
        .footer { text-align: center; margin-top: 24px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Your Digital Nomad Visa Report</h1>
        <p>{{len .Recommended}} recommended of {{.TotalCount}} countries reviewed</p>
    </div>
    <div class="content">
        {{if not .Recommended}}
        <p>None of the countries we track fit your answers right now.</p>
        {{end}}
        {{range .Recommended}}
        <div class="card">
            <h3>{{.Rank}}. {{.Flag}} {{.Name}} <span class="score">{{.Score}}</span></h3>
            <p class="visa">{{.VisaName}} · {{.Tier}}</p>
            <ul>
                {{range .Pros}}<li class="pro">{{.}}</li>{{end}}
                {{range .Cons}}<li class="con">{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}
        {{if .Excluded}}
        <h2>Not eligible right now</h2>
        {{range .Excluded}}
        <p><strong>{{.Flag}} {{.Name}}</strong>: {{join .Reasons "; "}}</p>
        {{end}}
        {{end}}
    </div>
    <div class="footer">
        <p>Policies change often. Verify every requirement with the official source before applying.</p>
    </div>
</body>
</html>`

var reportTemplate = template.Must(template.New("recommendation_report").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(reportHTML))

// RenderHTML renders the HTML email body.
func RenderHTML(report Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText renders the plain text email body.
func RenderText(report Report) string {
	var b strings.Builder

	b.WriteString("Your Digital Nomad Visa Report\n\n")
	if len(report.Recommended) == 0 {
		b.WriteString("None of the countries we track fit your answers right now.\n\n")
	}

	for _, e := range report.Recommended {
		fmt.Fprintf(&b, "%d. %s (%s) - score %s, %s\n", e.Rank, e.Name, e.VisaName, e.Score, e.Tier)
		for _, p := range e.Pros {
			fmt.Fprintf(&b, "   + %s\n", p)
		}
		for _, c := range e.Cons {
			fmt.Fprintf(&b, "   - %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(report.Excluded) > 0 {
		b.WriteString("Not eligible right now:\n")
		for _, e := range report.Excluded {
			fmt.Fprintf(&b, "- %s: %s\n", e.Name, strings.Join(e.Reasons, "; "))
		}
		b.WriteString("\n")
	}

	b.WriteString("Policies change often. Verify every requirement with the official source before applying.\n")
	return b.String()
}
