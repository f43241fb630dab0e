// Package delivery renders the analysis report and sends it to the recipient.
package delivery

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gyeh/claimstats/internal/model"
)

// Subject is the report email subject line.
const Subject = "Your RCM Analysis is Ready"

// DefaultConsultationURL is used when no booking link is configured.
const DefaultConsultationURL = "https://cal.com"

//go:embed templates/*.tmpl
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

func formatNum(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v))
}

var funcs = map[string]any{
	"num":  formatNum,
	"inc":  func(i int) int { return i + 1 },
	"rule": func() string { return strings.Repeat("━", 35) },
}

var (
	textTmpl = texttemplate.Must(texttemplate.New("report.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.txt.tmpl"))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("report.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.html.tmpl"))
)

// Content is everything that goes into a report.
type Content struct {
	ExecutiveSummary string
	Recommendations  []string
	Metrics          *model.AllMetrics
	ConsultationURL  string
}

// Message is a rendered report ready to send.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	Metrics *model.AllMetrics
}

// MetricRow is one line of the metrics-at-a-glance table.
type MetricRow struct {
	Name   string
	Value  string
	Target string
	Status string // "good", "bad" or "" when there is no fixed target
}

// MetricsTable returns the headline metrics against industry targets.
func MetricsTable(m *model.AllMetrics) []MetricRow {
	status := func(bad bool) string {
		if bad {
			return "bad"
		}
		return "good"
	}
	denial := m.DenialRate.OverallRate
	days := m.DaysInAR.OverallAvgDays
	clean := m.CleanClaimRate.OverallRate
	return []MetricRow{
		{Name: "Denial Rate", Value: formatNum(denial) + "%", Target: "<5%", Status: status(denial > 5)},
		{Name: "Days in A/R", Value: formatNum(days) + " days", Target: "<30 days", Status: status(days > 30)},
		{Name: "Clean Claim Rate", Value: formatNum(clean) + "%", Target: ">95%", Status: status(clean < 95)},
		{Name: "Collection Rate", Value: formatNum(m.CollectionRate.OverallRate) + "%", Target: "varies"},
	}
}

type view struct {
	Content
	Paragraphs []string
	Table      []MetricRow
}

// Render produces the subject, plain-text and HTML bodies for a report.
func Render(to string, c Content) (*Message, error) {
	if c.Metrics == nil {
		return nil, fmt.Errorf("render report: no metrics")
	}
	if c.ConsultationURL == "" {
		c.ConsultationURL = DefaultConsultationURL
	}
	v := view{
		Content:    c,
		Paragraphs: paragraphs(c.ExecutiveSummary),
		Table:      MetricsTable(c.Metrics),
	}

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, v); err != nil {
		return nil, fmt.Errorf("render text report: %w", err)
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	return &Message{
		To:      to,
		Subject: Subject,
		Text:    text.String(),
		HTML:    html.String(),
		Metrics: c.Metrics,
	}, nil
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
