package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func sampleContent() Content {
	m := &model.AllMetrics{Anomalies: []model.Anomaly{}}
	m.DenialRate.OverallRate = 12.5
	m.DaysInAR.OverallAvgDays = 28
	m.CleanClaimRate.OverallRate = 96.2
	m.CollectionRate.OverallRate = 61.4
	return Content{
		ExecutiveSummary: "First paragraph.\n\nSecond <b>paragraph</b>.",
		Recommendations:  []string{"Fix CO-16 denials.", "Work old claims."},
		Metrics:          m,
		ConsultationURL:  "https://example.com/book",
	}
}

func TestMetricsTable(t *testing.T) {
	rows := MetricsTable(sampleContent().Metrics)
	require.Len(t, rows, 4)
	assert.Equal(t, MetricRow{Name: "Denial Rate", Value: "12.5%", Target: "<5%", Status: "bad"}, rows[0])
	assert.Equal(t, MetricRow{Name: "Days in A/R", Value: "28 days", Target: "<30 days", Status: "good"}, rows[1])
	assert.Equal(t, "good", rows[2].Status)
	assert.Equal(t, "varies", rows[3].Target)
	assert.Empty(t, rows[3].Status)
}

func TestRender(t *testing.T) {
	msg, err := Render("ops@clinic.example", sampleContent())
	require.NoError(t, err)

	assert.Equal(t, Subject, msg.Subject)
	assert.Equal(t, "ops@clinic.example", msg.To)

	assert.Contains(t, msg.Text, "| Denial Rate | 12.5% | <5% |")
	assert.Contains(t, msg.Text, "1. Fix CO-16 denials.\n2. Work old claims.")
	assert.Contains(t, msg.Text, "https://example.com/book")

	assert.Contains(t, msg.HTML, "<p style=\"margin: 0 0 15px 0;\">First paragraph.</p>")
	assert.Contains(t, msg.HTML, "Second &lt;b&gt;paragraph&lt;/b&gt;.")
	assert.Contains(t, msg.HTML, "&lt;5%")
	assert.Contains(t, msg.HTML, `href="https://example.com/book"`)
	assert.Equal(t, 2, strings.Count(msg.HTML, "<li "))
}

func TestRender_DefaultsAndErrors(t *testing.T) {
	c := sampleContent()
	c.ConsultationURL = ""
	msg, err := Render("", c)
	require.NoError(t, err)
	assert.Contains(t, msg.Text, DefaultConsultationURL)

	_, err = Render("", Content{})
	assert.Error(t, err)
}

func TestSMTPSender(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotBody string
	)
	s := NewSMTPSender("smtp.example.com", 2525, "user", "pw", "reports@example.com")
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		assert.NotNil(t, a)
		assert.Equal(t, "reports@example.com", from)
		return nil
	}

	msg, err := Render("ops@clinic.example", sampleContent())
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"ops@clinic.example"}, gotTo)
	assert.Contains(t, gotBody, "Subject: "+Subject+"\r\n")
	assert.Contains(t, gotBody, "Content-Type: multipart/alternative;")
	assert.Contains(t, gotBody, "text/plain; charset=utf-8")
	assert.Contains(t, gotBody, "text/html; charset=utf-8")
}

func TestSMTPSender_Errors(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 25, "", "", "reports@example.com")
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	msg, _ := Render("", sampleContent())
	assert.ErrorIs(t, s.Send(context.Background(), msg), ErrNoRecipient)

	msg.To = "ops@clinic.example"
	err := s.Send(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDirSender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	msg, err := Render("", sampleContent())
	require.NoError(t, err)
	require.NoError(t, DirSender{Dir: dir}.Send(context.Background(), msg))

	for _, name := range []string{TextFile, HTMLFile, MetricsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, MetricsFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "denial_rate")
}

func TestNopSender(t *testing.T) {
	msg, _ := Render("ops@clinic.example", sampleContent())
	assert.NoError(t, NopSender{Log: zerolog.Nop()}.Send(context.Background(), msg))
}
