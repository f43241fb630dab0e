package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoRecipient is returned by senders that need an address when none is set.
var ErrNoRecipient = errors.New("no recipient address")

// Sender delivers a rendered report.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPSender sends the report as a multipart/alternative email.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// send is smtp.SendMail; replaced in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a sender for host:port. Auth is PLAIN when a username
// is given.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password, From: from, send: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	body, err := buildMIME(s.From, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	// net/smtp has no context support; run it so cancellation still returns.
	done := make(chan error, 1)
	go func() {
		done <- s.send(addr, auth, s.From, []string{msg.To}, body)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMIME(from string, msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.ctype},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("build mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime: %w", err)
	}
	return buf.Bytes(), nil
}

// Files written by DirSender.
const (
	TextFile    = "report.txt"
	HTMLFile    = "report.html"
	MetricsFile = "metrics.json"
)

// DirSender writes the report into a directory instead of mailing it.
type DirSender struct {
	Dir string
}

func (d DirSender) Send(ctx context.Context, msg *Message) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	metrics, err := json.MarshalIndent(msg.Metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{TextFile, []byte(msg.Text)},
		{HTMLFile, []byte(msg.HTML)},
		{MetricsFile, append(metrics, '\n')},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(d.Dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

// NopSender is used when delivery is not configured. It logs and succeeds.
type NopSender struct {
	Log zerolog.Logger
}

func (n NopSender) Send(_ context.Context, msg *Message) error {
	n.Log.Warn().Str("to", msg.To).Msg("email delivery not configured, skipping send")
	return nil
}
