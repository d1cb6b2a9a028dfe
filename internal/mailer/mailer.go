// Package mailer sends quote summaries by SMTP when credentials are
// configured, and otherwise renders a client-side mailto link. Delivery
// failures never surface to API callers; the response only reports which
// channel was used.
package mailer

import (
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"carfinance/internal/catalog"
	"carfinance/pkg/finance"
)

// Channel names reported in share responses.
const (
	ChannelSMTP   = "smtp"
	ChannelMailto = "mailto"
)

// Config holds the SMTP settings. Any empty field disables SMTP delivery and
// forces the mailto fallback.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Configured reports whether all settings required for SMTP delivery are set.
func (c Config) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != "" && c.From != ""
}

// Mailer delivers quote summaries.
type Mailer struct {
	logger *zap.Logger
	config Config

	// send is swapped by tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New constructs a Mailer with the given SMTP settings.
func New(logger *zap.Logger, config Config) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		logger: logger,
		config: config,
		send:   smtp.SendMail,
	}
}

// Share delivers the body to the recipient. It returns the channel used:
// SMTP when configured and the send succeeds, otherwise a mailto link in
// link. An error is never returned to keep the endpoint best-effort.
func (m *Mailer) Share(to, subject, body string) (channel, link string) {
	if !m.config.Configured() || !ValidAddress(to) {
		return ChannelMailto, MailtoLink(to, subject, body)
	}

	if err := m.sendSMTP(to, subject, body); err != nil {
		m.logger.Warn("smtp delivery failed, degrading to mailto",
			zap.String("op", "mailer.Share"),
			zap.String("to", to),
			zap.Error(err),
		)
		return ChannelMailto, MailtoLink(to, subject, body)
	}

	m.logger.Info("quote shared via smtp",
		zap.String("op", "mailer.Share"),
		zap.String("to", to),
	)
	return ChannelSMTP, ""
}

func (m *Mailer) sendSMTP(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	message := buildMessage(m.config.From, to, subject, body)
	return m.send(addr, auth, m.config.From, []string{to}, []byte(message))
}

func buildMessage(from, to, subject, body string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("From: %s\r\n", from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)
	return builder.String()
}

// MailtoLink renders the client-side fallback link with the subject and body
// URL-encoded.
func MailtoLink(to, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		to,
		url.QueryEscape(subject),
		url.QueryEscape(body),
	)
}

// ValidAddress applies a light sanity check; delivery problems with odd but
// plausible addresses still degrade gracefully.
func ValidAddress(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	return strings.Contains(parts[1], ".")
}

// ComposeQuoteSummary formats the fixed-structure message body shared by the
// email endpoint and its preview.
func ComposeQuoteSummary(v catalog.Vehicle, q finance.Quote, imageURL string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d %s %s - $%.2f\n", v.Year, v.Make, v.Model, v.Price))
	builder.WriteString(fmt.Sprintf("MPG: %.1f | HP: %.0f | Mileage: %.0f\n", v.MPGCombined, v.Horsepower, v.Mileage))
	builder.WriteString(fmt.Sprintf("APR: %.2f%% | Term: %d months | Down: $%.2f\n", q.APRPercent, q.Months, q.Downpayment))
	builder.WriteString(fmt.Sprintf("Monthly payment: $%.2f\n", q.MonthlyPayment))
	builder.WriteString(fmt.Sprintf("Total paid: $%.2f\n", q.TotalPaid))
	builder.WriteString(fmt.Sprintf("Image: %s\n", imageURL))
	return builder.String()
}
