package mailer

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carfinance/internal/catalog"
	"carfinance/pkg/finance"
)

func smtpConfig() Config {
	return Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "quotes@example.com",
	}
}

func TestShareFallsBackToMailtoWhenUnconfigured(t *testing.T) {
	m := New(nil, Config{})

	channel, link := m.Share("buyer@example.com", "Your quote", "body text")
	assert.Equal(t, ChannelMailto, channel)
	assert.Contains(t, link, "mailto:buyer@example.com")
	assert.Contains(t, link, "subject=Your+quote")
}

func TestShareUsesSMTPWhenConfigured(t *testing.T) {
	m := New(nil, smtpConfig())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	channel, link := m.Share("buyer@example.com", "Your quote", "body text")
	require.Equal(t, ChannelSMTP, channel)
	assert.Empty(t, link)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "quotes@example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your quote\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "body text"))
}

func TestShareDegradesToMailtoOnSMTPFailure(t *testing.T) {
	m := New(nil, smtpConfig())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	channel, link := m.Share("buyer@example.com", "Your quote", "body")
	assert.Equal(t, ChannelMailto, channel)
	assert.NotEmpty(t, link)
}

func TestShareRejectsInvalidAddressWithoutSending(t *testing.T) {
	m := New(nil, smtpConfig())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatal("send must not be called for an invalid address")
		return nil
	}

	channel, _ := m.Share("not-an-address", "Your quote", "body")
	assert.Equal(t, ChannelMailto, channel)
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{
			name:    "Plain address",
			address: "buyer@example.com",
			valid:   true,
		},
		{
			name:    "Missing domain dot",
			address: "buyer@localhost",
			valid:   false,
		},
		{
			name:    "Missing local part",
			address: "@example.com",
			valid:   false,
		},
		{
			name:    "Empty",
			address: "",
			valid:   false,
		},
		{
			name:    "Two at signs",
			address: "a@b@example.com",
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAddress(tt.address); got != tt.valid {
				t.Errorf("ValidAddress(%q) = %v, expected %v", tt.address, got, tt.valid)
			}
		})
	}
}

func TestComposeQuoteSummary(t *testing.T) {
	v := catalog.Vehicle{
		ID: 1, Make: "Toyota", Model: "Camry XSE", Year: 2022,
		Price: 28000, Mileage: 15000, Horsepower: 206, MPGCombined: 32,
	}
	q := finance.LoanQuote(v.Price, 4.2, 60, 0)

	summary := ComposeQuoteSummary(v, q, "https://cdn.example.com/camry.png")

	assert.Contains(t, summary, "2022 Toyota Camry XSE - $28000.00")
	assert.Contains(t, summary, "APR: 4.20% | Term: 60 months")
	assert.Contains(t, summary, "Monthly payment: $")
	assert.Contains(t, summary, "Image: https://cdn.example.com/camry.png")
}
