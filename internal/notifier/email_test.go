package notifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"YahooPrices/internal/config"
	"YahooPrices/internal/logging"
	"YahooPrices/internal/model"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.LevelNone, logging.LevelNone, "", 0)
	require.NoError(t, err)
	return log
}

func TestEmailNotifier_DisabledIsNoop(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{EnableEmail: false}, testLogger(t))
	dialed := false
	n.send = func(_ *gomail.Message) error {
		dialed = true
		return nil
	}

	require.NoError(t, n.Send("subject", "body"))
	assert.False(t, dialed, "disabled email must never dial SMTP")
}

func TestEmailNotifier_SendsWithSubjectPrefix(t *testing.T) {
	cfg := config.EmailConfig{
		EnableEmail:   true,
		SendEmailsTo:  "ops@example.com",
		SMTPServer:    "smtp.example.com",
		SMTPPort:      587,
		SMTPUsername:  "bot@example.com",
		SMTPPassword:  "secret",
		SubjectPrefix: "[YahooPrices] ",
	}
	n := NewEmailNotifier(cfg, testLogger(t))

	var got *gomail.Message
	n.send = func(m *gomail.Message) error {
		got = m
		return nil
	}

	require.NoError(t, n.Send("Run recovery", "all good"))
	require.NotNil(t, got)
	assert.Equal(t, []string{"[YahooPrices] Run recovery"}, got.GetHeader("Subject"))
	assert.Equal(t, []string{"ops@example.com"}, got.GetHeader("To"))
	assert.Equal(t, []string{"bot@example.com"}, got.GetHeader("From"))
}

func TestEmailNotifier_TransportErrorSurfaces(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{EnableEmail: true, SendEmailsTo: "a@b.c"}, testLogger(t))
	n.send = func(_ *gomail.Message) error { return errors.New("dial tcp: refused") }

	err := n.Send("subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send email")
}

func TestFormatDownloadFailure(t *testing.T) {
	errs := []model.ProviderError{
		{Symbol: "BAD", Message: "No data found, symbol may be delisted"},
		{Symbol: "BAD", Message: "second report for the same symbol"},
		{Symbol: "WORSE", Message: "yahoo: status 500"},
	}

	msg := FormatDownloadFailure(errs)
	assert.Contains(t, msg, "errors reported with 2 stocks", "headline counts distinct symbols")
	assert.Contains(t, msg, "Symbol: BAD, Error: No data found, symbol may be delisted")
	assert.Contains(t, msg, "Symbol: WORSE, Error: yahoo: status 500")
}

func TestFormatExtractFailure(t *testing.T) {
	assert.Equal(t,
		"There were errors with 3 stocks when extracting data from the downloaded data. See logs for details.",
		FormatExtractFailure(3))
}
