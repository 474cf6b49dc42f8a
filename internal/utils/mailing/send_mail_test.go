package mailing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(MailConfig{}))
	assert.NotNil(t, NewMailer(MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "587"}))
}

func TestSendMail_InvalidPort(t *testing.T) {
	m := NewMailer(MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "not-a-port"})
	require.NotNil(t, m)

	err := m.SendMail("chef@example.com", "subject", "body")
	assert.Error(t, err)
}

func TestSubscriptionActivatedMail(t *testing.T) {
	end := time.Date(2026, time.November, 18, 10, 0, 0, 0, time.UTC)

	subject, body, err := SubscriptionActivatedMail("Budi <b>", "monthly", "PRO-CHEF-ABCDEF12-1", &end)
	require.NoError(t, err)

	assert.Equal(t, "Your Pro Chef subscription is active", subject)
	assert.Contains(t, body, "Budi &lt;b&gt;")
	assert.Contains(t, body, "PRO-CHEF-ABCDEF12-1")
	assert.Contains(t, body, "18 November 2026")
}

func TestSubscriptionActivatedMail_Defaults(t *testing.T) {
	_, body, err := SubscriptionActivatedMail("", "yearly", "PRO-CHEF-1", nil)
	require.NoError(t, err)

	assert.Contains(t, body, "Chef")
	assert.Contains(t, body, "Active until: -")
}
