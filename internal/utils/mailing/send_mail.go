package mailing

import (
	"NativeRecipe-Backend/internal/utils"
	"bytes"
	"errors"
	"html/template"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp is not configured")

type (
	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	smtpMailer struct {
		config MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns nil when no SMTP host is configured.
func NewMailer(config MailConfig) Mailer {
	if config.SMTPHost == "" {
		return nil
	}
	return &smtpMailer{config: config}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	if m.config.SMTPHost == "" {
		return ErrMailNotConfigured
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

var activationTemplate = template.Must(template.New("activation").Parse(`<h2>Welcome to Pro Chef, {{.Name}}!</h2>
<p>Your <b>{{.Plan}}</b> subscription is now active.</p>
<p>Order ID: {{.OrderID}}<br>Active until: {{.EndDate}}</p>
<p>Enjoy unlimited AI recipe generation and premium recipes.</p>`))

type activationData struct {
	Name    string
	Plan    string
	OrderID string
	EndDate string
}

// SubscriptionActivatedMail renders the receipt sent when a payment settles.
func SubscriptionActivatedMail(name, planType, orderID string, endDate *time.Time) (string, string, error) {
	if name == "" {
		name = "Chef"
	}
	data := activationData{Name: name, Plan: planType, OrderID: orderID, EndDate: "-"}
	if endDate != nil {
		data.EndDate = endDate.Format("02 January 2006")
	}

	var buf bytes.Buffer
	if err := activationTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return "Your Pro Chef subscription is active", buf.String(), nil
}
