// Package mail delivers transactional email over SMTP.
package mail

import (
	"fmt"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends account email. Implementations are single-attempt, best-effort.
type Mailer interface {
	SendPasswordResetCode(toEmail, username, code string) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	sender   string
	email    string
	password string
}

// NewSMTPMailer builds a mailer from application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		sender:   cfg.SMTPSenderName,
		email:    cfg.SMTPEmail,
		password: cfg.SMTPPassword,
	}
}

// SendPasswordResetCode mails the 6-digit reset code to the user.
func (m *SMTPMailer) SendPasswordResetCode(toEmail, username, code string) error {
	if m.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.email, m.sender))
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your password reset code - Gastronauta")
	msg.SetBody("text/html", resetCodeBody(username, code))

	dialer := gomail.NewDialer(m.host, m.port, m.email, m.password)
	return dialer.DialAndSend(msg)
}

func resetCodeBody(username, code string) string {
	return fmt.Sprintf(`
  <body style="font-family:Poppins,sans-serif;">
    <div style="max-width:600px;margin:auto;padding:20px;background:#fff;border-radius:12px;">
      <h2 style="text-align:center;color:#12182B;">Your password reset code</h2>
      <p style="font-size:16px;color:#444;">
        Hello <strong>%s</strong>,<br><br>
        You requested a password reset on Gastronauta.
        Use the code below to continue.
      </p>
      <div style="text-align:center;margin:30px 0;">
        <span style="font-size:38px;font-weight:bold;letter-spacing:10px;color:#12182B;">%s</span>
      </div>
      <p style="font-size:14px;color:#444;">
        The code expires in <strong>10 minutes</strong>.<br>
        Do not share this code with anyone.
      </p>
    </div>
  </body>`, username, code)
}
