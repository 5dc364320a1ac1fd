// Package mailer sends outbound, purpose-templated email. When SMTP is not
// configured (local development, tests) every send degrades to a logged
// no-op so the calling flow is never blocked on email delivery.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"pizza-api/config"
	"pizza-api/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	appName string
	baseURL string
}

// New builds a Mailer from config. A missing SMTP host yields a disabled
// mailer whose sends are logged no-ops.
func New(cfg config.Config) *Mailer {
	m := &Mailer{
		from:    cfg.EmailFrom,
		appName: cfg.AppName,
		baseURL: cfg.ClientURL,
	}
	if cfg.SMTPHost != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return m
}

// Enabled reports whether a real SMTP transport is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) send(to, subject, bodyHTML string) error {
	if !m.Enabled() {
		zap.S().Infow("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.appName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", bodyHTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	zap.S().Infow("email sent", "to", to, "subject", subject)
	return nil
}

func (m *Mailer) render(tpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

// SendOrderConfirmation emails a customer their committed order summary.
func (m *Mailer) SendOrderConfirmation(user *models.User, order *models.Order) error {
	body, err := m.render(orderConfirmationTpl, map[string]interface{}{
		"AppName":     m.appName,
		"Name":        user.Name,
		"OrderNumber": order.OrderNumber,
		"Items":       order.Items,
		"Total":       fmt.Sprintf("%.2f", order.TotalAmount),
	})
	if err != nil {
		return err
	}
	return m.send(user.Email, fmt.Sprintf("Order Confirmation - %s", order.OrderNumber), body)
}

// SendOTP emails the one-time password-reset code.
func (m *Mailer) SendOTP(user *models.User, otp string) error {
	body, err := m.render(otpTpl, map[string]interface{}{
		"AppName": m.appName,
		"Name":    user.Name,
		"OTP":     otp,
		"Minutes": 10,
	})
	if err != nil {
		return err
	}
	return m.send(user.Email, "Your password reset code", body)
}

// SendPasswordReset emails the single-use reset link.
func (m *Mailer) SendPasswordReset(user *models.User, token string) error {
	body, err := m.render(resetTpl, map[string]interface{}{
		"AppName":  m.appName,
		"Name":     user.Name,
		"ResetURL": fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token),
		"Minutes":  10,
	})
	if err != nil {
		return err
	}
	return m.send(user.Email, "Password Reset Request", body)
}

// SendStaffInvitation emails a newly created staff member their temporary
// credentials.
func (m *Mailer) SendStaffInvitation(user *models.User, tempPassword string) error {
	body, err := m.render(staffInviteTpl, map[string]interface{}{
		"AppName":  m.appName,
		"Name":     user.Name,
		"Email":    user.Email,
		"Password": tempPassword,
		"LoginURL": m.baseURL + "/login",
	})
	if err != nil {
		return err
	}
	return m.send(user.Email, fmt.Sprintf("You have been invited to %s", m.appName), body)
}

// SendMarketing sends a newsletter email with admin-provided content.
func (m *Mailer) SendMarketing(to, subject, content string) error {
	body, err := m.render(marketingTpl, map[string]interface{}{
		"AppName": m.appName,
		"Content": template.HTML(content),
		"BaseURL": m.baseURL,
	})
	if err != nil {
		return err
	}
	return m.send(to, subject, body)
}
