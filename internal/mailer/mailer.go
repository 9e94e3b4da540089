package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	BaseURL  string `yaml:"baseURL"`
}

// SMTPMailer sends account emails over plain SMTP with STARTTLS.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func New(cfg Config) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    from,
		baseURL: cfg.BaseURL,
	}
}

func (m *SMTPMailer) SendVerificationEmail(email, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", m.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Verify your email - Vamo")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Thanks for signing up! Verify your email to start your 100-day journey:</p>"+
			"<p><a href=%q>Verify Email Address</a></p>"+
			"<p>This link expires in 24 hours. If you didn't create a Vamo account you can ignore this email.</p>",
		verificationURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Reset your password - Vamo")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>We received a request to reset your password. Click the link below to create a new one:</p>"+
			"<p><a href=%q>Reset Password</a></p>"+
			"<p>This link expires in 1 hour and can only be used once. If you didn't request a reset you can ignore this email.</p>",
		resetURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
