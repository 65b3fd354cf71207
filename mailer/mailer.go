package mailer

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound notification gateway. Both methods fail with
// a generic wrapped error on transport failure; callers decide whether
// that failure blocks the flow.
type Mailer interface {
	SendVerificationEmail(email, token string) error
	SendOTPEmail(email, code string) error
}

type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewSMTPMailerFromEnv() *SMTPMailer {
	port, _ := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(
			os.Getenv("EMAIL_HOST"),
			port,
			os.Getenv("EMAIL_USER"),
			os.Getenv("EMAIL_PASS"),
		),
		from:    os.Getenv("EMAIL_FROM"),
		baseURL: os.Getenv("APP_BASE_URL"),
	}
}

func (m *SMTPMailer) SendVerificationEmail(email, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Smart City Management")
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Verify Your Email Address")
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		  <h2>Email Verification</h2>
		  <p>Thank you for registering with Smart City Management!</p>
		  <p>Please click the link below to verify your email address:</p>
		  <p><a href="%s">Verify Email</a></p>
		  <p>Or copy and paste this URL into your browser:</p>
		  <p>%s</p>
		  <p style="color: #999; font-size: 12px;">This link will expire in 24 hours.</p>
		</div>`, verificationURL, verificationURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) SendOTPEmail(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Smart City Management")
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your Two-Factor Authentication Code")
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		  <h2>Two-Factor Authentication</h2>
		  <p>Your OTP code for login verification is:</p>
		  <div style="font-size: 32px; font-weight: bold; letter-spacing: 5px; text-align: center;">%s</div>
		  <p>This code will expire in 5 minutes.</p>
		  <p style="color: #999; font-size: 12px;">If you didn't request this code, please ignore this email.</p>
		</div>`, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
