package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers one-time codes. Delivery is synchronous on the request
// path: a slow or failing relay stalls the OTP-request response.
type Sender interface {
	SendOTP(to, code string) error
}

// SMTPSender sends OTP mail over an authenticated SMTP-SSL connection.
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Password string
}

func (s *SMTPSender) SendOTP(to, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Pharmacy Login OTP")
	m.SetBody("text/plain", fmt.Sprintf("Your OTP is: %s\nThis OTP is valid for 1 minute.", code))

	d := gomail.NewDialer(s.Host, s.Port, s.From, s.Password)
	d.SSL = true

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp mail to %s: %w", to, err)
	}
	return nil
}
