package utils

import (
	"os"

	"gopkg.in/gomail.v2"
)

// SendMail delivers a plain-text email through the SMTP server configured in
// the environment. A delivery failure is returned to the caller and nothing is
// retried; callers decide whether the failure matters.
func SendMail(to, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	port := ParseIntDefault(os.Getenv("SMTP_PORT"), 587)
	d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}
