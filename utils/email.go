package utils

import (
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/controlapag/controlapag-api/config"
)

func SendEmail(to, subject, body string) error {
	port, _ := strconv.Atoi(config.Cfg.SMTPPort)

	m := gomail.NewMessage()
	m.SetHeader("From", config.Cfg.EmailUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		config.Cfg.SMTPHost,
		port,
		config.Cfg.EmailUser,
		config.Cfg.EmailPass,
	)

	return d.DialAndSend(m)
}
