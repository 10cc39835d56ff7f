package mailing

import (
	"Recipegram-Backend/internal/utils"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendMail delivers an HTML mail through the SMTP relay configured in
// config.yaml.
func SendMail(toEmail string, subject string, body string) error {
	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	sender := utils.GetConfig("SMTP_AUTH_EMAIL")

	message := gomail.NewMessage()
	message.SetAddressHeader("From", sender, utils.GetConfig("SMTP_SENDER_NAME"))
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	dialer := gomail.NewDialer(
		utils.GetConfig("SMTP_HOST"),
		port,
		sender,
		utils.GetConfig("SMTP_AUTH_PASSWORD"),
	)

	return dialer.DialAndSend(message)
}
