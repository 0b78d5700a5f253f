package email

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tuumbleweed/xerr"
)

func sendViaSendgrid(sender string, recipients []string, subject, textBody, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", sender))
	m.Subject = subject
	m.AddContent(mail.NewContent("text/plain", textBody))
	m.AddContent(mail.NewContent("text/html", htmlBody))

	personalization := mail.NewPersonalization()
	for _, recipient := range recipients {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	m.AddPersonalizations(personalization)

	for _, attachment := range attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment.Data))
		a.SetFilename(attachment.Filename)
		a.SetType(attachment.ContentType)
		m.AddAttachment(a)
	}

	client := sendgrid.NewSendClient(apiKey)
	response, sendErr := client.Send(m)
	if sendErr != nil {
		return xerr.NewError(sendErr, "send email via sendgrid", sender)
	}
	if response.StatusCode >= 300 {
		return xerr.NewError(fmt.Errorf("sendgrid returned status %d", response.StatusCode), "sendgrid API error", response.Body)
	}

	return nil
}
