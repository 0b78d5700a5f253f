package email

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/tuumbleweed/xerr"
)

func sendViaMailgun(sender string, recipients []string, subject, textBody, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	domain := os.Getenv("MAILGUN_DOMAIN")
	apiKey := os.Getenv("MAILGUN_API_KEY")

	mg := mailgun.NewMailgun(domain, apiKey)

	message := mg.NewMessage(sender, subject, textBody, recipients...)
	message.SetHTML(htmlBody)

	for _, attachment := range attachments {
		message.AddBufferAttachment(attachment.Filename, attachment.Data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, _, sendErr := mg.Send(ctx, message)
	if sendErr != nil {
		return xerr.NewError(sendErr, "send email via mailgun", domain)
	}

	return nil
}
