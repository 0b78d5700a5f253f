/*
Package email sends transactional email (review-request notifications for
low-confidence receipts) through one of three interchangeable providers:
Amazon SES, Mailgun, or SendGrid. The caller picks a Provider; everything
else about the three SDKs is hidden behind SendMessage.
*/
package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Provider selects which backing SDK SendMessage dispatches to.
type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderMailgun  Provider = "mailgun"
	ProviderSendgrid Provider = "sendgrid"
)

// Attachment is a small file attached to an outgoing message (e.g. the
// reconciled receipt.json for a flagged receipt).
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

/*
SendMessage sends a plaintext+HTML email through the given provider.

sendEmails gates the call: when non-nil and false, SendMessage logs the
intent and returns without contacting any provider — useful for dry runs
and tests that exercise the surrounding pipeline without a real API key.
*/
func SendMessage(
	provider Provider,
	sendEmails *bool,
	sender string,
	recipients []string,
	subject string,
	textBody string,
	htmlBody string,
	attachments []Attachment,
) (e *xerr.Error) {
	if sendEmails != nil && !*sendEmails {
		tl.Log(
			tl.Info, palette.Purple, "Email sending is %s; skipping message to '%s' via %s",
			"disabled", recipients, provider,
		)
		return nil
	}

	if len(recipients) == 0 {
		return xerr.NewError(fmt.Errorf("recipients is empty"), "no recipients provided", string(provider))
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "Sending email via %s: from '%s' to '%s', subject '%s'",
		provider, sender, recipients, subject,
	)

	switch provider {
	case ProviderSES:
		e = sendViaSES(sender, recipients, subject, textBody, htmlBody, attachments)
	case ProviderMailgun:
		e = sendViaMailgun(sender, recipients, subject, textBody, htmlBody, attachments)
	case ProviderSendgrid:
		e = sendViaSendgrid(sender, recipients, subject, textBody, htmlBody, attachments)
	default:
		e = xerr.NewError(fmt.Errorf("unknown provider %q", provider), "unknown email provider", string(provider))
	}
	if e != nil {
		return e
	}

	tl.Log(tl.Notice1, palette.GreenBold, "Email sent via %s to '%s'", provider, recipients)
	return nil
}
