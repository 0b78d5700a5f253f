package email

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// sendViaSES uses SES's "simple" content API, which covers subject + text +
// HTML bodies but not attachments; the raw-MIME API would be needed for
// those, and no caller in this repo attaches anything to an SES message yet.
func sendViaSES(sender string, recipients []string, subject, textBody, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	if len(attachments) > 0 {
		tl.Log(tl.Warning, palette.PurpleBold, "%s", "SES provider does not support attachments; dropping them")
	}

	ctx := context.Background()
	cfg, cfgErr := awsconfig.LoadDefaultConfig(ctx)
	if cfgErr != nil {
		return xerr.NewError(cfgErr, "load AWS config for SES", "")
	}

	client := sesv2.NewFromConfig(cfg)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &sender,
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
					Html: &types.Content{Data: &htmlBody},
				},
			},
		},
	}

	_, sendErr := client.SendEmail(ctx, input)
	if sendErr != nil {
		return xerr.NewError(sendErr, "send email via SES", sender)
	}

	return nil
}
