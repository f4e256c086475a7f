package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"heliosign/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendSigningRequest(ctx context.Context, req port.SigningRequest) error {
	subject := fmt.Sprintf("%s has requested your signature: %s", req.SenderName, req.DocumentTitle)
	htmlBody := buildSigningRequestHTML(req)
	textBody := fmt.Sprintf(
		"Hi %s,\n\n%s has sent you the document %q for electronic signature.\n\nReview and sign here:\n%s\n\nThe link is personal to you; please do not forward it.\n\nHelioSign",
		req.ToName, req.SenderName, req.DocumentTitle, req.SigningLink)

	return s.send(ctx, req.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendCompletionNotice(ctx context.Context, toEmail, toName, documentTitle string) error {
	subject := fmt.Sprintf("Completed: %s", documentTitle)
	htmlBody := buildCompletionHTML(toName, documentTitle)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nAll parties have signed %q. The finalized document is available from your dashboard.\n\nHelioSign",
		toName, documentTitle)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSigningRequestHTML(req port.SigningRequest) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your signature is requested</h2>
  <p>Hi %s,</p>
  <p>%s has sent you <strong>%s</strong> for electronic signature.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #F59E0B; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review &amp; Sign</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">This link is personal to you. Please do not forward it.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">HelioSign - Solar Project E-Signatures</p>
</body>
</html>`, req.ToName, req.SenderName, req.DocumentTitle, req.SigningLink, req.SigningLink)
}

func buildCompletionHTML(name, documentTitle string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Document completed</h2>
  <p>Hi %s,</p>
  <p>All parties have signed <strong>%s</strong>. The finalized document is available from your dashboard.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">HelioSign - Solar Project E-Signatures</p>
</body>
</html>`, name, documentTitle)
}
