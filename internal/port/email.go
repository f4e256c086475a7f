package port

import "context"

// SigningRequest carries everything needed to invite one signer.
type SigningRequest struct {
	ToEmail       string
	ToName        string
	DocumentTitle string
	SenderName    string
	SigningLink   string
}

// EmailSender defines the contract for sending signing emails.
type EmailSender interface {
	SendSigningRequest(ctx context.Context, req SigningRequest) error
	SendCompletionNotice(ctx context.Context, toEmail, toName, documentTitle string) error
}
