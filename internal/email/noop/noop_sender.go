package noop

import (
	"context"
	"log"

	"heliosign/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs signing links to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSigningRequest(_ context.Context, req port.SigningRequest) error {
	log.Printf("[NOOP EMAIL] Signing request for %s (%s), document %q: %s",
		req.ToName, req.ToEmail, req.DocumentTitle, req.SigningLink)
	return nil
}

func (s *noopSender) SendCompletionNotice(_ context.Context, toEmail, toName, documentTitle string) error {
	log.Printf("[NOOP EMAIL] Completion notice for %s (%s), document %q", toName, toEmail, documentTitle)
	return nil
}
