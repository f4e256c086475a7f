package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

// writeAudit appends one audit trail entry. Audit writes are best-effort:
// a failed write is logged but never fails the operation it records.
func writeAudit(ctx context.Context, repo port.AuditLogRepository, docID uuid.UUID,
	action domain.AuditAction, detail string, actorID, signerID *uuid.UUID, ip string) {
	entry := &domain.AuditLogEntry{
		DocumentID: docID,
		Action:     action,
		Detail:     detail,
		ActorID:    actorID,
		SignerID:   signerID,
		IPAddress:  ip,
	}
	if err := repo.Create(ctx, entry); err != nil {
		log.Printf("audit write failed for document %s action %s: %v", docID, action, err)
	}
}

func (s *documentService) audit(ctx context.Context, docID uuid.UUID, action domain.AuditAction,
	detail string, actorID, signerID *uuid.UUID, ip string) {
	writeAudit(ctx, s.auditRepo, docID, action, detail, actorID, signerID, ip)
}
