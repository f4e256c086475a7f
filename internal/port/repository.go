package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"heliosign/internal/domain"
)

// UserRepository defines the contract for staff user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
}

// ContactRepository defines the contract for CRM contact persistence.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Contact, int, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, contactID uuid.UUID) error
}

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error)
	UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus) error
	MarkSent(ctx context.Context, docID uuid.UUID, expiresAt *time.Time) error
	MarkCompleted(ctx context.Context, docID uuid.UUID, completedS3Key, completedHash string, completedAt time.Time) error
	Delete(ctx context.Context, docID uuid.UUID) error
}

// FieldRepository defines the contract for signature field persistence.
type FieldRepository interface {
	Create(ctx context.Context, field *domain.SignatureField) error
	GetByID(ctx context.Context, fieldID uuid.UUID) (*domain.SignatureField, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignatureField, error)
	Update(ctx context.Context, field *domain.SignatureField) error
	SetValue(ctx context.Context, fieldID uuid.UUID, value string, signedAt time.Time) error
	Delete(ctx context.Context, fieldID uuid.UUID) error
}

// SignerRepository defines the contract for signer workflow persistence.
type SignerRepository interface {
	Create(ctx context.Context, signer *domain.SignerWorkflow) error
	GetByID(ctx context.Context, signerID uuid.UUID) (*domain.SignerWorkflow, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.SignerWorkflow, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignerWorkflow, error)
	SetTokenHash(ctx context.Context, signerID uuid.UUID, tokenHash string) error
	UpdateOrder(ctx context.Context, signerID uuid.UUID, order int) error
	UpdateStatus(ctx context.Context, signerID uuid.UUID, status domain.SignerStatus, at time.Time) error
	Delete(ctx context.Context, signerID uuid.UUID) error
}

// SignatureRepository defines the contract for captured signature persistence.
type SignatureRepository interface {
	Create(ctx context.Context, sig *domain.Signature) error
	GetByField(ctx context.Context, fieldID uuid.UUID) (*domain.Signature, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.Signature, error)
}

// AuditLogRepository defines the contract for the append-only audit trail.
// ListByDocument returns newest entries first; ListBetween is
// chronological.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error)
}
