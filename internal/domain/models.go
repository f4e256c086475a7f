package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated staff member of the CRM.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Contact is a CRM directory entry used to pre-fill signer identity at
// setup time. It is never consulted on the public signing path.
type Contact struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Company   string    `db:"company" json:"company"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Document is an envelope: an uploaded PDF plus its fields, signers and
// audit trail. The original bytes are immutable once uploaded; completion
// produces a second, derived artifact.
type Document struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	Title             string         `db:"title" json:"title"`
	OriginalName      string         `db:"original_name" json:"original_name"`
	S3Bucket          string         `db:"s3_bucket" json:"-"`
	S3Key             string         `db:"s3_key" json:"-"`
	CompletedS3Key    string         `db:"completed_s3_key" json:"-"`
	Status            DocumentStatus `db:"status" json:"status"`
	SequentialSigning bool           `db:"sequential_signing" json:"sequential_signing"`
	ContentHash       string         `db:"content_hash" json:"content_hash"`
	CompletedHash     string         `db:"completed_hash" json:"completed_hash"`
	CreatedBy         uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
	CompletedAt       *time.Time     `db:"completed_at" json:"completed_at"`
	ExpiresAt         *time.Time     `db:"expires_at" json:"expires_at"`
}

// Expired reports whether the document's expiry, if any, has passed.
func (d *Document) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && now.After(*d.ExpiresAt)
}

// SignatureField is a positioned, typed placeholder on a document page.
// Position and size are percentages of the page dimensions ([0,100]),
// measured from the top-left corner with y increasing downward.
type SignatureField struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	DocumentID uuid.UUID  `db:"document_id" json:"document_id"`
	Type       FieldType  `db:"field_type" json:"type"`
	Page       int        `db:"page" json:"page"`
	X          float64    `db:"x" json:"x"`
	Y          float64    `db:"y" json:"y"`
	Width      float64    `db:"width" json:"width"`
	Height     float64    `db:"height" json:"height"`
	Required   bool       `db:"required" json:"required"`
	Label      string     `db:"label" json:"label"`
	SignerID   *uuid.UUID `db:"signer_id" json:"signer_id"` // nil = fillable by any signer
	Value      string     `db:"value" json:"value"`         // empty until signed
	SignedAt   *time.Time `db:"signed_at" json:"signed_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Filled reports whether a value has been captured for the field.
func (f *SignatureField) Filled() bool { return f.Value != "" }

// SignerWorkflow is the per-signer record of signing order, status and
// timestamps for one document. Order values form a dense 1..N sequence.
type SignerWorkflow struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	DocumentID   uuid.UUID    `db:"document_id" json:"document_id"`
	ContactID    *uuid.UUID   `db:"contact_id" json:"contact_id"`
	Name         string       `db:"name" json:"name"`
	Email        string       `db:"email" json:"email"`
	RoleLabel    string       `db:"role_label" json:"role_label"`
	SigningOrder int          `db:"signing_order" json:"signing_order"`
	Status       SignerStatus `db:"status" json:"status"`
	Token        string       `db:"token" json:"-"`
	SentAt       *time.Time   `db:"sent_at" json:"sent_at"`
	ViewedAt     *time.Time   `db:"viewed_at" json:"viewed_at"`
	SignedAt     *time.Time   `db:"signed_at" json:"signed_at"`
	DeclinedAt   *time.Time   `db:"declined_at" json:"declined_at"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// Signature is the immutable record of one captured field value.
type Signature struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	FieldID    uuid.UUID     `db:"field_id" json:"field_id"`
	SignerID   uuid.UUID     `db:"signer_id" json:"signer_id"`
	Payload    string        `db:"payload" json:"-"` // data URI or plain text
	Method     CaptureMethod `db:"method" json:"method"`
	PayloadSHA string        `db:"payload_sha" json:"payload_sha"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// AuditLogEntry is one append-only line of a document's audit trail.
type AuditLogEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	Action     AuditAction     `db:"action" json:"action"`
	Detail     string          `db:"detail" json:"detail"`
	ActorID    *uuid.UUID      `db:"actor_id" json:"actor_id"`   // staff user, if any
	SignerID   *uuid.UUID      `db:"signer_id" json:"signer_id"` // signer workflow, if any
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
