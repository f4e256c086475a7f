package domain

// DocumentStatus represents the lifecycle of an envelope document.
// Transitions are monotonic along DRAFT → SENT → IN_PROGRESS → COMPLETED;
// VOIDED and EXPIRED are terminal and reachable from any pre-COMPLETED state.
type DocumentStatus string

const (
	DocumentStatusDraft      DocumentStatus = "DRAFT"
	DocumentStatusSent       DocumentStatus = "SENT"
	DocumentStatusInProgress DocumentStatus = "IN_PROGRESS"
	DocumentStatusCompleted  DocumentStatus = "COMPLETED"
	DocumentStatusVoided     DocumentStatus = "VOIDED"
	DocumentStatusExpired    DocumentStatus = "EXPIRED"
)

// Terminal reports whether no further status transition is allowed.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusVoided || s == DocumentStatusExpired
}

// FieldType identifies the kind of value a signature field collects.
type FieldType string

const (
	FieldTypeSignature FieldType = "SIGNATURE"
	FieldTypeInitials  FieldType = "INITIALS"
	FieldTypeDate      FieldType = "DATE"
	FieldTypeText      FieldType = "TEXT"
	FieldTypeCheckbox  FieldType = "CHECKBOX"
)

// ValidFieldTypes is the closed set of supported field types.
var ValidFieldTypes = map[FieldType]bool{
	FieldTypeSignature: true,
	FieldTypeInitials:  true,
	FieldTypeDate:      true,
	FieldTypeText:      true,
	FieldTypeCheckbox:  true,
}

// CheckboxChecked is the sentinel value stored for a ticked checkbox field.
const CheckboxChecked = "checked"

// SignerStatus represents the per-signer workflow lifecycle.
// PENDING → SENT → VIEWED → SIGNED, or → DECLINED (terminal) from SENT/VIEWED.
type SignerStatus string

const (
	SignerStatusPending  SignerStatus = "PENDING"
	SignerStatusSent     SignerStatus = "SENT"
	SignerStatusViewed   SignerStatus = "VIEWED"
	SignerStatusSigned   SignerStatus = "SIGNED"
	SignerStatusDeclined SignerStatus = "DECLINED"
)

// Actionable reports whether a signer in this status may view or sign.
func (s SignerStatus) Actionable() bool {
	return s == SignerStatusSent || s == SignerStatusViewed
}

// CaptureMethod identifies how a signature payload was produced.
type CaptureMethod string

const (
	CaptureMethodDrawn    CaptureMethod = "drawn"
	CaptureMethodTyped    CaptureMethod = "typed"
	CaptureMethodUploaded CaptureMethod = "uploaded"
)

// ValidCaptureMethods is the closed set of supported capture methods.
var ValidCaptureMethods = map[CaptureMethod]bool{
	CaptureMethodDrawn:    true,
	CaptureMethodTyped:    true,
	CaptureMethodUploaded: true,
}

// AuditAction is the action code recorded on an audit log entry.
type AuditAction string

const (
	AuditActionUploaded    AuditAction = "DOCUMENT_UPLOADED"
	AuditActionFieldAdded  AuditAction = "FIELD_ADDED"
	AuditActionSignerAdded AuditAction = "SIGNER_ADDED"
	AuditActionSent        AuditAction = "DOCUMENT_SENT"
	AuditActionViewed      AuditAction = "DOCUMENT_VIEWED"
	AuditActionFieldSigned AuditAction = "FIELD_SIGNED"
	AuditActionDeclined    AuditAction = "SIGNER_DECLINED"
	AuditActionCompleted   AuditAction = "DOCUMENT_COMPLETED"
	AuditActionVoided      AuditAction = "DOCUMENT_VOIDED"
	AuditActionExpired     AuditAction = "DOCUMENT_EXPIRED"
	AuditActionEmbedFailed AuditAction = "EMBED_FAILED"
)

// UserRole defines the staff role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)
