package esign

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"heliosign/internal/domain"
)

// Session is a read-only view over one document's fields and signer
// workflows. It answers every "who may do what now" question the signing
// flow asks; it never mutates anything. Callers that act on the answers
// must hold the document's serialization lock.
type Session struct {
	Document *domain.Document
	Fields   []domain.SignatureField
	Signers  []domain.SignerWorkflow
}

// Signer returns the workflow with the given id, or nil.
func (s *Session) Signer(signerID uuid.UUID) *domain.SignerWorkflow {
	for i := range s.Signers {
		if s.Signers[i].ID == signerID {
			return &s.Signers[i]
		}
	}
	return nil
}

// FieldsForSigner returns the fields a signer may fill: fields assigned to
// them plus unassigned "shared" fields fillable by any signer.
func (s *Session) FieldsForSigner(signerID uuid.UUID) []domain.SignatureField {
	var out []domain.SignatureField
	for _, f := range s.Fields {
		if f.SignerID == nil || *f.SignerID == signerID {
			out = append(out, f)
		}
	}
	return out
}

// RequiredOutstanding returns the signer's required fields that still have
// no captured value.
func (s *Session) RequiredOutstanding(signerID uuid.UUID) []domain.SignatureField {
	var out []domain.SignatureField
	for _, f := range s.FieldsForSigner(signerID) {
		if f.Required && !f.Filled() {
			out = append(out, f)
		}
	}
	return out
}

// CanAct reports whether the signer may view or sign right now. A nil
// return means yes; otherwise the error distinguishes "not yet your turn"
// from "document no longer signable" so callers can tell wait from give-up.
func (s *Session) CanAct(signerID uuid.UUID, now time.Time) error {
	signer := s.Signer(signerID)
	if signer == nil {
		return domain.ErrSignerNotFound
	}
	if s.Document.Expired(now) {
		return domain.ErrDocumentNotSignable
	}
	switch s.Document.Status {
	case domain.DocumentStatusSent, domain.DocumentStatusInProgress:
	default:
		return domain.ErrDocumentNotSignable
	}
	if signer.Status == domain.SignerStatusDeclined {
		return domain.ErrSignerDeclined
	}
	if !signer.Status.Actionable() {
		return domain.ErrDocumentNotSignable
	}
	if s.Document.SequentialSigning {
		for _, other := range s.Signers {
			if other.SigningOrder < signer.SigningOrder && other.Status != domain.SignerStatusSigned {
				return domain.ErrNotYourTurn
			}
		}
	}
	return nil
}

// Blocked reports whether a declined signer prevents the document from
// ever completing. Blocked documents need manual resolution (void).
func (s *Session) Blocked() bool {
	for _, signer := range s.Signers {
		if signer.Status == domain.SignerStatusDeclined {
			return true
		}
	}
	return false
}

// IsComplete reports whether the document as a whole is done: every signer
// SIGNED and every required field filled. The two checks are independent;
// forcing signer statuses cannot complete a document with an unfilled
// required field, and vice versa.
func (s *Session) IsComplete() bool {
	if len(s.Signers) == 0 {
		return false
	}
	for _, signer := range s.Signers {
		if signer.Status != domain.SignerStatusSigned {
			return false
		}
	}
	for _, f := range s.Fields {
		if f.Required && !f.Filled() {
			return false
		}
	}
	return true
}

// NextRequiredField returns the signer's outstanding required field the
// signer visually encounters first: lowest page, then lowest y (top of the
// page in UI coordinates), then lowest x as a tiebreak. Nil when none
// remain.
func (s *Session) NextRequiredField(signerID uuid.UUID) *domain.SignatureField {
	outstanding := s.RequiredOutstanding(signerID)
	if len(outstanding) == 0 {
		return nil
	}
	sort.Slice(outstanding, func(i, j int) bool {
		a, b := outstanding[i], outstanding[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return &outstanding[0]
}

// ValidateSigners checks the document-level signer invariants: unique
// emails and signing orders forming a dense 1..N sequence.
func ValidateSigners(signers []domain.SignerWorkflow) error {
	seenEmail := make(map[string]bool, len(signers))
	seenOrder := make(map[int]bool, len(signers))
	for _, s := range signers {
		if seenEmail[s.Email] {
			return domain.ErrDuplicateSignerEmail
		}
		seenEmail[s.Email] = true
		if s.SigningOrder < 1 || s.SigningOrder > len(signers) || seenOrder[s.SigningOrder] {
			return domain.ErrInvalidSigningOrder
		}
		seenOrder[s.SigningOrder] = true
	}
	return nil
}
