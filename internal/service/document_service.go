package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"heliosign/internal/config"
	"heliosign/internal/domain"
	"heliosign/internal/esign"
	"heliosign/internal/port"
)

// UploadDocumentInput is the DTO for uploading a document for signature.
type UploadDocumentInput struct {
	Title             string
	FileName          string
	Content           []byte
	SequentialSigning bool
	UploadedBy        uuid.UUID
}

// FieldInput is the DTO for placing or moving a signature field.
type FieldInput struct {
	Type     domain.FieldType `json:"type" binding:"required"`
	Page     int              `json:"page" binding:"required,min=1"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Required bool             `json:"required"`
	Label    string           `json:"label"`
	SignerID *uuid.UUID       `json:"signer_id"`
}

// SignerInput is the DTO for adding a signer to a document.
type SignerInput struct {
	ContactID    *uuid.UUID `json:"contact_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	RoleLabel    string     `json:"role_label"`
	SigningOrder int        `json:"signing_order" binding:"required,min=1"`
}

// DocumentDetail bundles a document with its fields and signers.
type DocumentDetail struct {
	Document *domain.Document        `json:"document"`
	Fields   []domain.SignatureField `json:"fields"`
	Signers  []domain.SignerWorkflow `json:"signers"`
}

// DocumentService manages the staff-facing document lifecycle: upload,
// field and signer setup, sending, voiding and download.
type DocumentService interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, docID uuid.UUID) (*DocumentDetail, error)
	List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error)
	AddField(ctx context.Context, docID uuid.UUID, input FieldInput) (*domain.SignatureField, error)
	UpdateField(ctx context.Context, docID, fieldID uuid.UUID, input FieldInput) (*domain.SignatureField, error)
	RemoveField(ctx context.Context, docID, fieldID uuid.UUID) error
	AddSigner(ctx context.Context, docID uuid.UUID, input SignerInput) (*domain.SignerWorkflow, error)
	ReorderSigners(ctx context.Context, docID uuid.UUID, orderedIDs []uuid.UUID) error
	RemoveSigner(ctx context.Context, docID, signerID uuid.UUID) error
	Send(ctx context.Context, docID, actorID uuid.UUID) error
	Void(ctx context.Context, docID, actorID uuid.UUID, reason string) error
	DownloadURL(ctx context.Context, docID uuid.UUID) (string, error)
	AuditTrail(ctx context.Context, docID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error)
}

type documentService struct {
	docRepo     port.DocumentRepository
	fieldRepo   port.FieldRepository
	signerRepo  port.SignerRepository
	auditRepo   port.AuditLogRepository
	contactRepo port.ContactRepository
	storage     port.ObjectStorage
	emailSender port.EmailSender
	s3Cfg       config.S3Config
	emailCfg    config.EmailConfig
	signingCfg  config.SigningConfig
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	fieldRepo port.FieldRepository,
	signerRepo port.SignerRepository,
	auditRepo port.AuditLogRepository,
	contactRepo port.ContactRepository,
	storage port.ObjectStorage,
	emailSender port.EmailSender,
	s3Cfg config.S3Config,
	emailCfg config.EmailConfig,
	signingCfg config.SigningConfig,
) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		fieldRepo:   fieldRepo,
		signerRepo:  signerRepo,
		auditRepo:   auditRepo,
		contactRepo: contactRepo,
		storage:     storage,
		emailSender: emailSender,
		s3Cfg:       s3Cfg,
		emailCfg:    emailCfg,
		signingCfg:  signingCfg,
	}
}

func (s *documentService) Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error) {
	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(input.Content)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(input.Content) == 0 {
		return nil, domain.ErrUnsupportedFileType
	}

	// Sniff the content, don't trust the filename.
	if contentType := http.DetectContentType(input.Content); contentType != "application/pdf" {
		return nil, domain.ErrUnsupportedFileType
	}

	contentHash := esign.HashBytes(input.Content)

	key := fmt.Sprintf("documents/%s/original.pdf", uuid.New())
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Content),
		ContentType: "application/pdf",
		Size:        int64(len(input.Content)),
		Metadata:    map[string]string{"content-sha256": contentHash},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	doc := &domain.Document{
		Title:             input.Title,
		OriginalName:      input.FileName,
		S3Bucket:          s.s3Cfg.Bucket,
		S3Key:             key,
		Status:            domain.DocumentStatusDraft,
		SequentialSigning: input.SequentialSigning,
		ContentHash:       contentHash,
		CreatedBy:         input.UploadedBy,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.audit(ctx, doc.ID, domain.AuditActionUploaded, input.FileName, &input.UploadedBy, nil, "")
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, docID uuid.UUID) (*DocumentDetail, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	fields, err := s.fieldRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	signers, err := s.signerRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{Document: doc, Fields: fields, Signers: signers}, nil
}

func (s *documentService) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, status, offset, limit)
}

func (s *documentService) AddField(ctx context.Context, docID uuid.UUID, input FieldInput) (*domain.SignatureField, error) {
	if err := s.requireDraft(ctx, docID); err != nil {
		return nil, err
	}
	field, err := s.buildField(ctx, docID, input)
	if err != nil {
		return nil, err
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, err
	}
	s.audit(ctx, docID, domain.AuditActionFieldAdded,
		fmt.Sprintf("%s on page %d", field.Type, field.Page), nil, nil, "")
	return field, nil
}

func (s *documentService) UpdateField(ctx context.Context, docID, fieldID uuid.UUID, input FieldInput) (*domain.SignatureField, error) {
	if err := s.requireDraft(ctx, docID); err != nil {
		return nil, err
	}
	existing, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if existing.DocumentID != docID {
		return nil, domain.ErrNotFound
	}
	field, err := s.buildField(ctx, docID, input)
	if err != nil {
		return nil, err
	}
	field.ID = fieldID
	if err := s.fieldRepo.Update(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *documentService) RemoveField(ctx context.Context, docID, fieldID uuid.UUID) error {
	if err := s.requireDraft(ctx, docID); err != nil {
		return err
	}
	field, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		return err
	}
	if field.DocumentID != docID {
		return domain.ErrNotFound
	}
	return s.fieldRepo.Delete(ctx, fieldID)
}

func (s *documentService) AddSigner(ctx context.Context, docID uuid.UUID, input SignerInput) (*domain.SignerWorkflow, error) {
	if err := s.requireDraft(ctx, docID); err != nil {
		return nil, err
	}

	signer := &domain.SignerWorkflow{
		DocumentID:   docID,
		ContactID:    input.ContactID,
		Name:         input.Name,
		Email:        input.Email,
		RoleLabel:    input.RoleLabel,
		SigningOrder: input.SigningOrder,
		Status:       domain.SignerStatusPending,
	}

	// A contact reference pre-fills identity; explicit values still win.
	if input.ContactID != nil {
		contact, err := s.contactRepo.GetByID(ctx, *input.ContactID)
		if err != nil {
			return nil, err
		}
		if signer.Name == "" {
			signer.Name = contact.Name
		}
		if signer.Email == "" {
			signer.Email = contact.Email
		}
	}
	if signer.Email == "" {
		return nil, domain.ErrSignerEmailRequired
	}

	existing, err := s.signerRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.Email == signer.Email {
			return nil, domain.ErrDuplicateSignerEmail
		}
	}

	if err := s.signerRepo.Create(ctx, signer); err != nil {
		return nil, err
	}
	s.audit(ctx, docID, domain.AuditActionSignerAdded, signer.Email, nil, &signer.ID, "")
	return signer, nil
}

// ReorderSigners rewrites the signing order to match orderedIDs, which
// must be a permutation of the document's signers.
func (s *documentService) ReorderSigners(ctx context.Context, docID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := s.requireDraft(ctx, docID); err != nil {
		return err
	}
	signers, err := s.signerRepo.ListByDocument(ctx, docID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(signers) {
		return domain.ErrInvalidSigningOrder
	}

	known := make(map[uuid.UUID]bool, len(signers))
	for _, signer := range signers {
		known[signer.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] || seen[id] {
			return domain.ErrInvalidSigningOrder
		}
		seen[id] = true
	}

	for i, id := range orderedIDs {
		if err := s.signerRepo.UpdateOrder(ctx, id, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentService) RemoveSigner(ctx context.Context, docID, signerID uuid.UUID) error {
	if err := s.requireDraft(ctx, docID); err != nil {
		return err
	}
	signer, err := s.signerRepo.GetByID(ctx, signerID)
	if err != nil {
		return err
	}
	if signer.DocumentID != docID {
		return domain.ErrNotFound
	}
	return s.signerRepo.Delete(ctx, signerID)
}

// Send freezes setup and opens the document for signing: it validates
// signer invariants, issues signing tokens, marks everyone SENT and emails
// whoever may act first.
func (s *documentService) Send(ctx context.Context, docID, actorID uuid.UUID) error {
	detail, err := s.Get(ctx, docID)
	if err != nil {
		return err
	}
	doc := detail.Document
	if doc.Status != domain.DocumentStatusDraft {
		return domain.ErrDocumentNotDraft
	}
	if len(detail.Fields) == 0 {
		return domain.ErrNoFields
	}
	if len(detail.Signers) == 0 {
		return domain.ErrNoSigners
	}
	if err := esign.ValidateSigners(detail.Signers); err != nil {
		return err
	}

	var expiresAt *time.Time
	if s.signingCfg.LinkExpiry > 0 {
		t := time.Now().UTC().Add(s.signingCfg.LinkExpiry)
		expiresAt = &t
	}

	// Issue a token per signer; only hashes are persisted, so raw tokens
	// exist solely in the emails sent below.
	now := time.Now().UTC()
	for _, signer := range detail.Signers {
		token, err := esign.NewSigningToken()
		if err != nil {
			return fmt.Errorf("document.Send: %w", err)
		}
		if err := s.signerRepo.SetTokenHash(ctx, signer.ID, esign.HashBytes([]byte(token))); err != nil {
			return err
		}
		if err := s.signerRepo.UpdateStatus(ctx, signer.ID, domain.SignerStatusSent, now); err != nil {
			return err
		}

		if doc.SequentialSigning && signer.SigningOrder != 1 {
			continue
		}
		if err := s.emailSender.SendSigningRequest(ctx, port.SigningRequest{
			ToEmail:       signer.Email,
			ToName:        signer.Name,
			DocumentTitle: doc.Title,
			SenderName:    s.emailCfg.FromName,
			SigningLink:   fmt.Sprintf("%s/%s", s.emailCfg.SigningURL, token),
		}); err != nil {
			return fmt.Errorf("document.Send: emailing %s: %w", signer.Email, err)
		}
	}

	if err := s.docRepo.MarkSent(ctx, docID, expiresAt); err != nil {
		return err
	}
	s.audit(ctx, docID, domain.AuditActionSent,
		fmt.Sprintf("%d signers", len(detail.Signers)), &actorID, nil, "")
	return nil
}

func (s *documentService) Void(ctx context.Context, docID, actorID uuid.UUID, reason string) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Status.Terminal() {
		return domain.ErrDocumentNotSignable
	}
	if err := s.docRepo.UpdateStatus(ctx, docID, domain.DocumentStatusVoided); err != nil {
		return err
	}
	s.audit(ctx, docID, domain.AuditActionVoided, reason, &actorID, nil, "")
	return nil
}

// DownloadURL returns a presigned link to the finalized document when
// completed, otherwise to the original upload.
func (s *documentService) DownloadURL(ctx context.Context, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	key := doc.S3Key
	if doc.Status == domain.DocumentStatusCompleted && doc.CompletedS3Key != "" {
		key = doc.CompletedS3Key
	}
	return s.storage.PresignGet(ctx, doc.S3Bucket, key, s.s3Cfg.PresignExpiry)
}

func (s *documentService) AuditTrail(ctx context.Context, docID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	if _, err := s.docRepo.GetByID(ctx, docID); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.ListByDocument(ctx, docID, offset, limit)
}

func (s *documentService) requireDraft(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return domain.ErrDocumentNotDraft
	}
	return nil
}

func (s *documentService) buildField(ctx context.Context, docID uuid.UUID, input FieldInput) (*domain.SignatureField, error) {
	if !domain.ValidFieldTypes[input.Type] {
		return nil, domain.ErrInvalidFieldType
	}
	field := &domain.SignatureField{
		DocumentID: docID,
		Type:       input.Type,
		Page:       input.Page,
		X:          input.X,
		Y:          input.Y,
		Width:      input.Width,
		Height:     input.Height,
		Required:   input.Required,
		Label:      input.Label,
		SignerID:   input.SignerID,
	}
	if !esign.ValidGeometry(field) {
		return nil, domain.ErrInvalidFieldGeometry
	}
	if input.SignerID != nil {
		signer, err := s.signerRepo.GetByID(ctx, *input.SignerID)
		if err != nil || signer.DocumentID != docID {
			return nil, domain.ErrSignerNotFound
		}
	}
	return field, nil
}
