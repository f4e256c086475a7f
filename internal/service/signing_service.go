package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"heliosign/internal/config"
	"heliosign/internal/domain"
	"heliosign/internal/esign"
	"heliosign/internal/pdfstamp"
	"heliosign/internal/port"
)

// SignFieldInput is the DTO for capturing one field value. Which parts are
// consulted depends on the field type: signature fields read Method plus
// the matching capture input, text and date fields read Value, checkboxes
// need nothing beyond the request itself.
type SignFieldInput struct {
	Method    domain.CaptureMethod `json:"method"`
	Payload   string               `json:"payload"`   // drawn data URI, or the typed name
	FontName  string               `json:"font_name"` // typed captures only
	ImageData []byte               `json:"-"`         // uploaded captures, decoded by the handler
	Value     string               `json:"value"`     // TEXT and DATE fields
}

// SigningView is everything the public signing page needs to render for
// one signer: their slice of the document, what to fill next, and whether
// they may act right now.
type SigningView struct {
	Document     *domain.Document        `json:"document"`
	Signer       *domain.SignerWorkflow  `json:"signer"`
	Fields       []domain.SignatureField `json:"fields"`
	NextRequired *domain.SignatureField  `json:"next_required"`
	CanSign      bool                    `json:"can_sign"`
	DownloadURL  string                  `json:"download_url"`
}

// SigningService drives the token-authenticated public signing flow.
type SigningService interface {
	View(ctx context.Context, rawToken, ip string) (*SigningView, error)
	SignField(ctx context.Context, rawToken string, fieldID uuid.UUID, input SignFieldInput, ip string) (*SigningView, error)
	Decline(ctx context.Context, rawToken, reason, ip string) error
}

type signingService struct {
	docRepo     port.DocumentRepository
	fieldRepo   port.FieldRepository
	signerRepo  port.SignerRepository
	sigRepo     port.SignatureRepository
	auditRepo   port.AuditLogRepository
	userRepo    port.UserRepository
	storage     port.ObjectStorage
	emailSender port.EmailSender
	renderer    *esign.Renderer
	locks       *docLocks
	s3Cfg       config.S3Config
	emailCfg    config.EmailConfig
}

// NewSigningService creates a new SigningService implementation.
func NewSigningService(
	docRepo port.DocumentRepository,
	fieldRepo port.FieldRepository,
	signerRepo port.SignerRepository,
	sigRepo port.SignatureRepository,
	auditRepo port.AuditLogRepository,
	userRepo port.UserRepository,
	storage port.ObjectStorage,
	emailSender port.EmailSender,
	renderer *esign.Renderer,
	s3Cfg config.S3Config,
	emailCfg config.EmailConfig,
) SigningService {
	return &signingService{
		docRepo:     docRepo,
		fieldRepo:   fieldRepo,
		signerRepo:  signerRepo,
		sigRepo:     sigRepo,
		auditRepo:   auditRepo,
		userRepo:    userRepo,
		storage:     storage,
		emailSender: emailSender,
		renderer:    renderer,
		locks:       newDocLocks(),
		s3Cfg:       s3Cfg,
		emailCfg:    emailCfg,
	}
}

func (s *signingService) View(ctx context.Context, rawToken, ip string) (*SigningView, error) {
	session, signer, err := s.loadSession(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	canSign := false
	switch actErr := session.CanAct(signer.ID, time.Now().UTC()); actErr {
	case nil:
		canSign = true
	case domain.ErrNotYourTurn:
		// Viewing before your turn is fine; signing is not.
	default:
		return nil, actErr
	}

	if signer.Status == domain.SignerStatusSent {
		now := time.Now().UTC()
		if err := s.signerRepo.UpdateStatus(ctx, signer.ID, domain.SignerStatusViewed, now); err != nil {
			return nil, err
		}
		signer.Status = domain.SignerStatusViewed
		signer.ViewedAt = &now
		writeAudit(ctx, s.auditRepo, session.Document.ID, domain.AuditActionViewed,
			signer.Email, nil, &signer.ID, ip)
	}

	return s.buildView(ctx, session, signer, canSign)
}

func (s *signingService) SignField(ctx context.Context, rawToken string, fieldID uuid.UUID, input SignFieldInput, ip string) (*SigningView, error) {
	// All sign mutations for one document are serialized; completion and
	// turn-advancement decisions read a stable snapshot.
	session, signer, err := s.loadSession(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(session.Document.ID)
	defer unlock()

	// Reload under the lock: another signer may have acted in between.
	session, signer, err = s.loadSession(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := session.CanAct(signer.ID, now); err != nil {
		return nil, err
	}

	var field *domain.SignatureField
	for i := range session.Fields {
		if session.Fields[i].ID == fieldID {
			field = &session.Fields[i]
			break
		}
	}
	if field == nil {
		return nil, domain.ErrNotFound
	}
	if field.SignerID != nil && *field.SignerID != signer.ID {
		return nil, domain.ErrFieldNotYours
	}
	if field.Filled() {
		return nil, domain.ErrFieldAlreadySigned
	}

	value, sig, err := s.captureValue(field, signer, input)
	if err != nil {
		return nil, err
	}
	if err := s.fieldRepo.SetValue(ctx, field.ID, value, now); err != nil {
		return nil, err
	}
	if sig != nil {
		if err := s.sigRepo.Create(ctx, sig); err != nil {
			return nil, err
		}
	}
	field.Value = value
	field.SignedAt = &now

	if session.Document.Status == domain.DocumentStatusSent {
		if err := s.docRepo.UpdateStatus(ctx, session.Document.ID, domain.DocumentStatusInProgress); err != nil {
			return nil, err
		}
		session.Document.Status = domain.DocumentStatusInProgress
	}

	writeAudit(ctx, s.auditRepo, session.Document.ID, domain.AuditActionFieldSigned,
		fmt.Sprintf("%s field %s", field.Type, field.ID), nil, &signer.ID, ip)

	canSign := true
	if len(session.RequiredOutstanding(signer.ID)) == 0 && signer.Status != domain.SignerStatusSigned {
		if err := s.signerRepo.UpdateStatus(ctx, signer.ID, domain.SignerStatusSigned, now); err != nil {
			return nil, err
		}
		signer.Status = domain.SignerStatusSigned
		signer.SignedAt = &now
		canSign = false

		if session.Document.SequentialSigning {
			if err := s.notifyNextSigner(ctx, session, signer); err != nil {
				// The next signer can be re-invited; the capture stands.
				log.Printf("notifying next signer for document %s: %v", session.Document.ID, err)
			}
		}
	}

	if session.IsComplete() {
		if err := s.finalize(ctx, session); err != nil {
			writeAudit(ctx, s.auditRepo, session.Document.ID, domain.AuditActionEmbedFailed,
				err.Error(), nil, &signer.ID, ip)
			return nil, fmt.Errorf("finalizing document %s: %w", session.Document.ID, err)
		}
		writeAudit(ctx, s.auditRepo, session.Document.ID, domain.AuditActionCompleted, "", nil, &signer.ID, ip)
		s.sendCompletionNotices(ctx, session)
	}

	return s.buildView(ctx, session, signer, canSign)
}

func (s *signingService) Decline(ctx context.Context, rawToken, reason, ip string) error {
	session, signer, err := s.loadSession(ctx, rawToken)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(session.Document.ID)
	defer unlock()

	session, signer, err = s.loadSession(ctx, rawToken)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	// A signer may decline before their turn comes up; every other
	// "cannot act" reason still applies.
	if err := session.CanAct(signer.ID, now); err != nil && err != domain.ErrNotYourTurn {
		return err
	}

	if err := s.signerRepo.UpdateStatus(ctx, signer.ID, domain.SignerStatusDeclined, now); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, session.Document.ID, domain.AuditActionDeclined,
		reason, nil, &signer.ID, ip)
	return nil
}

// loadSession resolves a raw signing token to its signer and document
// session, applying lazy expiry on the way.
func (s *signingService) loadSession(ctx context.Context, rawToken string) (*esign.Session, *domain.SignerWorkflow, error) {
	if rawToken == "" {
		return nil, nil, domain.ErrSignerNotFound
	}
	signer, err := s.signerRepo.GetByTokenHash(ctx, esign.HashBytes([]byte(rawToken)))
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.docRepo.GetByID(ctx, signer.DocumentID)
	if err != nil {
		return nil, nil, err
	}

	// Expiry is applied lazily: the first access past the deadline
	// transitions the document.
	if doc.Expired(time.Now().UTC()) && !doc.Status.Terminal() {
		if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusExpired); err != nil {
			return nil, nil, err
		}
		doc.Status = domain.DocumentStatusExpired
		writeAudit(ctx, s.auditRepo, doc.ID, domain.AuditActionExpired, "", nil, nil, "")
	}

	fields, err := s.fieldRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, nil, err
	}
	signers, err := s.signerRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, nil, err
	}

	session := &esign.Session{Document: doc, Fields: fields, Signers: signers}
	// Return the signer entry inside the session so status updates are
	// visible to completion checks against the same snapshot.
	if entry := session.Signer(signer.ID); entry != nil {
		return session, entry, nil
	}
	return nil, nil, domain.ErrSignerNotFound
}

// captureValue turns the capture input into the stored field value. For
// raster captures it also returns the signature row to record alongside.
func (s *signingService) captureValue(field *domain.SignatureField, signer *domain.SignerWorkflow, input SignFieldInput) (string, *domain.Signature, error) {
	switch field.Type {
	case domain.FieldTypeSignature, domain.FieldTypeInitials:
		var rendered *esign.Rendered
		var err error
		switch input.Method {
		case domain.CaptureMethodDrawn:
			rendered, err = s.renderer.RenderDrawn(input.Payload)
		case domain.CaptureMethodTyped:
			rendered, err = s.renderer.RenderTyped(input.Payload, input.FontName)
		case domain.CaptureMethodUploaded:
			rendered, err = s.renderer.RenderUploaded(input.ImageData)
		default:
			return "", nil, domain.ErrInvalidCaptureMethod
		}
		if err != nil {
			return "", nil, err
		}
		sig := &domain.Signature{
			FieldID:    field.ID,
			SignerID:   signer.ID,
			Payload:    rendered.Payload,
			Method:     rendered.Method,
			PayloadSHA: esign.HashBytes([]byte(rendered.Payload)),
		}
		return rendered.Payload, sig, nil

	case domain.FieldTypeText, domain.FieldTypeDate:
		if input.Value == "" {
			return "", nil, domain.ErrEmptySignature
		}
		return input.Value, nil, nil

	case domain.FieldTypeCheckbox:
		return domain.CheckboxChecked, nil, nil

	default:
		return "", nil, domain.ErrInvalidFieldType
	}
}

// notifyNextSigner issues a fresh token to the next signer in order and
// emails their invitation.
func (s *signingService) notifyNextSigner(ctx context.Context, session *esign.Session, justSigned *domain.SignerWorkflow) error {
	var next *domain.SignerWorkflow
	for i := range session.Signers {
		sg := &session.Signers[i]
		if sg.SigningOrder > justSigned.SigningOrder && sg.Status.Actionable() {
			if next == nil || sg.SigningOrder < next.SigningOrder {
				next = sg
			}
		}
	}
	if next == nil {
		return nil
	}

	token, err := esign.NewSigningToken()
	if err != nil {
		return err
	}
	if err := s.signerRepo.SetTokenHash(ctx, next.ID, esign.HashBytes([]byte(token))); err != nil {
		return err
	}
	return s.emailSender.SendSigningRequest(ctx, port.SigningRequest{
		ToEmail:       next.Email,
		ToName:        next.Name,
		DocumentTitle: session.Document.Title,
		SenderName:    s.emailCfg.FromName,
		SigningLink:   fmt.Sprintf("%s/%s", s.emailCfg.SigningURL, token),
	})
}

// finalize produces the completed artifact: verify the original against
// its stored hash, stamp every captured field, hash and store the result.
func (s *signingService) finalize(ctx context.Context, session *esign.Session) error {
	doc := session.Document
	original, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		return fmt.Errorf("downloading original: %w", err)
	}
	if !esign.VerifyHash(original, doc.ContentHash) {
		return domain.ErrHashMismatch
	}

	completed, err := pdfstamp.Embed(original, session.Fields)
	if err != nil {
		return fmt.Errorf("embedding fields: %w", err)
	}

	completedHash := esign.HashBytes(completed)
	completedKey := path.Join(path.Dir(doc.S3Key), "completed.pdf")
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      doc.S3Bucket,
		Key:         completedKey,
		Body:        bytes.NewReader(completed),
		ContentType: "application/pdf",
		Size:        int64(len(completed)),
		Metadata:    map[string]string{"content-sha256": completedHash},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	if err := s.docRepo.MarkCompleted(ctx, doc.ID, completedKey, completedHash, now); err != nil {
		return err
	}
	doc.Status = domain.DocumentStatusCompleted
	doc.CompletedS3Key = completedKey
	doc.CompletedAt = &now
	return nil
}

// sendCompletionNotices emails every signer and the document's creator.
// Notices are best-effort; the completion itself already happened.
func (s *signingService) sendCompletionNotices(ctx context.Context, session *esign.Session) {
	doc := session.Document
	for _, signer := range session.Signers {
		if err := s.emailSender.SendCompletionNotice(ctx, signer.Email, signer.Name, doc.Title); err != nil {
			log.Printf("completion notice to %s failed: %v", signer.Email, err)
		}
	}
	creator, err := s.userRepo.GetByID(ctx, doc.CreatedBy)
	if err != nil {
		log.Printf("looking up creator of document %s: %v", doc.ID, err)
		return
	}
	if err := s.emailSender.SendCompletionNotice(ctx, creator.Email, creator.FullName, doc.Title); err != nil {
		log.Printf("completion notice to %s failed: %v", creator.Email, err)
	}
}

func (s *signingService) buildView(ctx context.Context, session *esign.Session, signer *domain.SignerWorkflow, canSign bool) (*SigningView, error) {
	view := &SigningView{
		Document:     session.Document,
		Signer:       signer,
		Fields:       session.FieldsForSigner(signer.ID),
		NextRequired: session.NextRequiredField(signer.ID),
		CanSign:      canSign,
	}

	key := session.Document.S3Key
	if session.Document.Status == domain.DocumentStatusCompleted && session.Document.CompletedS3Key != "" {
		key = session.Document.CompletedS3Key
	}
	url, err := s.storage.PresignGet(ctx, session.Document.S3Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning document for signing view: %w", err)
	}
	view.DownloadURL = url
	return view, nil
}
