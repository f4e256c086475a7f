package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/digitorus/pdf"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"heliosign/internal/config"
	"heliosign/internal/domain"
	"heliosign/internal/esign"
	"heliosign/internal/port"
	"heliosign/internal/service"
	"heliosign/mocks"
)

type signingServiceMocks struct {
	docRepo    *mocks.MockDocumentRepo
	fieldRepo  *mocks.MockFieldRepo
	signerRepo *mocks.MockSignerRepo
	sigRepo    *mocks.MockSignatureRepo
	auditRepo  *mocks.MockAuditLogRepo
	userRepo   *mocks.MockUserRepo
	storage    *mocks.MockObjectStorage
	email      *mocks.MockEmailSender
}

func newSigningService(t *testing.T) (service.SigningService, *signingServiceMocks) {
	t.Helper()
	m := &signingServiceMocks{
		docRepo:    new(mocks.MockDocumentRepo),
		fieldRepo:  new(mocks.MockFieldRepo),
		signerRepo: new(mocks.MockSignerRepo),
		sigRepo:    new(mocks.MockSignatureRepo),
		auditRepo:  new(mocks.MockAuditLogRepo),
		userRepo:   new(mocks.MockUserRepo),
		storage:    new(mocks.MockObjectStorage),
		email:      new(mocks.MockEmailSender),
	}
	renderer, err := esign.NewRenderer(esign.DefaultFontCatalog())
	require.NoError(t, err)

	svc := service.NewSigningService(
		m.docRepo, m.fieldRepo, m.signerRepo, m.sigRepo, m.auditRepo, m.userRepo,
		m.storage, m.email, renderer,
		config.S3Config{Bucket: "heliosign-test", PresignExpiry: 3600},
		config.EmailConfig{FromName: "HelioSign", SigningURL: "http://localhost:3000/sign"},
	)
	return svc, m
}

// signablePDF builds a minimal one-page document that can survive the
// stamping pass at completion time.
func signablePDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, 3)
	addObj := func(id int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}
	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	addObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)

	_, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return buf.Bytes()
}

type signingFixture struct {
	rawToken string
	doc      *domain.Document
	signer   *domain.SignerWorkflow
	fields   []domain.SignatureField
}

// newSigningFixture wires a SENT document with one signer and one
// required text field into the mocks.
func newSigningFixture(m *signingServiceMocks, content []byte) *signingFixture {
	docID := uuid.New()
	signerID := uuid.New()
	rawToken := "raw-test-token"

	doc := &domain.Document{
		ID:          docID,
		Title:       "Install Agreement",
		S3Bucket:    "heliosign-test",
		S3Key:       "documents/x/original.pdf",
		Status:      domain.DocumentStatusSent,
		ContentHash: esign.HashBytes(content),
		CreatedBy:   uuid.New(),
	}
	signer := &domain.SignerWorkflow{
		ID:           signerID,
		DocumentID:   docID,
		Name:         "Homeowner",
		Email:        "owner@example.com",
		SigningOrder: 1,
		Status:       domain.SignerStatusSent,
	}
	fields := []domain.SignatureField{
		{
			ID: uuid.New(), DocumentID: docID, Type: domain.FieldTypeText,
			Page: 1, X: 10, Y: 80, Width: 30, Height: 5,
			Required: true, SignerID: &signerID,
		},
	}

	m.signerRepo.On("GetByTokenHash", mock.Anything, esign.HashBytes([]byte(rawToken))).Return(signer, nil)
	m.docRepo.On("GetByID", mock.Anything, docID).Return(doc, nil)
	m.fieldRepo.On("ListByDocument", mock.Anything, docID).Return(fields, nil)
	m.signerRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignerWorkflow{*signer}, nil)
	m.auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuditLogEntry")).Return(nil)
	m.storage.On("PresignGet", mock.Anything, "heliosign-test", mock.AnythingOfType("string"), int64(3600)).
		Return("https://signed.example/doc", nil)

	return &signingFixture{rawToken: rawToken, doc: doc, signer: signer, fields: fields}
}

func TestSigningService_View_MarksViewed(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	m.signerRepo.On("UpdateStatus", mock.Anything, fx.signer.ID, domain.SignerStatusViewed, mock.Anything).Return(nil)

	view, err := svc.View(context.Background(), fx.rawToken, "203.0.113.7")

	assert.NoError(t, err)
	assert.True(t, view.CanSign)
	assert.Equal(t, domain.SignerStatusViewed, view.Signer.Status)
	assert.NotNil(t, view.NextRequired)
	assert.Equal(t, "https://signed.example/doc", view.DownloadURL)
	m.signerRepo.AssertCalled(t, "UpdateStatus", mock.Anything, fx.signer.ID, domain.SignerStatusViewed, mock.Anything)
}

func TestSigningService_View_UnknownToken(t *testing.T) {
	svc, m := newSigningService(t)

	m.signerRepo.On("GetByTokenHash", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domain.ErrSignerNotFound)

	_, err := svc.View(context.Background(), "bogus-token", "")

	assert.ErrorIs(t, err, domain.ErrSignerNotFound)
}

func TestSigningService_View_EmptyToken(t *testing.T) {
	svc, _ := newSigningService(t)

	_, err := svc.View(context.Background(), "", "")

	assert.ErrorIs(t, err, domain.ErrSignerNotFound)
}

func TestSigningService_View_LazyExpiry(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	past := time.Now().UTC().Add(-time.Hour)
	fx.doc.ExpiresAt = &past

	m.docRepo.On("UpdateStatus", mock.Anything, fx.doc.ID, domain.DocumentStatusExpired).Return(nil)

	_, err := svc.View(context.Background(), fx.rawToken, "")

	assert.ErrorIs(t, err, domain.ErrDocumentNotSignable)
	m.docRepo.AssertCalled(t, "UpdateStatus", mock.Anything, fx.doc.ID, domain.DocumentStatusExpired)
}

func TestSigningService_View_OutOfTurnIsReadOnly(t *testing.T) {
	svc, m := newSigningService(t)

	docID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()
	rawToken := "second-signer-token"

	doc := &domain.Document{
		ID: docID, Title: "Install Agreement",
		S3Bucket: "heliosign-test", S3Key: "documents/x/original.pdf",
		Status: domain.DocumentStatusSent, SequentialSigning: true,
	}
	second := &domain.SignerWorkflow{
		ID: secondID, DocumentID: docID, Email: "second@example.com",
		SigningOrder: 2, Status: domain.SignerStatusViewed,
	}

	m.signerRepo.On("GetByTokenHash", mock.Anything, esign.HashBytes([]byte(rawToken))).Return(second, nil)
	m.docRepo.On("GetByID", mock.Anything, docID).Return(doc, nil)
	m.fieldRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignatureField{}, nil)
	m.signerRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignerWorkflow{
		{ID: firstID, DocumentID: docID, Email: "first@example.com", SigningOrder: 1, Status: domain.SignerStatusSent},
		*second,
	}, nil)
	m.storage.On("PresignGet", mock.Anything, "heliosign-test", "documents/x/original.pdf", int64(3600)).
		Return("https://signed.example/doc", nil)

	view, err := svc.View(context.Background(), rawToken, "")

	assert.NoError(t, err)
	assert.False(t, view.CanSign)
}

func TestSigningService_SignField_CompletesDocument(t *testing.T) {
	svc, m := newSigningService(t)
	content := signablePDF(t)
	fx := newSigningFixture(m, content)

	m.fieldRepo.On("SetValue", mock.Anything, fx.fields[0].ID, "August 29, 2026", mock.Anything).Return(nil)
	m.docRepo.On("UpdateStatus", mock.Anything, fx.doc.ID, domain.DocumentStatusInProgress).Return(nil)
	m.signerRepo.On("UpdateStatus", mock.Anything, fx.signer.ID, domain.SignerStatusSigned, mock.Anything).Return(nil)
	m.storage.On("Download", mock.Anything, "heliosign-test", "documents/x/original.pdf").Return(content, nil)
	m.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == "documents/x/completed.pdf"
	})).Return(&port.UploadOutput{}, nil)
	m.docRepo.On("MarkCompleted", mock.Anything, fx.doc.ID, "documents/x/completed.pdf",
		mock.AnythingOfType("string"), mock.Anything).Return(nil)
	m.email.On("SendCompletionNotice", mock.Anything, "owner@example.com", "Homeowner", "Install Agreement").Return(nil)
	creator := &domain.User{ID: fx.doc.CreatedBy, Email: "rep@helio.test", FullName: "Sales Rep"}
	m.userRepo.On("GetByID", mock.Anything, fx.doc.CreatedBy).Return(creator, nil)
	m.email.On("SendCompletionNotice", mock.Anything, "rep@helio.test", "Sales Rep", "Install Agreement").Return(nil)

	view, err := svc.SignField(context.Background(), fx.rawToken, fx.fields[0].ID, service.SignFieldInput{
		Value: "August 29, 2026",
	}, "203.0.113.7")

	assert.NoError(t, err)
	assert.False(t, view.CanSign)
	assert.Equal(t, domain.DocumentStatusCompleted, view.Document.Status)
	m.docRepo.AssertCalled(t, "MarkCompleted", mock.Anything, fx.doc.ID, "documents/x/completed.pdf",
		mock.AnythingOfType("string"), mock.Anything)
	m.email.AssertNumberOfCalls(t, "SendCompletionNotice", 2)
}

func TestSigningService_SignField_DrawnSignatureRecordsCapture(t *testing.T) {
	svc, m := newSigningService(t)
	content := signablePDF(t)
	fx := newSigningFixture(m, content)

	// Swap in a drawn signature field plus a second required field so the
	// document does not complete.
	sigField := domain.SignatureField{
		ID: uuid.New(), DocumentID: fx.doc.ID, Type: domain.FieldTypeSignature,
		Page: 1, X: 10, Y: 60, Width: 30, Height: 8,
		Required: true, SignerID: &fx.signer.ID,
	}
	fx.fields[0] = sigField
	m.fieldRepo.ExpectedCalls = nil
	m.fieldRepo.On("ListByDocument", mock.Anything, fx.doc.ID).Return([]domain.SignatureField{
		sigField,
		{
			ID: uuid.New(), DocumentID: fx.doc.ID, Type: domain.FieldTypeDate,
			Page: 1, X: 50, Y: 60, Width: 20, Height: 5,
			Required: true, SignerID: &fx.signer.ID,
		},
	}, nil)

	payload := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

	m.fieldRepo.On("SetValue", mock.Anything, sigField.ID, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	m.sigRepo.On("Create", mock.Anything, mock.MatchedBy(func(sig *domain.Signature) bool {
		return sig.FieldID == sigField.ID && sig.SignerID == fx.signer.ID &&
			sig.Method == domain.CaptureMethodDrawn && sig.PayloadSHA != ""
	})).Return(nil)
	m.docRepo.On("UpdateStatus", mock.Anything, fx.doc.ID, domain.DocumentStatusInProgress).Return(nil)

	view, err := svc.SignField(context.Background(), fx.rawToken, sigField.ID, service.SignFieldInput{
		Method:  domain.CaptureMethodDrawn,
		Payload: payload,
	}, "")

	assert.NoError(t, err)
	assert.True(t, view.CanSign)
	assert.Equal(t, domain.DocumentStatusInProgress, view.Document.Status)
	m.sigRepo.AssertExpectations(t)
}

func TestSigningService_SignField_RejectsForeignField(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	otherID := uuid.New()
	fx.fields[0].SignerID = &otherID

	_, err := svc.SignField(context.Background(), fx.rawToken, fx.fields[0].ID, service.SignFieldInput{
		Value: "mine now",
	}, "")

	assert.ErrorIs(t, err, domain.ErrFieldNotYours)
}

func TestSigningService_SignField_RejectsRefill(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	fx.fields[0].Value = "already here"

	_, err := svc.SignField(context.Background(), fx.rawToken, fx.fields[0].ID, service.SignFieldInput{
		Value: "second attempt",
	}, "")

	assert.ErrorIs(t, err, domain.ErrFieldAlreadySigned)
}

func TestSigningService_SignField_RejectsEmptyText(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	_, err := svc.SignField(context.Background(), fx.rawToken, fx.fields[0].ID, service.SignFieldInput{}, "")

	assert.ErrorIs(t, err, domain.ErrEmptySignature)
}

func TestSigningService_SignField_UnknownField(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	_, err := svc.SignField(context.Background(), fx.rawToken, uuid.New(), service.SignFieldInput{
		Value: "anything",
	}, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSigningService_Decline_BeforeTurnAllowed(t *testing.T) {
	svc, m := newSigningService(t)

	docID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()
	rawToken := "second-signer-token"

	doc := &domain.Document{
		ID: docID, Title: "Install Agreement",
		S3Bucket: "heliosign-test", S3Key: "documents/x/original.pdf",
		Status: domain.DocumentStatusSent, SequentialSigning: true,
	}
	second := &domain.SignerWorkflow{
		ID: secondID, DocumentID: docID, Email: "second@example.com",
		SigningOrder: 2, Status: domain.SignerStatusSent,
	}

	m.signerRepo.On("GetByTokenHash", mock.Anything, esign.HashBytes([]byte(rawToken))).Return(second, nil)
	m.docRepo.On("GetByID", mock.Anything, docID).Return(doc, nil)
	m.fieldRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignatureField{}, nil)
	m.signerRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignerWorkflow{
		{ID: firstID, DocumentID: docID, Email: "first@example.com", SigningOrder: 1, Status: domain.SignerStatusSent},
		*second,
	}, nil)
	m.signerRepo.On("UpdateStatus", mock.Anything, secondID, domain.SignerStatusDeclined, mock.Anything).Return(nil)
	m.auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuditLogEntry")).Return(nil)

	err := svc.Decline(context.Background(), rawToken, "terms unacceptable", "203.0.113.7")

	assert.NoError(t, err)
	m.signerRepo.AssertCalled(t, "UpdateStatus", mock.Anything, secondID, domain.SignerStatusDeclined, mock.Anything)
}

func TestSigningService_Decline_VoidedDocumentRejected(t *testing.T) {
	svc, m := newSigningService(t)
	fx := newSigningFixture(m, signablePDF(t))

	fx.doc.Status = domain.DocumentStatusVoided

	err := svc.Decline(context.Background(), fx.rawToken, "", "")

	assert.ErrorIs(t, err, domain.ErrDocumentNotSignable)
}
