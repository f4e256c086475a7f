package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"heliosign/internal/domain"
	"heliosign/internal/service"
	"heliosign/mocks"
)

func TestReportService_SigningActivityXLSX(t *testing.T) {
	auditRepo := new(mocks.MockAuditLogRepo)
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewReportService(auditRepo, docRepo, new(mocks.MockSignerRepo))

	docID := uuid.New()
	signerID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	entries := []domain.AuditLogEntry{
		{
			ID: uuid.New(), DocumentID: docID,
			Action: domain.AuditActionSent, Detail: "2 signers",
			CreatedAt: from.Add(time.Hour),
		},
		{
			ID: uuid.New(), DocumentID: docID,
			Action: domain.AuditActionFieldSigned, Detail: "SIGNATURE field",
			SignerID: &signerID, IPAddress: "203.0.113.7",
			CreatedAt: from.Add(2 * time.Hour),
		},
	}
	auditRepo.On("ListBetween", mock.Anything, from, to).Return(entries, nil)
	docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{
		ID: docID, Title: "Install Agreement",
	}, nil)

	data, err := svc.SigningActivityXLSX(context.Background(), from, to)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Signing Activity")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Install Agreement", rows[1][1])
	assert.Equal(t, string(domain.AuditActionSent), rows[1][2])
	assert.Equal(t, "203.0.113.7", rows[2][6])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "Total events", summary[2][0])
	assert.Equal(t, "2", summary[2][1])

	// The document title is fetched once despite two entries.
	docRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestReportService_SigningActivityCSV(t *testing.T) {
	auditRepo := new(mocks.MockAuditLogRepo)
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewReportService(auditRepo, docRepo, new(mocks.MockSignerRepo))

	docID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	auditRepo.On("ListBetween", mock.Anything, from, to).Return([]domain.AuditLogEntry{
		{
			ID: uuid.New(), DocumentID: docID,
			Action: domain.AuditActionCompleted, CreatedAt: from.Add(time.Hour),
		},
	}, nil)
	docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{
		ID: docID, Title: "Install Agreement",
	}, nil)

	data, err := svc.SigningActivityCSV(context.Background(), from, to)
	require.NoError(t, err)

	// BOM prefix, then a header and one data row.
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Install Agreement", records[1][2])
	assert.Equal(t, string(domain.AuditActionCompleted), records[1][3])
}

func TestReportService_DocumentReportXLSX(t *testing.T) {
	auditRepo := new(mocks.MockAuditLogRepo)
	docRepo := new(mocks.MockDocumentRepo)
	signerRepo := new(mocks.MockSignerRepo)
	svc := service.NewReportService(auditRepo, docRepo, signerRepo)

	docID := uuid.New()
	signedAt := time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC)

	docRepo.On("GetByID", mock.Anything, docID).Return(&domain.Document{
		ID: docID, Title: "Install Agreement",
		Status:      domain.DocumentStatusCompleted,
		ContentHash: "abc123",
	}, nil)
	signerRepo.On("ListByDocument", mock.Anything, docID).Return([]domain.SignerWorkflow{
		{
			ID: uuid.New(), DocumentID: docID,
			Name: "Pat Homeowner", Email: "pat@example.com",
			RoleLabel: "Homeowner", SigningOrder: 1,
			Status: domain.SignerStatusSigned, SignedAt: &signedAt,
		},
	}, nil)
	// Newest first, matching the repository's display ordering.
	auditRepo.On("ListByDocument", mock.Anything, docID, 0, 10000).Return([]domain.AuditLogEntry{
		{
			ID: uuid.New(), DocumentID: docID,
			Action: domain.AuditActionCompleted, CreatedAt: signedAt,
		},
		{
			ID: uuid.New(), DocumentID: docID,
			Action: domain.AuditActionFieldSigned, CreatedAt: signedAt.Add(-time.Minute),
		},
	}, 2, nil)

	data, err := svc.DocumentReportXLSX(context.Background(), docID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Signers")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Install Agreement", rows[0][1])
	assert.Equal(t, string(domain.DocumentStatusCompleted), rows[1][1])
	assert.Equal(t, "pat@example.com", rows[6][2])
	assert.Equal(t, signedAt.Format(time.RFC3339), rows[6][7])

	trail, err := f.GetRows("Audit Trail")
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, string(domain.AuditActionCompleted), trail[1][1])
	assert.Equal(t, string(domain.AuditActionFieldSigned), trail[2][1])
}

func TestReportService_DocumentReportXLSX_NotFound(t *testing.T) {
	auditRepo := new(mocks.MockAuditLogRepo)
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewReportService(auditRepo, docRepo, new(mocks.MockSignerRepo))

	docID := uuid.New()
	docRepo.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrNotFound)

	_, err := svc.DocumentReportXLSX(context.Background(), docID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportService_SigningActivityXLSX_EmptyRange(t *testing.T) {
	auditRepo := new(mocks.MockAuditLogRepo)
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewReportService(auditRepo, docRepo, new(mocks.MockSignerRepo))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	auditRepo.On("ListBetween", mock.Anything, from, to).Return([]domain.AuditLogEntry{}, nil)

	data, err := svc.SigningActivityXLSX(context.Background(), from, to)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Signing Activity")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
