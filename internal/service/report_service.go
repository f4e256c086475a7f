package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"heliosign/internal/csvexport"
	"heliosign/internal/domain"
	"heliosign/internal/port"
)

// ReportService produces staff-facing exports over signing activity.
type ReportService interface {
	// SigningActivityXLSX renders every audit trail entry in [from, to)
	// as an Excel workbook with a per-action summary sheet.
	SigningActivityXLSX(ctx context.Context, from, to time.Time) ([]byte, error)
	// SigningActivityCSV renders the same range as UTF-8 CSV with a BOM
	// so spreadsheet software opens it cleanly.
	SigningActivityCSV(ctx context.Context, from, to time.Time) ([]byte, error)
	// DocumentReportXLSX renders one document's signer statuses and full
	// audit trail as an Excel workbook.
	DocumentReportXLSX(ctx context.Context, docID uuid.UUID) ([]byte, error)
}

type reportService struct {
	auditRepo  port.AuditLogRepository
	docRepo    port.DocumentRepository
	signerRepo port.SignerRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(auditRepo port.AuditLogRepository, docRepo port.DocumentRepository, signerRepo port.SignerRepository) ReportService {
	return &reportService{auditRepo: auditRepo, docRepo: docRepo, signerRepo: signerRepo}
}

const activitySheet = "Signing Activity"

func (s *reportService) SigningActivityXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	entries, err := s.auditRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.SigningActivityXLSX: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", activitySheet); err != nil {
		return nil, fmt.Errorf("report.SigningActivityXLSX: %w", err)
	}

	header := []interface{}{"Time (UTC)", "Document", "Action", "Detail", "Actor", "Signer", "IP Address"}
	if err := f.SetSheetRow(activitySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("report.SigningActivityXLSX: %w", err)
	}

	titles := s.documentTitles(ctx, entries)
	counts := make(map[domain.AuditAction]int)

	for i, entry := range entries {
		counts[entry.Action]++

		title, ok := titles[entry.DocumentID]
		if !ok {
			title = entry.DocumentID.String()
		}

		actor := ""
		if entry.ActorID != nil {
			actor = entry.ActorID.String()
		}
		signer := ""
		if entry.SignerID != nil {
			signer = entry.SignerID.String()
		}

		row := []interface{}{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			title,
			string(entry.Action),
			entry.Detail,
			actor,
			signer,
			entry.IPAddress,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(activitySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("report.SigningActivityXLSX: %w", err)
		}
	}

	if err := s.writeSummarySheet(f, from, to, len(entries), counts); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report.SigningActivityXLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) SigningActivityCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	entries, err := s.auditRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.SigningActivityCSV: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)

	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("report.SigningActivityCSV: %w", err)
	}
	if err := w.WriteEntries(entries, s.documentTitles(ctx, entries)); err != nil {
		return nil, fmt.Errorf("report.SigningActivityCSV: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report.SigningActivityCSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) DocumentReportXLSX(ctx context.Context, docID uuid.UUID) ([]byte, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	signers, err := s.signerRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}
	entries, _, err := s.auditRepo.ListByDocument(ctx, docID, 0, 10000)
	if err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const signerSheet = "Signers"
	if err := f.SetSheetName("Sheet1", signerSheet); err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}

	rows := [][]interface{}{
		{"Document", doc.Title},
		{"Status", string(doc.Status)},
		{"Content SHA-256", doc.ContentHash},
		{"Completed SHA-256", doc.CompletedHash},
		{},
		{"Order", "Name", "Email", "Role", "Status", "Sent", "Viewed", "Signed", "Declined"},
	}
	for _, signer := range signers {
		rows = append(rows, []interface{}{
			signer.SigningOrder,
			signer.Name,
			signer.Email,
			signer.RoleLabel,
			string(signer.Status),
			formatTimePtr(signer.SentAt),
			formatTimePtr(signer.ViewedAt),
			formatTimePtr(signer.SignedAt),
			formatTimePtr(signer.DeclinedAt),
		})
	}
	for i := range rows {
		row := rows[i]
		if err := f.SetSheetRow(signerSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
		}
	}

	const trailSheet = "Audit Trail"
	if _, err := f.NewSheet(trailSheet); err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}
	header := []interface{}{"Time (UTC)", "Action", "Detail", "Actor", "Signer", "IP Address"}
	if err := f.SetSheetRow(trailSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}
	for i, entry := range entries {
		actor := ""
		if entry.ActorID != nil {
			actor = entry.ActorID.String()
		}
		signer := ""
		if entry.SignerID != nil {
			signer = entry.SignerID.String()
		}
		row := []interface{}{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			string(entry.Action),
			entry.Detail,
			actor,
			signer,
			entry.IPAddress,
		}
		if err := f.SetSheetRow(trailSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report.DocumentReportXLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// documentTitles resolves each referenced document's title once. Documents
// that cannot be loaded keep their raw ID as the display title.
func (s *reportService) documentTitles(ctx context.Context, entries []domain.AuditLogEntry) map[uuid.UUID]string {
	titles := make(map[uuid.UUID]string)
	for _, entry := range entries {
		if _, ok := titles[entry.DocumentID]; ok {
			continue
		}
		if doc, err := s.docRepo.GetByID(ctx, entry.DocumentID); err == nil {
			titles[entry.DocumentID] = doc.Title
		} else {
			titles[entry.DocumentID] = entry.DocumentID.String()
		}
	}
	return titles
}

func (s *reportService) writeSummarySheet(f *excelize.File, from, to time.Time, total int, counts map[domain.AuditAction]int) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"From", from.UTC().Format(time.RFC3339)},
		{"To", to.UTC().Format(time.RFC3339)},
		{"Total events", total},
		{},
		{"Action", "Count"},
	}
	for _, action := range []domain.AuditAction{
		domain.AuditActionUploaded,
		domain.AuditActionSent,
		domain.AuditActionViewed,
		domain.AuditActionFieldSigned,
		domain.AuditActionDeclined,
		domain.AuditActionCompleted,
		domain.AuditActionVoided,
		domain.AuditActionExpired,
		domain.AuditActionEmbedFailed,
	} {
		if n := counts[action]; n > 0 {
			rows = append(rows, []interface{}{string(action), n})
		}
	}

	for i := range rows {
		row := rows[i]
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("report summary sheet: %w", err)
		}
	}
	return nil
}
