package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

type auditLogRepo struct {
	db *sqlx.DB
}

// NewAuditLogRepo creates a new PostgreSQL-backed AuditLogRepository.
// Entries are append-only: there is no update or delete path.
func NewAuditLogRepo(db *sqlx.DB) port.AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO audit_log_entries (id, document_id, action, detail, actor_id, signer_id,
		ip_address, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DocumentID, entry.Action, entry.Detail, entry.ActorID,
		entry.SignerID, entry.IPAddress, entry.Metadata, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("auditLogRepo.Create: %w", err)
	}
	return nil
}

func (r *auditLogRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AuditLogEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM audit_log_entries WHERE document_id = $1", documentID)
	if err != nil {
		return nil, 0, fmt.Errorf("auditLogRepo.ListByDocument count: %w", err)
	}

	// Newest first: this listing backs the audit trail display.
	var entries []domain.AuditLogEntry
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_log_entries
		 WHERE document_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditLogRepo.ListByDocument: %w", err)
	}
	return entries, total, nil
}

// ListBetween returns entries in chronological order for the activity
// exports, which read top to bottom.
func (r *auditLogRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_log_entries
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("auditLogRepo.ListBetween: %w", err)
	}
	return entries, nil
}
