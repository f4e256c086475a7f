package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	doc.ID = uuid.New()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (id, title, original_name, s3_bucket, s3_key, completed_s3_key,
		status, sequential_signing, content_hash, completed_hash, created_by,
		created_at, updated_at, completed_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.OriginalName, doc.S3Bucket, doc.S3Key, doc.CompletedS3Key,
		doc.Status, doc.SequentialSigning, doc.ContentHash, doc.CompletedHash, doc.CreatedBy,
		doc.CreatedAt, doc.UpdatedAt, doc.CompletedAt, doc.ExpiresAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = "WHERE status = $1"
		args = append(args, status)
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM documents %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var docs []domain.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, docID uuid.UUID, status domain.DocumentStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) MarkSent(ctx context.Context, docID uuid.UUID, expiresAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, expires_at = $2, updated_at = $3 WHERE id = $4",
		domain.DocumentStatusSent, expiresAt, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.MarkSent: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) MarkCompleted(ctx context.Context, docID uuid.UUID, completedS3Key, completedHash string, completedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $1, completed_s3_key = $2, completed_hash = $3,
		 completed_at = $4, updated_at = $5 WHERE id = $6`,
		domain.DocumentStatusCompleted, completedS3Key, completedHash,
		completedAt, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.MarkCompleted: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
