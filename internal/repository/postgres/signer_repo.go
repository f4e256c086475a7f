package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"heliosign/internal/domain"
	"heliosign/internal/port"
)

type signerRepo struct {
	db *sqlx.DB
}

// NewSignerRepo creates a new PostgreSQL-backed SignerRepository.
func NewSignerRepo(db *sqlx.DB) port.SignerRepository {
	return &signerRepo{db: db}
}

func (r *signerRepo) Create(ctx context.Context, signer *domain.SignerWorkflow) error {
	signer.ID = uuid.New()
	signer.CreatedAt = time.Now().UTC()

	query := `INSERT INTO signer_workflows (id, document_id, contact_id, name, email, role_label,
		signing_order, status, token, sent_at, viewed_at, signed_at, declined_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		signer.ID, signer.DocumentID, signer.ContactID, signer.Name, signer.Email,
		signer.RoleLabel, signer.SigningOrder, signer.Status, signer.Token,
		signer.SentAt, signer.ViewedAt, signer.SignedAt, signer.DeclinedAt, signer.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateSignerEmail
		}
		return fmt.Errorf("signerRepo.Create: %w", err)
	}
	return nil
}

func (r *signerRepo) GetByID(ctx context.Context, signerID uuid.UUID) (*domain.SignerWorkflow, error) {
	var signer domain.SignerWorkflow
	err := r.db.GetContext(ctx, &signer, "SELECT * FROM signer_workflows WHERE id = $1", signerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("signerRepo.GetByID: %w", err)
	}
	return &signer, nil
}

// GetByTokenHash looks a signer up by the stored hash of their signing
// token. Raw tokens are never persisted.
func (r *signerRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.SignerWorkflow, error) {
	var signer domain.SignerWorkflow
	err := r.db.GetContext(ctx, &signer, "SELECT * FROM signer_workflows WHERE token = $1", tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSignerNotFound
		}
		return nil, fmt.Errorf("signerRepo.GetByTokenHash: %w", err)
	}
	return &signer, nil
}

func (r *signerRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignerWorkflow, error) {
	var signers []domain.SignerWorkflow
	err := r.db.SelectContext(ctx, &signers,
		"SELECT * FROM signer_workflows WHERE document_id = $1 ORDER BY signing_order ASC",
		documentID)
	if err != nil {
		return nil, fmt.Errorf("signerRepo.ListByDocument: %w", err)
	}
	return signers, nil
}

// SetTokenHash stores the hash of a freshly issued signing token,
// replacing any previous one.
func (r *signerRepo) SetTokenHash(ctx context.Context, signerID uuid.UUID, tokenHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE signer_workflows SET token = $1 WHERE id = $2", tokenHash, signerID)
	if err != nil {
		return fmt.Errorf("signerRepo.SetTokenHash: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *signerRepo) UpdateOrder(ctx context.Context, signerID uuid.UUID, order int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE signer_workflows SET signing_order = $1 WHERE id = $2", order, signerID)
	if err != nil {
		return fmt.Errorf("signerRepo.UpdateOrder: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus transitions a signer and stamps the timestamp column that
// corresponds to the new status.
func (r *signerRepo) UpdateStatus(ctx context.Context, signerID uuid.UUID, status domain.SignerStatus, at time.Time) error {
	var column string
	switch status {
	case domain.SignerStatusSent:
		column = "sent_at"
	case domain.SignerStatusViewed:
		column = "viewed_at"
	case domain.SignerStatusSigned:
		column = "signed_at"
	case domain.SignerStatusDeclined:
		column = "declined_at"
	default:
		return fmt.Errorf("signerRepo.UpdateStatus: no timestamp column for status %q", status)
	}

	query := fmt.Sprintf("UPDATE signer_workflows SET status = $1, %s = $2 WHERE id = $3", column)
	result, err := r.db.ExecContext(ctx, query, status, at, signerID)
	if err != nil {
		return fmt.Errorf("signerRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *signerRepo) Delete(ctx context.Context, signerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM signer_workflows WHERE id = $1", signerID)
	if err != nil {
		return fmt.Errorf("signerRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
