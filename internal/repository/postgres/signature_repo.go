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

type signatureRepo struct {
	db *sqlx.DB
}

// NewSignatureRepo creates a new PostgreSQL-backed SignatureRepository.
func NewSignatureRepo(db *sqlx.DB) port.SignatureRepository {
	return &signatureRepo{db: db}
}

func (r *signatureRepo) Create(ctx context.Context, sig *domain.Signature) error {
	sig.ID = uuid.New()
	sig.CreatedAt = time.Now().UTC()

	query := `INSERT INTO signatures (id, field_id, signer_id, payload, method, payload_sha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		sig.ID, sig.FieldID, sig.SignerID, sig.Payload, sig.Method, sig.PayloadSHA, sig.CreatedAt)
	if err != nil {
		return fmt.Errorf("signatureRepo.Create: %w", err)
	}
	return nil
}

func (r *signatureRepo) GetByField(ctx context.Context, fieldID uuid.UUID) (*domain.Signature, error) {
	var sig domain.Signature
	err := r.db.GetContext(ctx, &sig, "SELECT * FROM signatures WHERE field_id = $1", fieldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("signatureRepo.GetByField: %w", err)
	}
	return &sig, nil
}

func (r *signatureRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.Signature, error) {
	var sigs []domain.Signature
	err := r.db.SelectContext(ctx, &sigs,
		`SELECT s.* FROM signatures s
		 JOIN signature_fields f ON f.id = s.field_id
		 WHERE f.document_id = $1
		 ORDER BY s.created_at ASC`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("signatureRepo.ListByDocument: %w", err)
	}
	return sigs, nil
}
