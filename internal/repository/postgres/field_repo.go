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

type fieldRepo struct {
	db *sqlx.DB
}

// NewFieldRepo creates a new PostgreSQL-backed FieldRepository.
func NewFieldRepo(db *sqlx.DB) port.FieldRepository {
	return &fieldRepo{db: db}
}

func (r *fieldRepo) Create(ctx context.Context, field *domain.SignatureField) error {
	field.ID = uuid.New()
	field.CreatedAt = time.Now().UTC()

	query := `INSERT INTO signature_fields (id, document_id, field_type, page, x, y, width, height,
		required, label, signer_id, value, signed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		field.ID, field.DocumentID, field.Type, field.Page, field.X, field.Y,
		field.Width, field.Height, field.Required, field.Label, field.SignerID,
		field.Value, field.SignedAt, field.CreatedAt)
	if err != nil {
		return fmt.Errorf("fieldRepo.Create: %w", err)
	}
	return nil
}

func (r *fieldRepo) GetByID(ctx context.Context, fieldID uuid.UUID) (*domain.SignatureField, error) {
	var field domain.SignatureField
	err := r.db.GetContext(ctx, &field, "SELECT * FROM signature_fields WHERE id = $1", fieldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fieldRepo.GetByID: %w", err)
	}
	return &field, nil
}

func (r *fieldRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]domain.SignatureField, error) {
	var fields []domain.SignatureField
	err := r.db.SelectContext(ctx, &fields,
		"SELECT * FROM signature_fields WHERE document_id = $1 ORDER BY page ASC, y ASC, x ASC",
		documentID)
	if err != nil {
		return nil, fmt.Errorf("fieldRepo.ListByDocument: %w", err)
	}
	return fields, nil
}

func (r *fieldRepo) Update(ctx context.Context, field *domain.SignatureField) error {
	query := `UPDATE signature_fields SET field_type = $1, page = $2, x = $3, y = $4,
		width = $5, height = $6, required = $7, label = $8, signer_id = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(ctx, query,
		field.Type, field.Page, field.X, field.Y, field.Width, field.Height,
		field.Required, field.Label, field.SignerID, field.ID)
	if err != nil {
		return fmt.Errorf("fieldRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetValue captures a value for an unfilled field. The WHERE clause guards
// against double-signing at the data layer.
func (r *fieldRepo) SetValue(ctx context.Context, fieldID uuid.UUID, value string, signedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE signature_fields SET value = $1, signed_at = $2 WHERE id = $3 AND value = ''",
		value, signedAt, fieldID)
	if err != nil {
		return fmt.Errorf("fieldRepo.SetValue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrFieldAlreadySigned
	}
	return nil
}

func (r *fieldRepo) Delete(ctx context.Context, fieldID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM signature_fields WHERE id = $1", fieldID)
	if err != nil {
		return fmt.Errorf("fieldRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
