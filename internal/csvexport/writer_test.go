package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliosign/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, columns, records[0])
}

func TestWriteEntries(t *testing.T) {
	docID := uuid.New()
	signerID := uuid.New()
	actorID := uuid.New()

	entries := []domain.AuditLogEntry{
		{
			ID:         uuid.New(),
			DocumentID: docID,
			Action:     domain.AuditActionSent,
			Detail:     "2 signers",
			ActorID:    &actorID,
			CreatedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         uuid.New(),
			DocumentID: docID,
			Action:     domain.AuditActionFieldSigned,
			Detail:     "SIGNATURE field",
			SignerID:   &signerID,
			IPAddress:  "203.0.113.7",
			CreatedAt:  time.Date(2026, 8, 1, 11, 30, 0, 0, time.UTC),
		},
	}
	titles := map[uuid.UUID]string{docID: "Install Agreement"}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteEntries(entries, titles))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2026-08-01T10:00:00Z", records[1][0])
	assert.Equal(t, "Install Agreement", records[1][2])
	assert.Equal(t, string(domain.AuditActionSent), records[1][3])
	assert.Equal(t, actorID.String(), records[1][5])
	assert.Equal(t, "", records[1][6])

	assert.Equal(t, signerID.String(), records[2][6])
	assert.Equal(t, "203.0.113.7", records[2][7])
}

func TestWriteEntriesUnknownDocumentFallsBackToID(t *testing.T) {
	docID := uuid.New()
	entries := []domain.AuditLogEntry{
		{ID: uuid.New(), DocumentID: docID, Action: domain.AuditActionViewed, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteEntries(entries, nil))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, docID.String(), records[0][2])
}
