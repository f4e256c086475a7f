package csvexport

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"

	"heliosign/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for audit trail exports.
var columns = []string{
	"Time (UTC)",
	"Document ID",
	"Document",
	"Action",
	"Detail",
	"Actor",
	"Signer",
	"IP Address",
}

// Writer wraps csv.Writer for exporting audit trail entries as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEntries converts a batch of audit entries to CSV rows and writes
// them. titles maps document IDs to display titles; entries for unknown
// documents fall back to the raw ID.
func (w *Writer) WriteEntries(entries []domain.AuditLogEntry, titles map[uuid.UUID]string) error {
	for i := range entries {
		row := entryToRow(&entries[i], titles)
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func entryToRow(entry *domain.AuditLogEntry, titles map[uuid.UUID]string) []string {
	row := make([]string, len(columns))

	row[0] = entry.CreatedAt.UTC().Format(time.RFC3339)
	row[1] = entry.DocumentID.String()
	if title, ok := titles[entry.DocumentID]; ok {
		row[2] = title
	} else {
		row[2] = entry.DocumentID.String()
	}
	row[3] = string(entry.Action)
	row[4] = entry.Detail
	if entry.ActorID != nil {
		row[5] = entry.ActorID.String()
	}
	if entry.SignerID != nil {
		row[6] = entry.SignerID.String()
	}
	row[7] = entry.IPAddress

	return row
}
