package pdfstamp

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/digitorus/pdf"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliosign/internal/domain"
)

// fixturePDF builds a minimal one-page US Letter document with a
// cross-reference table, computing offsets as it goes so the file is
// always internally consistent.
func fixturePDF(t *testing.T) []byte {
	t.Helper()
	return fixturePDFWithPage(t,
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
}

func fixturePDFWithPage(t *testing.T, pageBody string) []byte {
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
	addObj(3, pageBody)

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)

	// Sanity: the fixture itself must parse.
	_, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return buf.Bytes()
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func field(ft domain.FieldType, value string) domain.SignatureField {
	return domain.SignatureField{
		ID:     uuid.New(),
		Type:   ft,
		Page:   1,
		X:      10,
		Y:      10,
		Width:  20,
		Height: 8,
		Value:  value,
	}
}

func TestEmbedNoCompletedFieldsIsByteIdentical(t *testing.T) {
	input := fixturePDF(t)
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeSignature, ""),
		field(domain.FieldTypeText, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestEmbedRejectsNonPDF(t *testing.T) {
	_, err := Embed([]byte("definitely not a document"), []domain.SignatureField{
		field(domain.FieldTypeText, "hello"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocumentFormat)
}

func TestEmbedStampsSignatureField(t *testing.T) {
	input := fixturePDF(t)
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeSignature, pngDataURI(t)),
	})
	require.NoError(t, err)

	// Incremental update: the original bytes survive as a prefix.
	require.True(t, len(out) > len(input))
	assert.Equal(t, input, out[:len(input)])
	assert.Contains(t, string(out), "/Subtype /Widget")
	assert.Contains(t, string(out), "/Im1 Do")

	rdr, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	require.Equal(t, 1, rdr.NumPage())
	annots := rdr.Page(1).V.Key("Annots")
	require.Equal(t, pdf.Array, annots.Kind())
	assert.Equal(t, 1, annots.Len())
	ap := annots.Index(0).Key("AP").Key("N")
	assert.Equal(t, pdf.Stream, ap.Kind())
}

func TestEmbedCorruptImageFallsBackToPlaceholder(t *testing.T) {
	input := fixturePDF(t)
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeSignature, "data:image/png;base64,%%%%not-base64%%%%"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), hex.EncodeToString([]byte(PlaceholderLabel)))
}

func TestEmbedUndecodableImageBytesFallBackToPlaceholder(t *testing.T) {
	input := fixturePDF(t)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("junk"))
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeSignature, payload),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), hex.EncodeToString([]byte(PlaceholderLabel)))
}

func TestEmbedStampsTextAndDate(t *testing.T) {
	input := fixturePDF(t)
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeText, "Jane Homeowner"),
		field(domain.FieldTypeDate, "2026-08-29"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), hex.EncodeToString([]byte("Jane Homeowner")))
	assert.Contains(t, string(out), hex.EncodeToString([]byte("2026-08-29")))

	rdr, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Equal(t, 2, rdr.Page(1).V.Key("Annots").Len())
}

func TestEmbedTranscodesTextToWinAnsi(t *testing.T) {
	input := fixturePDF(t)
	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeText, "Café Señor"),
	})
	require.NoError(t, err)

	// Accents land as their Windows-1252 bytes, not raw UTF-8.
	assert.Contains(t, string(out), hex.EncodeToString(winAnsiBytes("Café Señor")))
	assert.NotContains(t, string(out), hex.EncodeToString([]byte("Café Señor")))
}

func TestWinAnsiBytes(t *testing.T) {
	assert.Equal(t, []byte("plain text"), winAnsiBytes("plain text"))
	assert.Equal(t, []byte{0x43, 0x61, 0x66, 0xE9}, winAnsiBytes("Café"))
	// Runes outside the code page degrade to the substitution byte.
	assert.Equal(t, []byte{0x1A}, winAnsiBytes("日"))
}

func TestEmbedPreservesDirectPageAnnotations(t *testing.T) {
	input := fixturePDFWithPage(t,
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> "+
			"/Annots [<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] >>] >>")

	out, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeText, "hello"),
	})
	require.NoError(t, err)

	rdr, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	annots := rdr.Page(1).V.Key("Annots")
	require.Equal(t, 2, annots.Len())
	assert.Equal(t, "Link", annots.Index(0).Key("Subtype").Name())
	assert.Equal(t, "Widget", annots.Index(1).Key("Subtype").Name())
}

func TestEmbedStampsCheckbox(t *testing.T) {
	input := fixturePDF(t)

	checked, err := Embed(input, []domain.SignatureField{
		field(domain.FieldTypeCheckbox, domain.CheckboxChecked),
	})
	require.NoError(t, err)
	assert.Contains(t, string(checked), "re S")
	// The checkmark path strokes two line segments.
	assert.Contains(t, string(checked), " l\n")
}

func TestEmbedRejectsFieldOffPage(t *testing.T) {
	input := fixturePDF(t)
	f := field(domain.FieldTypeText, "hello")
	f.Page = 9
	_, err := Embed(input, []domain.SignatureField{f})
	assert.Error(t, err)
}

func TestEmbedRejectsInvalidGeometry(t *testing.T) {
	input := fixturePDF(t)
	f := field(domain.FieldTypeText, "hello")
	f.Width = 0
	_, err := Embed(input, []domain.SignatureField{f})
	assert.ErrorIs(t, err, domain.ErrInvalidFieldGeometry)
}

func TestEmbedIsRepeatable(t *testing.T) {
	input := fixturePDF(t)
	fields := []domain.SignatureField{field(domain.FieldTypeDate, "2026-08-29")}

	first, err := Embed(input, fields)
	require.NoError(t, err)

	// A second incremental update on top of the first must still parse.
	second, err := Embed(first, []domain.SignatureField{field(domain.FieldTypeText, "addendum")})
	require.NoError(t, err)
	rdr, err := pdf.NewReader(bytes.NewReader(second), int64(len(second)))
	require.NoError(t, err)
	assert.Equal(t, 2, rdr.Page(1).V.Key("Annots").Len())
}
