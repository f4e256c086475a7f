// Package pdfstamp produces the finalized signed document: it stamps
// completed field values into a copy of the original PDF bytes as an
// incremental update, leaving the original byte stream untouched at the
// head of the file. Field geometry arrives as page percentages and is
// mapped into PDF user space by the esign package.
package pdfstamp

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"

	"heliosign/internal/domain"
	"heliosign/internal/esign"
)

// PlaceholderLabel is drawn in place of a signature image whose stored
// payload no longer decodes. One corrupt signature must not block the
// rest of the document.
const PlaceholderLabel = "[SIGNATURE]"

type xrefEntry struct {
	ID     uint32
	Offset int64
}

// stampContext accumulates the incremental update: appended objects,
// rewritten page objects and the bookkeeping needed for the new xref
// section. It mirrors the shape of a PDF signing context but only ever
// appends content; the original bytes are copied verbatim.
type stampContext struct {
	rdr   *pdf.Reader
	input []byte
	out   *filebuffer.Buffer

	nextID         uint32
	newEntries     []xrefEntry
	updatedEntries []xrefEntry
}

// Embed stamps every completed field onto its page and returns the new
// document bytes. Fields with no captured value are skipped; when none
// are completed the input is returned unchanged. The input bytes must
// parse as a PDF or ErrUnsupportedDocumentFormat is returned.
func Embed(input []byte, fields []domain.SignatureField) (out []byte, err error) {
	// The underlying parser panics on some malformed files; fold those
	// into the unsupported-format error instead of crashing the caller.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", domain.ErrUnsupportedDocumentFormat, r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedDocumentFormat, err)
	}

	byPage := groupCompletedByPage(fields)
	if len(byPage) == 0 {
		return input, nil
	}

	ctx := &stampContext{
		rdr:    rdr,
		input:  input,
		nextID: uint32(rdr.XrefInformation.ItemCount),
		out:    filebuffer.New(nil),
	}
	if _, err := io.Copy(ctx.out, bytes.NewReader(input)); err != nil {
		return nil, fmt.Errorf("copying source document: %w", err)
	}
	// The update needs a line break after the previous %%EOF.
	if _, err := ctx.out.Write([]byte("\n")); err != nil {
		return nil, err
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	for _, pageNum := range pages {
		if pageNum < 1 || pageNum > rdr.NumPage() {
			return nil, fmt.Errorf("field page %d out of range (document has %d pages)", pageNum, rdr.NumPage())
		}
		if err := ctx.stampPage(pageNum, byPage[pageNum]); err != nil {
			return nil, err
		}
	}

	xrefStart := ctx.offset()
	switch rdr.XrefInformation.Type {
	case "table":
		if err := ctx.writeXrefTable(); err != nil {
			return nil, err
		}
		if err := ctx.writeTrailer(xrefStart); err != nil {
			return nil, err
		}
	case "stream":
		if err := ctx.writeXrefStream(xrefStart); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown xref type %q", domain.ErrUnsupportedDocumentFormat, rdr.XrefInformation.Type)
	}

	return ctx.out.Buff.Bytes(), nil
}

// groupCompletedByPage keeps only fields holding a captured value,
// bucketed by 1-based page number.
func groupCompletedByPage(fields []domain.SignatureField) map[int][]domain.SignatureField {
	byPage := make(map[int][]domain.SignatureField)
	for _, f := range fields {
		if !f.Filled() {
			continue
		}
		byPage[f.Page] = append(byPage[f.Page], f)
	}
	return byPage
}

// stampPage appends one annotation per field plus the rewritten page
// object carrying the extended /Annots array.
func (c *stampContext) stampPage(pageNum int, fields []domain.SignatureField) error {
	page := c.rdr.Page(pageNum).V
	pagePtr := page.GetPtr()
	if pagePtr.GetID() == 0 {
		return fmt.Errorf("%w: page %d is not an indirect object", domain.ErrUnsupportedDocumentFormat, pageNum)
	}

	size, err := pageSize(page)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNum, err)
	}

	var annotIDs []uint32
	for _, f := range fields {
		if !esign.ValidGeometry(&f) {
			return fmt.Errorf("%w: field %s", domain.ErrInvalidFieldGeometry, f.ID)
		}
		rect := esign.MapToPage(&f, size)

		apID, err := c.addFieldAppearance(&f, rect)
		if err != nil {
			return fmt.Errorf("field %s appearance: %w", f.ID, err)
		}
		annotID, err := c.addFieldAnnotation(&f, rect, apID, pagePtr)
		if err != nil {
			return fmt.Errorf("field %s annotation: %w", f.ID, err)
		}
		annotIDs = append(annotIDs, annotID)
	}

	return c.updatePageAnnots(page, annotIDs)
}

// pageSize resolves the page's MediaBox, walking the Parent chain for
// inherited values.
func pageSize(page pdf.Value) (esign.PageSize, error) {
	node := page
	for depth := 0; depth < 32; depth++ {
		mb := node.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() >= 4 {
			return esign.PageSize{
				Width:  mb.Index(2).Float64() - mb.Index(0).Float64(),
				Height: mb.Index(3).Float64() - mb.Index(1).Float64(),
			}, nil
		}
		parent := node.Key("Parent")
		if parent.Kind() != pdf.Dict {
			break
		}
		node = parent
	}
	return esign.PageSize{}, fmt.Errorf("no MediaBox found")
}

// offset is the byte position the next write lands at.
func (c *stampContext) offset() int64 {
	return int64(c.out.Buff.Len())
}

// addObject appends body as the next free indirect object and records its
// xref entry.
func (c *stampContext) addObject(body []byte) (uint32, error) {
	id := c.nextID
	c.nextID++
	offset := c.offset()
	if _, err := fmt.Fprintf(c.out, "%d 0 obj\n", id); err != nil {
		return 0, err
	}
	if _, err := c.out.Write(body); err != nil {
		return 0, err
	}
	if _, err := c.out.Write([]byte("\nendobj\n")); err != nil {
		return 0, err
	}
	c.newEntries = append(c.newEntries, xrefEntry{ID: id, Offset: offset})
	return id, nil
}

// updateObject appends a replacement body for an existing object.
func (c *stampContext) updateObject(id uint32, body []byte) error {
	offset := c.offset()
	if _, err := fmt.Fprintf(c.out, "%d 0 obj\n", id); err != nil {
		return err
	}
	if _, err := c.out.Write(body); err != nil {
		return err
	}
	if _, err := c.out.Write([]byte("\nendobj\n")); err != nil {
		return err
	}
	c.updatedEntries = append(c.updatedEntries, xrefEntry{ID: id, Offset: offset})
	return nil
}

// writeXrefTable writes the incremental cross-reference table: one
// single-entry subsection per rewritten page, then one contiguous run for
// the appended objects.
func (c *stampContext) writeXrefTable() error {
	if _, err := c.out.Write([]byte("xref\n")); err != nil {
		return err
	}
	for _, entry := range c.updatedEntries {
		if _, err := fmt.Fprintf(c.out, "%d 1\n%010d 00000 n\r\n", entry.ID, entry.Offset); err != nil {
			return err
		}
	}
	if len(c.newEntries) > 0 {
		if _, err := fmt.Fprintf(c.out, "%d %d\n", c.newEntries[0].ID, len(c.newEntries)); err != nil {
			return err
		}
		for _, entry := range c.newEntries {
			if _, err := fmt.Fprintf(c.out, "%010d 00000 n\r\n", entry.Offset); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeTrailer writes a fresh trailer dictionary pointing back at the
// previous xref section, followed by startxref and the EOF marker.
func (c *stampContext) writeTrailer(xrefStart int64) error {
	var buf bytes.Buffer
	buf.WriteString("trailer\n<<\n")
	fmt.Fprintf(&buf, "  /Size %d\n", int64(c.rdr.XrefInformation.ItemCount)+int64(len(c.newEntries)))
	fmt.Fprintf(&buf, "  /Prev %d\n", c.rdr.XrefInformation.StartPos)

	root := c.rdr.Trailer().Key("Root")
	rootPtr := root.GetPtr()
	fmt.Fprintf(&buf, "  /Root %d %d R\n", rootPtr.GetID(), rootPtr.GetGen())

	info := c.rdr.Trailer().Key("Info")
	if infoPtr := info.GetPtr(); infoPtr.GetID() > 0 {
		fmt.Fprintf(&buf, "  /Info %d %d R\n", infoPtr.GetID(), infoPtr.GetGen())
	}
	buf.WriteString(">>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	_, err := c.out.Write(buf.Bytes())
	return err
}

// writeXrefStream writes the incremental update's cross-reference
// information as an xref stream object, required when the original file
// uses cross-reference streams. Entries are uncompressed, W [1 4 2].
func (c *stampContext) writeXrefStream(xrefStart int64) error {
	// The stream object indexes itself, so reserve its ID and entry first.
	streamID := c.nextID
	c.nextID++
	entries := append([]xrefEntry{}, c.updatedEntries...)
	newRun := append([]xrefEntry{}, c.newEntries...)
	newRun = append(newRun, xrefEntry{ID: streamID, Offset: xrefStart})

	var data bytes.Buffer
	writeEntry := func(e xrefEntry) {
		data.WriteByte(1) // type 1: in-use, uncompressed
		data.WriteByte(byte(e.Offset >> 24))
		data.WriteByte(byte(e.Offset >> 16))
		data.WriteByte(byte(e.Offset >> 8))
		data.WriteByte(byte(e.Offset))
		data.WriteByte(0)
		data.WriteByte(0)
	}

	var index bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&index, "%d 1 ", e.ID)
		writeEntry(e)
	}
	fmt.Fprintf(&index, "%d %d", newRun[0].ID, len(newRun))
	for _, e := range newRun {
		writeEntry(e)
	}

	var obj bytes.Buffer
	fmt.Fprintf(&obj, "%d 0 obj\n<<\n  /Type /XRef\n", streamID)
	fmt.Fprintf(&obj, "  /Size %d\n", int64(streamID)+1)
	fmt.Fprintf(&obj, "  /Index [%s]\n", index.String())
	obj.WriteString("  /W [1 4 2]\n")
	fmt.Fprintf(&obj, "  /Prev %d\n", c.rdr.XrefInformation.StartPos)

	root := c.rdr.Trailer().Key("Root")
	rootPtr := root.GetPtr()
	fmt.Fprintf(&obj, "  /Root %d %d R\n", rootPtr.GetID(), rootPtr.GetGen())
	info := c.rdr.Trailer().Key("Info")
	if infoPtr := info.GetPtr(); infoPtr.GetID() > 0 {
		fmt.Fprintf(&obj, "  /Info %d %d R\n", infoPtr.GetID(), infoPtr.GetGen())
	}

	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", data.Len())
	obj.Write(data.Bytes())
	obj.WriteString("\nendstream\nendobj\n")

	if _, err := c.out.Write(obj.Bytes()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.out, "startxref\n%d\n%%%%EOF\n", xrefStart)
	return err
}
