package pdfstamp

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/digitorus/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"heliosign/internal/domain"
	"heliosign/internal/esign"
)

const (
	maxFieldFontSize = 12.0
	textInsetX       = 2.0
)

// addFieldAppearance builds the appearance Form XObject for one field and
// returns its object ID. The appearance is drawn in a local coordinate
// space sized to the field rectangle.
func (c *stampContext) addFieldAppearance(f *domain.SignatureField, rect esign.Rect) (uint32, error) {
	switch f.Type {
	case domain.FieldTypeSignature, domain.FieldTypeInitials:
		return c.addImageAppearance(f, rect)
	case domain.FieldTypeText, domain.FieldTypeDate:
		return c.addTextAppearance(f.Value, rect, false)
	case domain.FieldTypeCheckbox:
		return c.addCheckboxAppearance(f, rect)
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidFieldType, f.Type)
	}
}

// addImageAppearance stamps the captured signature image scaled to the
// field rectangle. A payload that no longer decodes falls back to a bold
// placeholder label rather than failing the whole embed.
func (c *stampContext) addImageAppearance(f *domain.SignatureField, rect esign.Rect) (uint32, error) {
	_, data, err := esign.DecodeDataURI(f.Value)
	if err != nil {
		return c.addTextAppearance(PlaceholderLabel, rect, true)
	}
	imgID, err := c.registerImage(data)
	if err != nil {
		return c.addTextAppearance(PlaceholderLabel, rect, true)
	}

	var ops bytes.Buffer
	fmt.Fprintf(&ops, "q\n%f 0 0 %f 0 0 cm\n/Im1 Do\nQ\n", rect.Width, rect.Height)

	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /XObject\n  /Subtype /Form\n")
	fmt.Fprintf(&obj, "  /BBox [0 0 %f %f]\n", rect.Width, rect.Height)
	obj.WriteString("  /Matrix [1 0 0 1 0 0]\n")
	fmt.Fprintf(&obj, "  /Resources << /XObject << /Im1 %d 0 R >> >>\n", imgID)
	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", ops.Len())
	obj.Write(ops.Bytes())
	obj.WriteString("endstream")

	return c.addObject(obj.Bytes())
}

// addTextAppearance draws value as a single line of black text, clipped to
// the field rectangle and vertically centered. Font size follows the field
// height, capped so larger fields keep a document-like size.
func (c *stampContext) addTextAppearance(value string, rect esign.Rect, bold bool) (uint32, error) {
	fontSize := rect.Height * 0.6
	if fontSize > maxFieldFontSize {
		fontSize = maxFieldFontSize
	}
	baseFont := "Helvetica"
	if bold {
		baseFont = "Helvetica-Bold"
	}
	fontID, err := c.addObject([]byte(fmt.Sprintf(
		"<<\n  /Type /Font\n  /Subtype /Type1\n  /BaseFont /%s\n  /Encoding /WinAnsiEncoding\n>>", baseFont)))
	if err != nil {
		return 0, err
	}

	// Baseline sits roughly a fifth of the em below vertical center.
	textY := (rect.Height-fontSize)/2 + fontSize*0.2

	var ops bytes.Buffer
	fmt.Fprintf(&ops, "q\n0 0 %f %f re W n\n", rect.Width, rect.Height)
	ops.WriteString("BT\n")
	fmt.Fprintf(&ops, "/F1 %f Tf\n0 0 0 rg\n", fontSize)
	fmt.Fprintf(&ops, "%f %f Td\n", textInsetX, textY)
	fmt.Fprintf(&ops, "<%s> Tj\n", hex.EncodeToString(winAnsiBytes(value)))
	ops.WriteString("ET\nQ\n")

	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /XObject\n  /Subtype /Form\n")
	fmt.Fprintf(&obj, "  /BBox [0 0 %f %f]\n", rect.Width, rect.Height)
	obj.WriteString("  /Matrix [1 0 0 1 0 0]\n")
	fmt.Fprintf(&obj, "  /Resources << /Font << /F1 %d 0 R >> >>\n", fontID)
	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", ops.Len())
	obj.Write(ops.Bytes())
	obj.WriteString("endstream")

	return c.addObject(obj.Bytes())
}

// winAnsiBytes transcodes value to Windows-1252, the byte set
// /WinAnsiEncoding text actually renders. Runes outside the code page
// degrade to the substitution byte instead of mojibake.
func winAnsiBytes(value string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.Bytes([]byte(value))
	if err != nil {
		return []byte(value)
	}
	return out
}

// addCheckboxAppearance draws a bordered square centered in the field,
// with a checkmark stroke when the stored value marks the box checked.
func (c *stampContext) addCheckboxAppearance(f *domain.SignatureField, rect esign.Rect) (uint32, error) {
	side := rect.Width
	if rect.Height < side {
		side = rect.Height
	}
	side *= 0.8
	sx := (rect.Width - side) / 2
	sy := (rect.Height - side) / 2

	var ops bytes.Buffer
	ops.WriteString("q\n0 0 0 RG\n1 w\n")
	fmt.Fprintf(&ops, "%f %f %f %f re S\n", sx, sy, side, side)
	if f.Value == domain.CheckboxChecked {
		inset := side * 0.1
		fmt.Fprintf(&ops, "%f w\n", side*0.12)
		fmt.Fprintf(&ops, "%f %f m\n", sx+inset, sy+side*0.5)
		fmt.Fprintf(&ops, "%f %f l\n", sx+side*0.4, sy+inset)
		fmt.Fprintf(&ops, "%f %f l\nS\n", sx+side-inset, sy+side-inset)
	}
	ops.WriteString("Q\n")

	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /XObject\n  /Subtype /Form\n")
	fmt.Fprintf(&obj, "  /BBox [0 0 %f %f]\n", rect.Width, rect.Height)
	obj.WriteString("  /Matrix [1 0 0 1 0 0]\n")
	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", ops.Len())
	obj.Write(ops.Bytes())
	obj.WriteString("endstream")

	return c.addObject(obj.Bytes())
}

// addFieldAnnotation places a non-interactive widget annotation over the
// field rectangle whose normal appearance is the field's Form XObject.
func (c *stampContext) addFieldAnnotation(f *domain.SignatureField, rect esign.Rect, apID uint32, pagePtr pdf.Ptr) (uint32, error) {
	urX, urY := rect.UpperRight()

	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /Annot\n  /Subtype /Widget\n")
	fmt.Fprintf(&obj, "  /Rect [%f %f %f %f]\n", rect.X, rect.Y, urX, urY)
	obj.WriteString("  /F 4\n")
	fmt.Fprintf(&obj, "  /NM %s\n", pdfString(f.ID.String()))
	fmt.Fprintf(&obj, "  /AP << /N %d 0 R >>\n", apID)
	fmt.Fprintf(&obj, "  /P %d %d R\n>>", pagePtr.GetID(), pagePtr.GetGen())

	return c.addObject(obj.Bytes())
}

// updatePageAnnots rewrites the page dictionary, preserving every entry
// and appending the new annotation references to /Annots.
func (c *stampContext) updatePageAnnots(page pdf.Value, annotIDs []uint32) error {
	var dict bytes.Buffer
	dict.WriteString("<<\n  /Type /Page\n")
	for _, key := range page.Keys() {
		if key == "Type" || key == "Annots" {
			continue
		}
		val, err := serializeValue(page.Key(key))
		if err != nil {
			return fmt.Errorf("page key /%s: %w", key, err)
		}
		fmt.Fprintf(&dict, "  /%s %s\n", key, val)
	}

	dict.WriteString("  /Annots [")
	existing := page.Key("Annots")
	if existing.Kind() == pdf.Array {
		for i := 0; i < existing.Len(); i++ {
			val, err := serializeValue(existing.Index(i))
			if err != nil {
				return fmt.Errorf("page annotation %d: %w", i, err)
			}
			dict.WriteString(val + " ")
		}
	}
	for _, id := range annotIDs {
		fmt.Fprintf(&dict, "%d 0 R ", id)
	}
	dict.WriteString("]\n>>")

	return c.updateObject(page.GetPtr().GetID(), dict.Bytes())
}
