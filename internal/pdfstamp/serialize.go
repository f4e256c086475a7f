package pdfstamp

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/digitorus/pdf"
	"golang.org/x/text/encoding/unicode"
)

// serializeValue renders a parsed PDF value back to its file syntax.
// Indirect objects are written as references so shared structures (parent
// nodes, resource dictionaries) keep pointing at their original objects.
func serializeValue(v pdf.Value) (string, error) {
	if ptr := v.GetPtr(); ptr.GetID() > 0 {
		return fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen()), nil
	}

	switch v.Kind() {
	case pdf.Null:
		return "null", nil
	case pdf.Bool:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case pdf.Integer:
		return fmt.Sprintf("%d", v.Int64()), nil
	case pdf.Real:
		return fmt.Sprintf("%f", v.Float64()), nil
	case pdf.String:
		return pdfString(v.RawString()), nil
	case pdf.Name:
		return "/" + v.Name(), nil
	case pdf.Array:
		var buf bytes.Buffer
		buf.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			item, err := serializeValue(v.Index(i))
			if err != nil {
				return "", err
			}
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(item)
		}
		buf.WriteString("]")
		return buf.String(), nil
	case pdf.Dict:
		var buf bytes.Buffer
		buf.WriteString("<< ")
		for _, key := range v.Keys() {
			item, err := serializeValue(v.Key(key))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "/%s %s ", key, item)
		}
		buf.WriteString(">>")
		return buf.String(), nil
	default:
		return "", fmt.Errorf("cannot serialize direct value of kind %d", v.Kind())
	}
}

// pdfString encodes s as a PDF string literal: a plain escaped string for
// ASCII content, a UTF-16BE hex string with BOM otherwise.
func pdfString(s string) string {
	ascii := true
	for _, r := range s {
		if r < 32 || r > 126 {
			ascii = false
			break
		}
	}
	if ascii {
		r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
		return "(" + r.Replace(s) + ")"
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	encoded, err := enc.String(s)
	if err != nil {
		// Unreachable for valid UTF-8 input; keep the document well formed.
		return "()"
	}
	return "<" + strings.ToUpper(hex.EncodeToString([]byte(encoded))) + ">"
}
