package esign

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURI wraps raw image bytes in a data URI with the given MIME type.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI extracts the MIME type and raw bytes from a data URI.
// Signature payloads are stored in this form so the same string can be
// shipped to a browser <img> and decoded again at embed time.
func DecodeDataURI(uri string) (mime string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URI: missing comma")
	}
	meta, payload := rest[:comma], rest[comma+1:]

	mime = meta
	base64Encoded := false
	if idx := strings.IndexByte(meta, ';'); idx >= 0 {
		mime = meta[:idx]
		base64Encoded = strings.Contains(meta[idx:], "base64")
	}

	if base64Encoded {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decoding data URI payload: %w", err)
		}
		return mime, data, nil
	}
	return mime, []byte(payload), nil
}
