package pdfstamp

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// registerImage decodes the captured signature image and appends it as an
// image XObject, returning its object ID. JPEG data is embedded as-is with
// a DCTDecode filter; everything else is flattened to raw RGB samples with
// an optional grayscale soft mask carrying the alpha channel.
func (c *stampContext) registerImage(data []byte) (uint32, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decoding image: %w", err)
	}

	if format == "jpeg" {
		return c.addImageObject(cfg.Width, cfg.Height, "DCTDecode", data, 0)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decoding image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rgb = append(rgb, byte(r>>8), byte(g>>8), byte(b>>8))
			alpha = append(alpha, byte(a>>8))
			if a>>8 != 0xff {
				opaque = false
			}
		}
	}

	var smaskID uint32
	if !opaque {
		compressed, err := flate(alpha)
		if err != nil {
			return 0, err
		}
		smaskID, err = c.addObject(maskObject(w, h, compressed))
		if err != nil {
			return 0, err
		}
	}

	compressed, err := flate(rgb)
	if err != nil {
		return 0, err
	}
	return c.addImageObject(w, h, "FlateDecode", compressed, smaskID)
}

func (c *stampContext) addImageObject(w, h int, filter string, data []byte, smaskID uint32) (uint32, error) {
	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /XObject\n  /Subtype /Image\n")
	fmt.Fprintf(&obj, "  /Width %d\n  /Height %d\n", w, h)
	obj.WriteString("  /ColorSpace /DeviceRGB\n  /BitsPerComponent 8\n")
	fmt.Fprintf(&obj, "  /Filter /%s\n", filter)
	if smaskID > 0 {
		fmt.Fprintf(&obj, "  /SMask %d 0 R\n", smaskID)
	}
	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", len(data))
	obj.Write(data)
	obj.WriteString("\nendstream")
	return c.addObject(obj.Bytes())
}

func maskObject(w, h int, data []byte) []byte {
	var obj bytes.Buffer
	obj.WriteString("<<\n  /Type /XObject\n  /Subtype /Image\n")
	fmt.Fprintf(&obj, "  /Width %d\n  /Height %d\n", w, h)
	obj.WriteString("  /ColorSpace /DeviceGray\n  /BitsPerComponent 8\n")
	obj.WriteString("  /Filter /FlateDecode\n")
	fmt.Fprintf(&obj, "  /Length %d\n>>\nstream\n", len(data))
	obj.Write(data)
	obj.WriteString("\nendstream")
	return obj.Bytes()
}

func flate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
