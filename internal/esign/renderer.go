package esign

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"heliosign/internal/domain"
)

// Typed-signature canvas dimensions in logical pixels. Fixed so that the
// same (name, font) pair always rasterizes to byte-identical output.
const (
	typedCanvasWidth  = 400
	typedCanvasHeight = 100
	typedFontSize     = 44
)

// MaxUploadBytes is the size cap for uploaded signature images.
const MaxUploadBytes = 5 * 1024 * 1024

// FontStyle is one entry of the typed-signature font catalog.
type FontStyle struct {
	Name string
	TTF  []byte
}

// DefaultFontCatalog lists the display fonts offered on the "type" tab.
// The catalog is read-only configuration handed to NewRenderer, never
// consulted as ambient state, so rendering stays a function of its inputs.
func DefaultFontCatalog() []FontStyle {
	return []FontStyle{
		{Name: "classic", TTF: goitalic.TTF},
		{Name: "bold", TTF: gobolditalic.TTF},
		{Name: "plain", TTF: goregular.TTF},
		{Name: "typewriter", TTF: gomonoitalic.TTF},
	}
}

// Rendered is a capture turned into an embeddable payload.
type Rendered struct {
	Payload string // data URI (drawn/typed/uploaded)
	Method  domain.CaptureMethod
}

// Renderer turns captured signatures into data-URI raster payloads.
type Renderer struct {
	faces map[string]font.Face
}

// NewRenderer parses the catalog's fonts into reusable faces.
func NewRenderer(catalog []FontStyle) (*Renderer, error) {
	faces := make(map[string]font.Face, len(catalog))
	for _, style := range catalog {
		f, err := opentype.Parse(style.TTF)
		if err != nil {
			return nil, fmt.Errorf("parsing font %q: %w", style.Name, err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    typedFontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("building face for %q: %w", style.Name, err)
		}
		faces[style.Name] = face
	}
	return &Renderer{faces: faces}, nil
}

// FontNames returns the catalog names the renderer accepts, in no
// particular order.
func (r *Renderer) FontNames() []string {
	names := make([]string, 0, len(r.faces))
	for name := range r.faces {
		names = append(names, name)
	}
	return names
}

// RenderDrawn accepts a freehand capture already rasterized by the client.
// The payload passes through unchanged after a non-empty check.
func (r *Renderer) RenderDrawn(payload string) (*Rendered, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, domain.ErrEmptySignature
	}
	if _, _, err := DecodeDataURI(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmptySignature, err)
	}
	return &Rendered{Payload: payload, Method: domain.CaptureMethodDrawn}, nil
}

// RenderTyped rasterizes a name in the selected catalog font: black text,
// white background, centered on a 400x100 canvas. Output is deterministic
// for the same (name, fontName) pair.
func (r *Renderer) RenderTyped(name, fontName string) (*Rendered, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrEmptySignature
	}
	face, ok := r.faces[fontName]
	if !ok {
		return nil, fmt.Errorf("unknown signature font %q", fontName)
	}

	img := image.NewRGBA(image.Rect(0, 0, typedCanvasWidth, typedCanvasHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	width := d.MeasureString(name)
	metrics := face.Metrics()
	x := (fixed.I(typedCanvasWidth) - width) / 2
	if x < 0 {
		x = 0
	}
	// Center the em box vertically; baseline sits ascent below the top.
	y := (fixed.I(typedCanvasHeight)-metrics.Height)/2 + metrics.Ascent
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(name)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding typed signature: %w", err)
	}
	return &Rendered{
		Payload: EncodeDataURI("image/png", buf.Bytes()),
		Method:  domain.CaptureMethodTyped,
	}, nil
}

// RenderUploaded validates a user-supplied image and wraps it unscaled;
// the embedder scales at stamp time. Type is checked by magic bytes, not
// the declared content type.
func (r *Renderer) RenderUploaded(data []byte) (*Rendered, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptySignature
	}
	if len(data) > MaxUploadBytes {
		return nil, domain.ErrImageTooLarge
	}

	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(data[:sniffLen])
	if !strings.HasPrefix(detected, "image/") {
		return nil, domain.ErrInvalidImageType
	}

	return &Rendered{
		Payload: EncodeDataURI(detected, data),
		Method:  domain.CaptureMethodUploaded,
	}, nil
}
