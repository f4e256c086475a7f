package esign

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliosign/internal/domain"
)

func pngImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	return img
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(DefaultFontCatalog())
	require.NoError(t, err)
	return r
}

// tinyPNG returns a valid 1x1 PNG.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := pngImage()
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderDrawn_PassThrough(t *testing.T) {
	r := newTestRenderer(t)
	payload := EncodeDataURI("image/png", tinyPNG(t))

	out, err := r.RenderDrawn(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out.Payload)
	assert.Equal(t, domain.CaptureMethodDrawn, out.Method)
}

func TestRenderDrawn_EmptyRejected(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.RenderDrawn("")
	assert.ErrorIs(t, err, domain.ErrEmptySignature)

	_, err = r.RenderDrawn("   ")
	assert.ErrorIs(t, err, domain.ErrEmptySignature)
}

func TestRenderTyped_Deterministic(t *testing.T) {
	r := newTestRenderer(t)

	first, err := r.RenderTyped("Jane Solar", "classic")
	require.NoError(t, err)
	second, err := r.RenderTyped("Jane Solar", "classic")
	require.NoError(t, err)

	assert.Equal(t, first.Payload, second.Payload, "same (name, font) must produce identical bytes")
	assert.Equal(t, domain.CaptureMethodTyped, first.Method)
}

func TestRenderTyped_DifferentFontsDiffer(t *testing.T) {
	r := newTestRenderer(t)

	classic, err := r.RenderTyped("Jane Solar", "classic")
	require.NoError(t, err)
	plain, err := r.RenderTyped("Jane Solar", "plain")
	require.NoError(t, err)

	assert.NotEqual(t, classic.Payload, plain.Payload)
}

func TestRenderTyped_CanvasSize(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.RenderTyped("Jane Solar", "bold")
	require.NoError(t, err)

	mime, data, err := DecodeDataURI(out.Payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, typedCanvasWidth, img.Bounds().Dx())
	assert.Equal(t, typedCanvasHeight, img.Bounds().Dy())
}

func TestRenderTyped_UnknownFont(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.RenderTyped("Jane Solar", "comic-sans")
	assert.Error(t, err)
}

func TestRenderUploaded_ValidImage(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.RenderUploaded(tinyPNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Payload, "data:image/png;base64,"))
	assert.Equal(t, domain.CaptureMethodUploaded, out.Method)
}

func TestRenderUploaded_RejectsNonImage(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.RenderUploaded([]byte("%PDF-1.4 definitely not an image"))
	assert.ErrorIs(t, err, domain.ErrInvalidImageType)
}

func TestRenderUploaded_RejectsOversized(t *testing.T) {
	r := newTestRenderer(t)
	big := make([]byte, MaxUploadBytes+1)
	_, err := r.RenderUploaded(big)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)
}

func TestDecodeDataURI_RoundTrip(t *testing.T) {
	data := tinyPNG(t)
	uri := EncodeDataURI("image/png", data)

	mime, decoded, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, data, decoded)
}

func TestDecodeDataURI_Malformed(t *testing.T) {
	_, _, err := DecodeDataURI("http://example.com/sig.png")
	assert.Error(t, err)

	_, _, err = DecodeDataURI("data:image/png;base64")
	assert.Error(t, err)
}
