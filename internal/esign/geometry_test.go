package esign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"heliosign/internal/domain"
)

func TestMapToPage_USLetter(t *testing.T) {
	// One SIGNATURE field at (10, 80, 20, 8) on a US Letter page.
	field := &domain.SignatureField{X: 10, Y: 80, Width: 20, Height: 8}
	page := PageSize{Width: 612, Height: 792}

	rect := MapToPage(field, page)

	assert.InDelta(t, 61.2, rect.X, 1e-9)
	assert.InDelta(t, 95.04, rect.Y, 1e-9)
	assert.InDelta(t, 122.4, rect.Width, 1e-9)
	assert.InDelta(t, 63.36, rect.Height, 1e-9)
}

func TestMapToPage_YAxisFlip(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}

	// A field at the very top of the UI page lands at the top of the PDF
	// page: its lower-left y is pageHeight minus its height.
	top := &domain.SignatureField{X: 0, Y: 0, Width: 10, Height: 10}
	assert.InDelta(t, 180, MapToPage(top, page).Y, 1e-9)

	// A field flush with the UI bottom lands at PDF y=0.
	bottom := &domain.SignatureField{X: 0, Y: 90, Width: 10, Height: 10}
	assert.InDelta(t, 0, MapToPage(bottom, page).Y, 1e-9)
}

func TestMapFromPage_RoundTrip(t *testing.T) {
	pages := []PageSize{
		{Width: 612, Height: 792},
		{Width: 595.276, Height: 841.89}, // A4
		{Width: 1000, Height: 250},
	}
	fields := []domain.SignatureField{
		{X: 10, Y: 80, Width: 20, Height: 8},
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 33.3, Y: 66.6, Width: 12.5, Height: 4.75},
		{X: 99, Y: 99, Width: 1, Height: 1},
	}

	for _, page := range pages {
		for _, f := range fields {
			rect := MapToPage(&f, page)
			x, y, w, h := MapFromPage(rect, page)
			assert.InDelta(t, f.X, x, 1e-9)
			assert.InDelta(t, f.Y, y, 1e-9)
			assert.InDelta(t, f.Width, w, 1e-9)
			assert.InDelta(t, f.Height, h, 1e-9)
		}
	}
}

func TestValidGeometry(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		want       bool
	}{
		{"centered", 40, 40, 20, 10, true},
		{"full page", 0, 0, 100, 100, true},
		{"bottom right corner", 99, 99, 1, 1, true},
		{"negative x", -1, 10, 10, 10, false},
		{"negative y", 10, -0.5, 10, 10, false},
		{"x beyond 100", 101, 10, 10, 10, false},
		{"zero width", 10, 10, 0, 10, false},
		{"zero height", 10, 10, 10, 0, false},
		{"negative width", 10, 10, -5, 10, false},
		{"overflows right edge", 95, 10, 10, 10, false},
		{"overflows bottom edge", 10, 95, 10, 10, false},
		{"width over 100", 0, 0, 150, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &domain.SignatureField{X: tt.x, Y: tt.y, Width: tt.w, Height: tt.h}
			assert.Equal(t, tt.want, ValidGeometry(f))
		})
	}
}
