// Package esign implements the e-signature core: field geometry mapping,
// geometry validation, signature rendering, signing-session state and the
// integrity/token primitives. Everything here is pure computation over
// domain values; persistence and PDF I/O live elsewhere.
package esign

import "heliosign/internal/domain"

// PageSize is a page's dimensions in PDF user-space units (points).
type PageSize struct {
	Width  float64
	Height float64
}

// Rect is an absolute box in PDF user space: origin at the page's
// bottom-left corner, y increasing upward. X/Y name the box's lower-left
// corner, matching how PDF rectangles and transforms are expressed.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// UpperRight returns the box's upper-right corner.
func (r Rect) UpperRight() (float64, float64) {
	return r.X + r.Width, r.Y + r.Height
}

// MapToPage converts a field's percentage geometry (top-left origin,
// y increasing downward) into absolute page coordinates (bottom-left
// origin, y increasing upward). The y-axis flip is the whole point:
//
//	absY = pageHeight - (y/100)*pageHeight - absHeight
func MapToPage(f *domain.SignatureField, page PageSize) Rect {
	absWidth := f.Width / 100 * page.Width
	absHeight := f.Height / 100 * page.Height
	return Rect{
		X:      f.X / 100 * page.Width,
		Y:      page.Height - f.Y/100*page.Height - absHeight,
		Width:  absWidth,
		Height: absHeight,
	}
}

// MapFromPage inverts MapToPage, recovering percentage geometry from an
// absolute page rect. Used by the editor preview to translate hits back
// into field space; MapFromPage(MapToPage(f)) == f up to float precision.
func MapFromPage(r Rect, page PageSize) (x, y, width, height float64) {
	width = r.Width / page.Width * 100
	height = r.Height / page.Height * 100
	x = r.X / page.Width * 100
	y = (page.Height - r.Y - r.Height) / page.Height * 100
	return x, y, width, height
}
