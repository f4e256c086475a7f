package esign

import "heliosign/internal/domain"

// ValidGeometry reports whether a field's percentage geometry fits on a
// page: all coordinates in [0,100], positive size, and the box not
// crossing the right or bottom edge. Callers gate both persistence of a
// newly authored field and rendering on it; a false result at render time
// is a precondition violation, not user input to be tolerated.
func ValidGeometry(f *domain.SignatureField) bool {
	if f.Width <= 0 || f.Height <= 0 {
		return false
	}
	if f.X < 0 || f.X > 100 || f.Y < 0 || f.Y > 100 {
		return false
	}
	if f.Width > 100 || f.Height > 100 {
		return false
	}
	if f.X+f.Width > 100 || f.Y+f.Height > 100 {
		return false
	}
	return true
}
