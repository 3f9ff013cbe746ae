package badge

import (
	"image"
	"math"
)

// Anchor is a position expressed as fractions of the template width and height
type Anchor struct {
	X float64
	Y float64
}

// Layout holds the fixed proportions used to place text on a template
type Layout struct {
	NameSizeRatio    float64
	CompanySizeRatio float64
	NameAnchor       Anchor
	CompanyAnchor    Anchor
}

// Placement is a Layout resolved against concrete template dimensions
type Placement struct {
	NameSize      int
	CompanySize   int
	NameAnchor    image.Point
	CompanyAnchor image.Point
}

// DefaultLayout sizes the name at 30% and the company at 17% of the template height,
// centred horizontally at 42% and 63% of the height respectively.
func DefaultLayout() Layout {
	return Layout{
		NameSizeRatio:    0.30,
		CompanySizeRatio: 0.17,
		NameAnchor:       Anchor{X: 0.5, Y: 0.42},
		CompanyAnchor:    Anchor{X: 0.5, Y: 0.63},
	}
}

// Resolve computes font sizes and anchor points for a width x height template
func (l Layout) Resolve(width, height int) Placement {
	return Placement{
		NameSize:      fraction(height, l.NameSizeRatio),
		CompanySize:   fraction(height, l.CompanySizeRatio),
		NameAnchor:    image.Pt(fraction(width, l.NameAnchor.X), fraction(height, l.NameAnchor.Y)),
		CompanyAnchor: image.Pt(fraction(width, l.CompanyAnchor.X), fraction(height, l.CompanyAnchor.Y)),
	}
}

// fraction truncates n*ratio towards zero; the epsilon absorbs binary representation
// error so that 600*0.42 yields 252 rather than 251.
func fraction(n int, ratio float64) int {
	return int(math.Floor(float64(n)*ratio + 1e-9))
}
