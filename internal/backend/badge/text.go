package badge

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const shadowOffset = 3

var (
	textColor   = color.RGBA{0, 0, 0, 255}
	shadowColor = color.NRGBA{255, 255, 255, 180}
)

// centeredPlacement measures the ink bounds of text and returns the rectangle it covers when
// centred on anchor, together with the baseline origin that produces that rectangle.
func centeredPlacement(face font.Face, text string, anchor image.Point) (image.Rectangle, fixed.Point26_6) {
	bounds, _ := font.BoundString(face, text)
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	width := bounds.Max.X.Ceil() - minX
	height := bounds.Max.Y.Ceil() - minY

	topLeft := image.Pt(anchor.X-width/2, anchor.Y-height/2)
	box := image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(width, height))}
	dot := fixed.P(topLeft.X-minX, topLeft.Y-minY)
	return box, dot
}

func drawText(dst draw.Image, face font.Face, text string, dot fixed.Point26_6, c color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  dot,
	}
	drawer.DrawString(text)
}

// drawCenteredText draws a soft shadow offset down and right, then the text itself
func drawCenteredText(dst draw.Image, face font.Face, text string, anchor image.Point) {
	_, dot := centeredPlacement(face, text, anchor)
	shadowDot := dot.Add(fixed.P(shadowOffset, shadowOffset))
	drawText(dst, face, text, shadowDot, shadowColor)
	drawText(dst, face, text, dot, textColor)
}
