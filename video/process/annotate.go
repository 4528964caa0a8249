package process

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	colorMark  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	colorLabel = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBG    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

const markArm = 8

// DrawMarker draws a crosshair at pt with a coordinate label underneath.
// Used for the preview window, the tracked debug stream, and snapshots.
func DrawMarker(img *gocv.Mat, pt image.Point) {
	gocv.Line(img, image.Pt(pt.X-markArm, pt.Y), image.Pt(pt.X+markArm, pt.Y), colorMark, 1)
	gocv.Line(img, image.Pt(pt.X, pt.Y-markArm), image.Pt(pt.X, pt.Y+markArm), colorMark, 1)

	text := fmt.Sprintf("(%d,%d)", pt.X, pt.Y)

	font := gocv.FontHersheySimplex
	scale := 0.4
	thickness := 1

	sz := gocv.GetTextSize(text, font, scale, thickness)

	pad := 2

	org := image.Point{X: pt.X + markArm + pad, Y: pt.Y + sz.Y/2}
	gocv.Rectangle(img, image.Rectangle{
		Min: image.Point{X: org.X - pad, Y: org.Y - sz.Y - pad},
		Max: image.Point{X: org.X + sz.X + pad, Y: org.Y + pad},
	}, colorBG, -1)

	gocv.PutText(img, text, org, font, scale, colorLabel, thickness)
}
