// Package process implements per-frame analysis: locating the brightest
// blob in a frame and annotating frames with the result.
package process

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"blobtrack/video/sink"
)

var maskColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Tracker locates the single brightest connected region in a frame. Each
// call to Locate is independent; no state is carried between frames beyond
// reusable scratch buffers whose contents are fully overwritten per call.
type Tracker struct {
	threshold int

	gray gocv.Mat
	bin  gocv.Mat

	debug *sink.MJPEGStreamPool
}

// NewTracker creates a Tracker with the given brightness threshold. Pixels
// whose luminance is strictly greater than the threshold count as
// foreground, matching OpenCV binary threshold semantics.
func NewTracker(threshold int) *Tracker {
	return &Tracker{
		threshold: threshold,
		gray:      gocv.NewMat(),
		bin:       gocv.NewMat(),
	}
}

// SetDebug attaches a stream pool that receives the intermediate stages
// ("gray", "thresh") of every processed frame.
func (t *Tracker) SetDebug(pool *sink.MJPEGStreamPool) {
	t.debug = pool
}

// Close releases the scratch buffers.
func (t *Tracker) Close() {
	t.gray.Close()
	t.bin.Close()
}

// Locate finds the centroid of the largest bright region in frame. The
// boolean is false when the frame contains no foreground at all, or when
// the winning region rasterizes to zero pixels; neither case is an error.
//
// Area ties between regions are broken toward the topmost, then leftmost,
// bounding box corner, so results do not depend on contour extraction
// order.
func (t *Tracker) Locate(frame gocv.Mat) (image.Point, bool) {
	gocv.CvtColor(frame, &t.gray, gocv.ColorBGRToGray)
	if t.debug != nil {
		t.debug.Put("gray", t.gray)
	}

	gocv.Threshold(t.gray, &t.bin, float32(t.threshold), 255, gocv.ThresholdBinary)
	if t.debug != nil {
		t.debug.Put("thresh", t.bin)
	}

	contours := gocv.FindContours(t.bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return image.Point{}, false
	}

	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	bestRect := gocv.BoundingRect(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < bestArea {
			continue
		}
		rect := gocv.BoundingRect(contours.At(i))
		if area > bestArea || cornerAbove(rect, bestRect) {
			best, bestArea, bestRect = i, area, rect
		}
	}

	// Raster moments over the filled region: m00 is the pixel count, m10
	// and m01 the coordinate sums.
	mask := gocv.NewMatWithSize(frame.Rows(), frame.Cols(), gocv.MatTypeCV8UC1)
	defer mask.Close()
	gocv.DrawContours(&mask, contours, best, maskColor, -1)

	m := gocv.Moments(mask, true)
	m00 := m["m00"]
	if m00 == 0 {
		return image.Point{}, false
	}
	return image.Pt(int(m["m10"]/m00), int(m["m01"]/m00)), true
}

// cornerAbove reports whether rect a's top-left corner orders before b's,
// comparing rows first.
func cornerAbove(a, b image.Rectangle) bool {
	if a.Min.Y != b.Min.Y {
		return a.Min.Y < b.Min.Y
	}
	return a.Min.X < b.Min.X
}
