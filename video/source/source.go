// Package source provides frame acquisition from video files.
package source

import (
	"image"

	"gocv.io/x/gocv"
)

// Source is a finite sequence of video frames read strictly one at a time.
// There is no read-ahead; each Read blocks until the next frame has been
// decoded into the caller's Mat.
type Source interface {
	// Read decodes the next frame into m. It returns false at end of
	// stream and on an unreadable frame; callers treat both as the same
	// stop signal.
	Read(m *gocv.Mat) bool

	// FPS returns the container frame rate. Always positive.
	FPS() float64

	// FrameCount returns the container's frame count metadata, or zero
	// when the container does not report one.
	FrameCount() int

	// Size returns the frame dimensions in pixels.
	Size() image.Point

	// Close releases the underlying capture resources.
	Close() error
}
