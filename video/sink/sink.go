// Package sink provides destinations for processed video frames: a live
// preview window and MJPEG debug streams over HTTP.
package sink

import (
	"gocv.io/x/gocv"
)

// Sink is a destination for a stream of frames, such as a preview window or
// an MJPEG stream.
type Sink interface {
	// Put delivers one frame to the sink. The sink must not retain
	// references to the Mat beyond the call; the caller reuses it for the
	// next frame.
	Put(input gocv.Mat)

	// Close finalizes the sink.
	Close()
}
