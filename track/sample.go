// Package track holds the tracked-position data model and its
// serializations (CSV output, optional sqlite run history).
package track

import "image"

// Sample is one tracked position: the frame it was found on, the video
// timestamp of that frame, and the integer centroid of the brightest blob.
// Samples are collected in frame order; frames without a detection produce
// no sample at all, so the sequence is sparse but strictly increasing.
type Sample struct {
	Frame int
	Time  float64
	X, Y  int
}

// NewSample builds the sample for a detection on the given frame. The
// timestamp is derived from the container frame rate.
func NewSample(frame int, fps float64, pt image.Point) Sample {
	return Sample{
		Frame: frame,
		Time:  float64(frame) / fps,
		X:     pt.X,
		Y:     pt.Y,
	}
}
