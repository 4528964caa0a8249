// Package video drives frame processing: the single-pass tracking pipeline
// and the drop-folder ingest loop.
package video

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"blobtrack/track"
	"blobtrack/video/process"
	"blobtrack/video/sink"
	"blobtrack/video/source"
)

// Pipeline runs one complete pass over a video: read each frame in order,
// locate the brightest blob, and collect a sample per detection. Frames
// are processed strictly sequentially with no lookahead and no retries; a
// failed read ends the run.
type Pipeline struct {
	Source  source.Source
	Tracker *process.Tracker

	// Preview, when non-nil, receives every frame with detections marked.
	Preview sink.Sink

	// Debug, when non-nil, receives the raw and tracked frame streams.
	// The Tracker adds its own intermediate stages to the same pool.
	Debug *sink.MJPEGStreamPool

	// SnapshotPath, when non-empty, receives an annotated JPEG of the
	// first detection of the run.
	SnapshotPath string
}

// Result is the outcome of one run. Samples are in frame order with
// strictly increasing frame indices; frames without a detection contribute
// nothing.
type Result struct {
	Samples    []track.Sample
	FramesRead int
	Detections int
	FPS        float64
	Elapsed    time.Duration
}

// Run processes the source until end of stream and returns the collected
// samples. Ownership of the samples passes to the caller; the pipeline
// retains nothing between runs.
func (p *Pipeline) Run() *Result {
	start := time.Now()
	fps := p.Source.FPS()

	var samples []track.Sample

	frame := gocv.NewMat()
	defer frame.Close()

	frames := 0
	snapshotDone := false
	for p.Source.Read(&frame) {
		frameStart := time.Now()
		metricFrames.Inc()
		if p.Debug != nil {
			p.Debug.Put("raw", frame)
		}

		pt, ok := p.Tracker.Locate(frame)
		if ok {
			metricDetections.Inc()
			samples = append(samples, track.NewSample(frames, fps, pt))
			log.Debugf("Frame %d: blob at (%d,%d)", frames, pt.X, pt.Y)

			if p.SnapshotPath != "" && !snapshotDone {
				if err := process.WriteSnapshot(p.SnapshotPath, frame, pt); err != nil {
					log.Errorf("Failed to write snapshot: %v", err)
				} else {
					log.Infof("Snapshot written to %v", p.SnapshotPath)
				}
				snapshotDone = true
			}

			// Mark the frame for the live views.
			if p.Preview != nil || p.Debug != nil {
				process.DrawMarker(&frame, pt)
			}
		}

		if p.Preview != nil {
			p.Preview.Put(frame)
		}
		if p.Debug != nil {
			p.Debug.Put("tracked", frame)
		}

		metricFrameSeconds.Observe(time.Since(frameStart).Seconds())
		frames++
	}

	metricVideos.Inc()
	res := &Result{
		Samples:    samples,
		FramesRead: frames,
		Detections: len(samples),
		FPS:        fps,
		Elapsed:    time.Since(start),
	}
	log.Infof("Processed %d frames in %v: %d detections", res.FramesRead, res.Elapsed.Round(time.Millisecond), res.Detections)
	return res
}
