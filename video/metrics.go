package video

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobtrack_frames_total",
		Help: "Frames read and scanned for a bright blob.",
	})
	metricDetections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobtrack_detections_total",
		Help: "Frames on which a blob centroid was found.",
	})
	metricVideos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobtrack_videos_total",
		Help: "Completed video processing runs.",
	})
	metricFrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "blobtrack_frame_seconds",
		Help: "Per-frame processing latency.",
	})
)
