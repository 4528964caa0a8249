package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults reproduce the historical hard-coded behavior of the tracker.
const (
	DefaultThreshold = 200
	DefaultOutput    = "coordinates.csv"
)

// Config holds every tunable of the tracking pipeline.
type Config struct {
	// VideoPath is the input video for single-shot mode.
	VideoPath string

	// WatchDir, when set, switches to watch mode: every video file dropped
	// into the directory is processed as it appears. Mutually exclusive
	// with VideoPath.
	WatchDir string

	// OutputPath is the CSV destination in single-shot mode. In watch mode
	// each video gets a CSV placed next to it instead.
	OutputPath string

	// BrightnessThreshold is the luminance cutoff in [0,255]. Pixels
	// strictly brighter than it count as foreground.
	BrightnessThreshold int

	// DatabasePath enables the sqlite run store when non-empty.
	DatabasePath string

	// SnapshotPath, when non-empty, receives an annotated JPEG of the
	// first detection of each run.
	SnapshotPath string

	// DebugPort hosts /mjpeg, /metrics and /runs when non-zero.
	DebugPort int

	// Preview shows a live window with detections marked.
	Preview bool
}

func Default() *Config {
	return &Config{
		OutputPath:          DefaultOutput,
		BrightnessThreshold: DefaultThreshold,
	}
}

// FromEnv layers BLOBTRACK_* environment variables over c. The CLI loads a
// .env file beforehand, so deployments can avoid flags entirely.
func FromEnv(c *Config) {
	c.VideoPath = getEnv("BLOBTRACK_VIDEO", c.VideoPath)
	c.WatchDir = getEnv("BLOBTRACK_WATCH_DIR", c.WatchDir)
	c.OutputPath = getEnv("BLOBTRACK_OUTPUT", c.OutputPath)
	c.BrightnessThreshold = getEnvAsInt("BLOBTRACK_THRESHOLD", c.BrightnessThreshold)
	c.DatabasePath = getEnv("BLOBTRACK_DB", c.DatabasePath)
	c.SnapshotPath = getEnv("BLOBTRACK_SNAPSHOT", c.SnapshotPath)
	c.DebugPort = getEnvAsInt("BLOBTRACK_DEBUG_PORT", c.DebugPort)
	c.Preview = getEnvAsBool("BLOBTRACK_PREVIEW", c.Preview)
}

func (c *Config) Validate() error {
	if c.BrightnessThreshold < 0 || c.BrightnessThreshold > 255 {
		return fmt.Errorf("brightness threshold %d outside [0,255]", c.BrightnessThreshold)
	}
	if c.VideoPath != "" && c.WatchDir != "" {
		return fmt.Errorf("video path and watch directory are mutually exclusive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
