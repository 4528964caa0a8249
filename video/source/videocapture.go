package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/pillash/mp4util"
	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// FileCapture reads frames from a video file through OpenCV.
type FileCapture struct {
	Path string

	cap *gocv.VideoCapture

	fps    float64
	frames int
	size   image.Point
}

// OpenFile opens a video file and reads its container metadata. A file that
// cannot be opened or that reports a non-positive frame rate is rejected;
// frame timestamps are derived from the frame rate, so processing without
// one would be meaningless.
func OpenFile(path string) (*FileCapture, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %v: %w", path, err)
	}

	fps := cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		cap.Close()
		return nil, fmt.Errorf("video %v reports frame rate %v", path, fps)
	}

	v := &FileCapture{
		Path:   path,
		cap:    cap,
		fps:    fps,
		frames: int(cap.Get(gocv.VideoCaptureFrameCount)),
		size: image.Point{
			X: int(cap.Get(gocv.VideoCaptureFrameWidth)),
			Y: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		},
	}

	log.Infof("Opened %v: %dx%d, %.2f fps, %d frames", path, v.size.X, v.size.Y, v.fps, v.frames)
	if strings.EqualFold(filepath.Ext(path), ".mp4") {
		// Cross-check the decoder metadata against the mp4 container.
		if secs, err := mp4util.Duration(path); err == nil {
			log.Infof("Container duration %ds (decoder estimates %.1fs)", secs, float64(v.frames)/v.fps)
		} else {
			log.Debugf("No container duration for %v: %v", path, err)
		}
	}
	return v, nil
}

// Read decodes the next frame into m. False means end of stream; decode
// failures mid-file surface the same way and simply end the run early.
func (v *FileCapture) Read(m *gocv.Mat) bool {
	if ok := v.cap.Read(m); !ok || m.Empty() {
		return false
	}
	return true
}

func (v *FileCapture) FPS() float64 {
	return v.fps
}

func (v *FileCapture) FrameCount() int {
	return v.frames
}

func (v *FileCapture) Size() image.Point {
	return v.size
}

func (v *FileCapture) Close() error {
	return v.cap.Close()
}
