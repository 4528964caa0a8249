package process

import (
	"image"
	"os"

	"gocv.io/x/gocv"
)

// WriteSnapshot saves frame to path as a JPEG with the detected centroid
// marked. The input frame is not modified.
func WriteSnapshot(path string, frame gocv.Mat, pt image.Point) error {
	annotated := gocv.NewMat()
	defer annotated.Close()
	frame.CopyTo(&annotated)
	DrawMarker(&annotated, pt)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, annotated)
	if err != nil {
		return err
	}
	defer buf.Close()

	if err := os.WriteFile(path, buf.GetBytes(), 0644); err != nil {
		return err
	}

	return nil
}
