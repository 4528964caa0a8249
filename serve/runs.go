// Package serve hosts the debug HTTP surface: MJPEG stage streams,
// prometheus metrics, and recent-run history.
package serve

import (
	"encoding/json"
	"net/http"
	"strconv"

	"blobtrack/track"
)

const defaultRunLimit = 20

type RunEntry struct {
	RunID     string
	Video     string
	Timestamp int64

	FPS        float64
	FrameCount int
	Threshold  int

	SampleCount int
}

type RunsResponse struct {
	Items []*RunEntry

	ItemsCount int
}

func toRunEntry(r *track.Run) *RunEntry {
	return &RunEntry{
		RunID:       r.RunID,
		Video:       r.Video,
		Timestamp:   r.CreatedAt.Unix(),
		FPS:         r.FPS,
		FrameCount:  r.FrameCount,
		Threshold:   r.Threshold,
		SampleCount: r.SampleCount,
	}
}

// RunsServer serves recent run history from the store as JSON.
type RunsServer struct {
	Store *track.Store
}

func (s *RunsServer) BuildResponse(limit int) (*RunsResponse, error) {
	runs, err := s.Store.RecentRuns(limit)
	if err != nil {
		return nil, err
	}

	resp := &RunsResponse{}
	for i := range runs {
		resp.Items = append(resp.Items, toRunEntry(&runs[i]))
	}
	resp.ItemsCount = len(resp.Items)
	return resp, nil
}

func (s *RunsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := defaultRunLimit
	if n, err := strconv.Atoi(r.Form.Get("n")); err == nil && n > 0 {
		limit = n
	}

	resp, err := s.BuildResponse(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	js, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}
