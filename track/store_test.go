package track

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	return s
}

func TestStoreSaveRun(t *testing.T) {
	s := openTestStore(t)

	samples := []Sample{
		{Frame: 1, Time: 0.1, X: 11, Y: 11},
		{Frame: 4, Time: 0.4, X: 20, Y: 21},
		{Frame: 9, Time: 0.9, X: 30, Y: 31},
	}
	run := &Run{
		RunID:      "run-1",
		Video:      "clip.mp4",
		FPS:        10,
		FrameCount: 12,
		Threshold:  200,
	}
	if err := s.SaveRun(run, samples); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns len = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.RunID != "run-1" || got.Video != "clip.mp4" {
		t.Errorf("Run = %+v, want run-1 over clip.mp4", got)
	}
	if got.FPS != 10 || got.FrameCount != 12 || got.Threshold != 200 {
		t.Errorf("Run metadata = %+v", got)
	}
	if got.SampleCount != 3 {
		t.Errorf("SampleCount = %d, want 3", got.SampleCount)
	}

	positions, err := s.Positions(got.ID)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions) != 3 {
		t.Fatalf("Positions len = %d, want 3", len(positions))
	}
	for i, p := range positions {
		want := samples[i]
		if p.Frame != want.Frame || p.X != want.X || p.Y != want.Y {
			t.Errorf("Position[%d] = %+v, want %+v", i, p, want)
		}
	}
}

func TestStoreSaveRunEmpty(t *testing.T) {
	s := openTestStore(t)

	run := &Run{RunID: "run-empty", Video: "black.mp4", FPS: 30}
	if err := s.SaveRun(run, nil); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].SampleCount != 0 {
		t.Fatalf("RecentRuns = %+v, want one run with zero samples", runs)
	}
}

func TestStoreRecentRunsOrder(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if err := s.SaveRun(&Run{RunID: id, Video: id + ".mp4"}, nil); err != nil {
			t.Fatalf("SaveRun(%v) failed: %v", id, err)
		}
	}

	runs, err := s.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns len = %d, want 2", len(runs))
	}
	if runs[0].RunID != "third" || runs[1].RunID != "second" {
		t.Errorf("RecentRuns order = [%v %v], want [third second]", runs[0].RunID, runs[1].RunID)
	}
}
