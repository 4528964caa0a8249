package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsVideo(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"clip.mp4", true},
		{"CLIP.MP4", true},
		{"clip.avi", true},
		{"clip.mkv", true},
		{"clip.mov", true},
		{"notes.txt", false},
		{"clip.mp4.part", false},
		{"noextension", false},
	}
	for _, tc := range tests {
		if got := IsVideo(tc.path); got != tc.want {
			t.Errorf("IsVideo(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

// startIngest runs an Ingest over dir with a short settle interval,
// returning the channel of handled paths and the Run error channel.
func startIngest(t *testing.T, ctx context.Context, dir string) (chan string, chan error) {
	t.Helper()
	in, err := NewIngest(dir)
	if err != nil {
		t.Fatalf("NewIngest failed: %v", err)
	}
	in.SettleInterval = 20 * time.Millisecond

	got := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- in.Run(ctx, func(path string) { got <- path })
	}()
	return got, done
}

func expectHandled(t *testing.T, got chan string, want string) {
	t.Helper()
	select {
	case p := <-got:
		if p != want {
			t.Errorf("Handled %v, want %v", p, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for %v to be handled", want)
	}
}

func expectQuiet(t *testing.T, got chan string) {
	t.Helper()
	select {
	case p := <-got:
		t.Errorf("Unexpected handling of %v", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestIngestHandlesNewVideo(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got, done := startIngest(t, ctx, dir)

	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	expectHandled(t, got, path)

	// Later writes to an already handled file are ignored.
	if err := os.WriteFile(path, []byte("appended bytes too"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	expectQuiet(t, got)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestIngestIgnoresNonVideo(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got, _ := startIngest(t, ctx, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	expectQuiet(t, got)
}

func TestIngestExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backlog.avi")
	if err := os.WriteFile(path, []byte("already here"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got, _ := startIngest(t, ctx, dir)

	expectHandled(t, got, path)
}
