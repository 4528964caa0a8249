package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// IsVideo reports whether path has a recognized video file extension.
func IsVideo(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".avi", ".mkv", ".mov":
		return true
	}
	return false
}

// Ingest watches a drop folder and hands each video file that appears to a
// handler, one at a time. Files already present when the watch starts are
// handled first, oldest first.
type Ingest struct {
	// SettleInterval is how long a file's size must hold steady before it
	// is considered fully written. Uploads and copies grow the file over
	// many write events; processing a half-copied video would silently
	// truncate the output.
	SettleInterval time.Duration

	dir     string
	watcher *fsnotify.Watcher
	seen    map[string]bool
}

func NewIngest(dir string) (*Ingest, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	return &Ingest{
		SettleInterval: time.Second,
		dir:            dir,
		watcher:        watcher,
		seen:           make(map[string]bool),
	}, nil
}

// Run blocks, invoking handle for each video file until ctx is cancelled.
// Handling is serialized; cancellation takes effect between files, never
// in the middle of one.
func (in *Ingest) Run(ctx context.Context, handle func(path string)) error {
	defer in.watcher.Close()

	log.Infof("Watching %v for video files", in.dir)
	if err := in.scanExisting(ctx, handle); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-in.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			in.maybeHandle(ctx, event.Name, handle)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("Watch error on %v: %v", in.dir, err)
		}
	}
}

func (in *Ingest) scanExisting(ctx context.Context, handle func(path string)) error {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.IsDir() {
			continue
		}
		in.maybeHandle(ctx, filepath.Join(in.dir, e.Name()), handle)
	}
	return nil
}

func (in *Ingest) maybeHandle(ctx context.Context, path string, handle func(path string)) {
	if !IsVideo(path) {
		return
	}
	if in.seen[path] {
		log.Debugf("Already handled %v, ignoring event", path)
		return
	}
	if !in.waitSettled(ctx, path) {
		return
	}
	in.seen[path] = true
	log.Infof("Ingesting %v", path)
	handle(path)
}

// waitSettled polls the file size until it stays unchanged for one
// SettleInterval. False means the file vanished or ctx was cancelled.
func (in *Ingest) waitSettled(ctx context.Context, path string) bool {
	last := int64(-1)
	for {
		fi, err := os.Stat(path)
		if err != nil {
			log.Debugf("Stat %v: %v", path, err)
			return false
		}
		if fi.Size() > 0 && fi.Size() == last {
			return true
		}
		last = fi.Size()

		select {
		case <-ctx.Done():
			return false
		case <-time.After(in.SettleInterval):
		}
	}
}
