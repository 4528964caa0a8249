package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"blobtrack/track"
)

func testStore(t *testing.T) *track.Store {
	t.Helper()
	store, err := track.OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	return store
}

func TestRunsServer(t *testing.T) {
	store := testStore(t)
	if err := store.SaveRun(&track.Run{RunID: "a", Video: "a.mp4", FPS: 30}, nil); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	samples := []track.Sample{{Frame: 1, Time: 0.1, X: 2, Y: 3}}
	if err := store.SaveRun(&track.Run{RunID: "b", Video: "b.mp4", FPS: 10}, samples); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	srv := &RunsServer{Store: store}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/runs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp RunsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if resp.ItemsCount != 2 {
		t.Fatalf("ItemsCount = %d, want 2", resp.ItemsCount)
	}
	if resp.Items[0].RunID != "b" {
		t.Errorf("Items[0].RunID = %v, want the newest run b", resp.Items[0].RunID)
	}
	if resp.Items[0].SampleCount != 1 {
		t.Errorf("Items[0].SampleCount = %d, want 1", resp.Items[0].SampleCount)
	}
}

func TestRunsServerLimit(t *testing.T) {
	store := testStore(t)
	for _, id := range []string{"one", "two", "three"} {
		if err := store.SaveRun(&track.Run{RunID: id}, nil); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	srv := &RunsServer{Store: store}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/runs?n=1", nil))

	var resp RunsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if resp.ItemsCount != 1 || len(resp.Items) != 1 {
		t.Fatalf("Response = %+v, want exactly one item", resp)
	}
	if resp.Items[0].RunID != "three" {
		t.Errorf("Items[0].RunID = %v, want three", resp.Items[0].RunID)
	}
}
