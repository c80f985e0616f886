package dump

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadAll_Array(t *testing.T) {
	path := write(t, "dump.json", `[
		{"video_id": "v1"},
		{"video_id": "v2"}
	]`)
	recs, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 || recs[0]["video_id"] != "v1" || recs[1]["video_id"] != "v2" {
		t.Fatalf("recs = %+v", recs)
	}
}

func TestReadAll_NDJSON(t *testing.T) {
	path := write(t, "dump.ndjson", "{\"video_id\": \"v1\"}\n\n{\"video_id\": \"v2\"}\n")
	recs, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recs = %d, want 2", len(recs))
	}
}

func TestReadAll_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.ndjson.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("{\"video_id\": \"v1\"}\n{\"video_id\": \"v2\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	recs, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recs = %d, want 2", len(recs))
	}
}

func TestReadAll_BadRecord(t *testing.T) {
	path := write(t, "dump.ndjson", "{\"ok\": true}\nnot json\n")
	if _, err := ReadAll(path); err == nil {
		t.Fatal("malformed line must error")
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := write(t, "empty.json", "")
	if _, err := Open(path); err == nil {
		t.Fatal("empty dump must error")
	}
}
