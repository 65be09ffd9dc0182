package indexer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewServiceRequiresRoots(t *testing.T) {
	if _, err := NewService("", "  "); err != ErrNoRoots {
		t.Fatalf("err = %v, want ErrNoRoots", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.mp4"))
	writeFile(t, filepath.Join(root, "a.mp4"))
	writeFile(t, filepath.Join(root, "show 1399", "S01E01.mkv"))
	writeFile(t, filepath.Join(root, ".hidden-file"))
	writeFile(t, filepath.Join(root, ".hidden-dir", "ignored.mp4"))

	svc, err := NewService(root)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	if err := svc.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	snap := svc.Snapshot()
	want := Collection{
		root:                             {"a.mp4", "b.mp4"},
		filepath.Join(root, "show 1399"): {"S01E01.mkv"},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("snapshot = %v, want %v", snap, want)
	}
}

func TestScanSkipsMissingRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"))

	svc, err := NewService(root, filepath.Join(root, "does-not-exist"))
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	if err := svc.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	snap := svc.Snapshot()
	if len(snap) != 1 || len(snap[root]) != 1 {
		t.Fatalf("snapshot = %v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"))

	svc, err := NewService(root)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	if err := svc.Scan(); err != nil {
		t.Fatal(err)
	}

	snap := svc.Snapshot()
	snap[root][0] = "mutated"
	delete(snap, root)

	again := svc.Snapshot()
	if !reflect.DeepEqual(again[root], []string{"a.mp4"}) {
		t.Fatalf("internal state leaked through snapshot: %v", again)
	}
}

func TestWatchPicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"))

	svc, err := NewService(root)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	if err := svc.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, filepath.Join(root, "b.mp4"))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		snap := svc.Snapshot()
		if reflect.DeepEqual(snap[root], []string{"a.mp4", "b.mp4"}) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("new file never appeared in snapshot: %v", svc.Snapshot())
}

func TestCloseIsIdempotent(t *testing.T) {
	root := t.TempDir()
	svc, err := NewService(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Watch(); err != nil {
		t.Fatal(err)
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
