package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_WriteTriggersChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cameraData.xlsx")
	if err := os.WriteFile(file, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(file, []byte("v2"), 0600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(rec.snapshot()) >= 1 })
	if got := rec.snapshot()[0]; got != filepath.Clean(file) {
		t.Errorf("onChange path = %s, want %s", got, file)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cameraData.xlsx")
	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, WithDebounce(20*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.xlsx"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("expected no callbacks, got %v", got)
	}
}

func TestWatcher_RenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cameraData.xlsx")
	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	tmp := filepath.Join(dir, "~cameraData.tmp")
	if err := os.WriteFile(tmp, []byte("v2"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, file); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(rec.snapshot()) >= 1 })
}

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cameraData.xlsx")
	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, WithDebounce(300*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte{byte(i)}, 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, func() bool { return len(rec.snapshot()) >= 1 })
	time.Sleep(400 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("expected one debounced callback, got %d", len(got))
	}
}

func TestWatcher_FilesShareDirectoryWatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")
	w := NewWatcher([]string{a, b, a}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.mu.Lock()
	files, refs := len(w.files), w.dirs[filepath.Clean(dir)]
	w.mu.Unlock()
	if files != 2 {
		t.Errorf("watched files = %d, want 2", files)
	}
	if refs != 2 {
		t.Errorf("dir refcount = %d, want 2", refs)
	}
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "cameraData.xlsx")
	w := NewWatcher([]string{file}, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error watching a missing directory")
	}
}
