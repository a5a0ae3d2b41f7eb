package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var calls int32
	d := newDebouncer(30*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	for i := 0; i < 5; i++ {
		d.trigger()
		time.Sleep(5 * time.Millisecond)
	}
	if !d.pending() {
		t.Fatal("expected pending callback")
	}
	if !waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&calls) == 1 }) {
		t.Fatalf("expected 1 call, got %d", atomic.LoadInt32(&calls))
	}
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 call, got %d", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls int32
	d := newDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	d.trigger()
	d.cancel()
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("cancelled debouncer fired %d times", got)
	}
	if d.pending() {
		t.Error("expected nothing pending after cancel")
	}
}

func TestNew_RequiresArguments(t *testing.T) {
	if _, err := New("", func() {}); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := New("x.json", nil); err == nil {
		t.Error("expected error for nil callback")
	}
}

func TestStart_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "g.json"), func() {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func testWatcherDetectsChanges(t *testing.T, opts ...Option) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grievances.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls int32
	opts = append(opts, WithDebounce(20*time.Millisecond))
	w, err := New(path, func() { atomic.AddInt32(&calls, 1) }, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("unrelated file triggered %d callbacks", got)
	}

	// Replace via rename, the way the store saves.
	tmp := filepath.Join(dir, "grievances.json.tmp")
	if err := os.WriteFile(tmp, []byte(`[{"id":1}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return atomic.LoadInt32(&calls) >= 1 }) {
		t.Fatal("change was not reported")
	}
}

func TestWatcher_Notify(t *testing.T) {
	testWatcherDetectsChanges(t)
}

func TestWatcher_Polling(t *testing.T) {
	testWatcherDetectsChanges(t, WithPolling(), WithPollInterval(20*time.Millisecond))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "g.json"), func() {}, WithPolling())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.Polling() {
		t.Error("expected polling mode")
	}
	w.Stop()
	w.Stop()
	if err := w.Start(); err == nil {
		t.Error("expected error restarting a stopped watcher")
	}
}
