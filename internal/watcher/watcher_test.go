package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startWatcher starts a watcher on path that reports each callback on the
// returned channel.
func startWatcher(t *testing.T, path string, fail bool) (*Watcher, <-chan string) {
	t.Helper()

	calls := make(chan string, 16)
	w, err := New(path, func(p string) error {
		calls <- p
		if fail {
			return errors.New("handler failed")
		}
		return nil
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w, calls
}

func expectCall(t *testing.T, calls <-chan string, want string) {
	t.Helper()
	select {
	case got := <-calls:
		if got != want {
			t.Errorf("callback path = %q, want %q", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func expectNoCall(t *testing.T, calls <-chan string) {
	t.Helper()
	select {
	case got := <-calls:
		t.Fatalf("unexpected callback for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	noop := func(string) error { return nil }

	if _, err := New("", noop); err == nil {
		t.Error("New(\"\") expected error, got nil")
	}
	if _, err := New("a.csv", nil); err == nil {
		t.Error("New with nil callback expected error, got nil")
	}

	w, err := New("a.csv", noop, WithDebounce(-1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
}

func TestStart_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "a.csv"), func(string) error { return nil })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Start() expected error for missing directory")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() after failed Start = %v", err)
	}
}

func TestWatcher_InitialRunAndChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	writeFile(t, path, "t1,1,2\n")

	w, calls := startWatcher(t, path, false)
	expectCall(t, calls, path)

	writeFile(t, path, "t1,1,2\nt2,2,3\n")
	expectCall(t, calls, path)

	if w.Runs() != 2 {
		t.Errorf("Runs() = %d, want 2", w.Runs())
	}
}

func TestWatcher_UnchangedContentSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	writeFile(t, path, "t1,1,2\n")

	w, calls := startWatcher(t, path, false)
	expectCall(t, calls, path)

	writeFile(t, path, "t1,1,2\n")
	expectNoCall(t, calls)

	if w.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", w.Runs())
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baskets.csv")
	writeFile(t, path, "t1,1\n")

	_, calls := startWatcher(t, path, false)
	expectCall(t, calls, path)

	writeFile(t, filepath.Join(dir, "other.csv"), "t1,9\n")
	expectNoCall(t, calls)
}

func TestWatcher_FileCreatedLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")

	_, calls := startWatcher(t, path, false)
	expectNoCall(t, calls)

	writeFile(t, path, "t1,1\n")
	expectCall(t, calls, path)
}

func TestWatcher_HandlerErrorKeepsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	writeFile(t, path, "t1,1\n")

	_, calls := startWatcher(t, path, true)
	expectCall(t, calls, path)

	writeFile(t, path, "t1,2\n")
	expectCall(t, calls, path)
}

func TestStop_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	w, _ := startWatcher(t, path, false)

	if err := w.Stop(); err != nil {
		t.Fatalf("first Stop() = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestWatcher_BurstProcessedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baskets.csv")
	writeFile(t, path, "t1,a\n")

	calls := make(chan string, 32)
	w, err := New(path, func(p string) error {
		calls <- p
		return nil
	}, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	expectCall(t, calls, w.Path())

	// The burst lasts three debounce delays, but no gap reaches one.
	content := "t1,a\n"
	for i := 0; i < 10; i++ {
		content += "t,b\n"
		writeFile(t, path, content)
		time.Sleep(30 * time.Millisecond)
	}

	expectCall(t, calls, w.Path())
	expectNoCall(t, calls)
	if got := w.Runs(); got != 2 {
		t.Errorf("Runs() = %d, want 2 (initial plus one for the burst)", got)
	}
}
