package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/routing"
)

type reloadMetrics struct {
	mu       sync.Mutex
	ok, fail int
	models   int
}

func (m *reloadMetrics) RecordCatalogReload(success bool, _ time.Duration, models, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.ok++
		m.models = models
	} else {
		m.fail++
	}
}

func (m *reloadMetrics) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ok, m.fail
}

func TestNewManager_Builtin(t *testing.T) {
	metrics := &reloadMetrics{}
	m, err := NewManager(config.CatalogConfig{}, routing.DefaultOptions(), WithMetrics(metrics))
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	if m.Router() == nil {
		t.Fatal("Router() = nil")
	}
	if err := m.Check(context.Background()); err != nil {
		t.Errorf("Check() = %v", err)
	}

	s := m.Status()
	if s.Source != SourceBuiltin || s.Reloads != 1 || s.Models == 0 || s.LastError != "" {
		t.Errorf("Status() = %+v", s)
	}
	if ok, _ := metrics.counts(); ok != 1 {
		t.Errorf("successful reloads = %d, want 1", ok)
	}
	if err := m.Watch(context.Background()); err != ErrNoPath {
		t.Errorf("Watch() on builtin = %v, want ErrNoPath", err)
	}
}

func TestNewManager_InvalidCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", "rules:\n  - id: x\n    target_model: nope\n")
	if _, err := NewManager(config.CatalogConfig{Path: path}, routing.DefaultOptions()); err == nil {
		t.Error("NewManager() with invalid catalog should fail")
	}
}

func TestManager_ReloadKeepsPreviousOnError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", testCatalog)
	metrics := &reloadMetrics{}

	m, err := NewManager(config.CatalogConfig{Path: path}, routing.DefaultOptions(), WithMetrics(metrics))
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	before := m.Router()

	// Rule targets an unknown model.
	writeFile(t, filepath.Dir(path), "catalog.yaml", "models:\n  - id: only\n    provider: acme\nrules:\n  - id: r\n    target_model: gone\n")
	if err := m.Reload(context.Background()); err == nil {
		t.Fatal("Reload() should fail")
	}
	if m.Router() != before {
		t.Error("failed reload replaced the router")
	}
	if s := m.Status(); s.LastError == "" || s.Reloads != 1 {
		t.Errorf("Status() after failure = %+v", s)
	}
	if _, fail := metrics.counts(); fail != 1 {
		t.Errorf("failed reloads = %d, want 1", fail)
	}

	// A valid catalog is swapped in.
	writeFile(t, filepath.Dir(path), "catalog.yaml", "default_model: gpt-4o\n")
	if err := m.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if m.Router() == before || m.Router().Options().DefaultModel != "gpt-4o" {
		t.Error("router not replaced after successful reload")
	}
	if s := m.Status(); s.LastError != "" || s.Reloads != 2 {
		t.Errorf("Status() after recovery = %+v", s)
	}
}

func TestManager_ConcurrentReadsDuringReload(t *testing.T) {
	m, err := NewManager(config.CatalogConfig{}, routing.DefaultOptions())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d := m.Router().Route("Write a Python function", "", nil)
				if d.Model.ID == "" {
					t.Error("empty model during reload")
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_ = m.Reload(context.Background())
	}
	wg.Wait()
}

func TestManager_WatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", testCatalog)

	m, err := NewManager(config.CatalogConfig{Path: path, Watch: true, Debounce: 20 * time.Millisecond}, routing.DefaultOptions())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the directory are ignored.
	writeFile(t, dir, "other.yaml", "x: 1\n")
	if err := os.WriteFile(path, []byte("default_model: gpt-4o\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for m.Router().Options().DefaultModel != "gpt-4o" {
		if time.Now().After(deadline) {
			t.Fatal("catalog was not reloaded after file change")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var mu sync.Mutex
	calls := 0
	inc := func() {
		mu.Lock()
		calls++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		d.Trigger(inc)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	got := calls
	mu.Unlock()
	if got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}

	d.Stop()
	d.Trigger(inc)
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Error("callback ran after Stop")
	}
}
