package manager_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoastyle/logger/pkg/config"
	"github.com/hoastyle/logger/pkg/errs"
	"github.com/hoastyle/logger/pkg/levels"
	"github.com/hoastyle/logger/pkg/manager"
)

// TestEmitBeforeSetupReturnsErrNotConfigured relies on running before any
// other test in this file calls Setup on the process-wide singleton.
func TestEmitBeforeSetupReturnsErrNotConfigured(t *testing.T) {
	m := manager.Instance()
	if err := m.Emit(levels.Info, []byte("x")); !errors.Is(err, errs.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSetupStartEmitTeardownAsyncFile(t *testing.T) {
	dir := t.TempDir()
	m := manager.Instance()

	cfg := config.DefaultConfig()
	cfg.SinkKind = config.SinkAsyncFile
	cfg.FilePath = dir
	cfg.FileThreshold = levels.Info
	cfg.AppID = "testapp"
	cfg.BatchSize = 10
	cfg.QueueCapacity = 20
	cfg.PoolSize = 20
	cfg.NumWorkers = 2

	if err := m.Setup(cfg); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// One full batch: workers only wake once the queue holds BatchSize
	// records (or half its capacity), so a smaller burst would sit in the
	// queue until Teardown's final drain.
	for i := 0; i < 10; i++ {
		if err := m.Emit(levels.Info, []byte("hello")); err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
	}

	time.Sleep(50 * time.Millisecond)

	snap := m.Stats()
	if snap.Processed != 10 {
		t.Fatalf("expected Processed=10 before teardown, got %+v", snap)
	}

	if err := m.Teardown(); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}

	infoPath := filepath.Join(dir, "testapp.INFO")
	if _, err := os.Stat(infoPath); err != nil {
		t.Fatalf("expected INFO file to exist: %v", err)
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	m := manager.Instance()

	cfg := config.DefaultConfig()
	cfg.SinkKind = config.SinkAsyncFile
	cfg.FilePath = dir
	cfg.FileThreshold = levels.Info

	if err := m.Setup(cfg); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Teardown(); err != nil {
		t.Fatalf("first Teardown failed: %v", err)
	}
	if err := m.Teardown(); err != nil {
		t.Fatalf("second Teardown should be a no-op, got: %v", err)
	}
}

func TestSetupResetsCountersAcrossReconfiguration(t *testing.T) {
	dir := t.TempDir()
	m := manager.Instance()

	cfg := config.DefaultConfig()
	cfg.SinkKind = config.SinkAsyncFile
	cfg.FilePath = dir
	cfg.FileThreshold = levels.Info

	if err := m.Setup(cfg); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_ = m.Emit(levels.Info, []byte("before reconfigure"))
	time.Sleep(20 * time.Millisecond)
	_ = m.Teardown()

	if err := m.Setup(cfg); err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}
	snap := m.Stats()
	if snap.Enqueued != 0 {
		t.Fatalf("expected counters reset on re-setup, got %+v", snap)
	}
	_ = m.Teardown()
}
