package config

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "cacheTTLSeconds: 60\n")

	var mu sync.Mutex
	var applied []Config
	apply := func(cfg Config) {
		mu.Lock()
		applied = append(applied, cfg)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewWatcher(NewLoader(zap.NewNop()), path, apply, zap.NewNop())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	// Give the watcher a moment to install before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("cacheTTLSeconds: 120\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) > 0 && applied[len(applied)-1].CacheTTL == 2*time.Minute
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop in time")
	}
}

func TestWatcher_InvalidEditKeepsPreviousConfig(t *testing.T) {
	path := writeConfig(t, "cacheTTLSeconds: 60\n")

	var mu sync.Mutex
	applyCount := 0
	apply := func(Config) {
		mu.Lock()
		applyCount++
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewWatcher(NewLoader(zap.NewNop()), path, apply, zap.NewNop())
	go watcher.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("transport: carrier-pigeon\n"), 0o644))

	// The reload fails validation; the callback must never fire.
	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, applyCount)
}

func TestWatcher_NoPathIsNoop(t *testing.T) {
	watcher := NewWatcher(NewLoader(zap.NewNop()), "", func(Config) {}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		watcher.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher should return immediately without a path")
	}
}
