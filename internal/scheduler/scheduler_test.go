package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/i474232898/weather-stickers/internal/stickers"
)

type fakeSyncer struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
	done     chan struct{}
}

func (f *fakeSyncer) Sync(ctx context.Context) (stickers.RunReport, error) {
	if _, ok := ctx.Deadline(); ok {
		f.deadline.Store(true)
	}
	if f.calls.Add(1) == 1 && f.done != nil {
		close(f.done)
	}
	return stickers.RunReport{ID: "run-1"}, f.err
}

func TestRunOnceBoundsContext(t *testing.T) {
	syncer := &fakeSyncer{}
	if err := RunOnce(context.Background(), syncer, time.Minute, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !syncer.deadline.Load() {
		t.Fatalf("expected sync context to carry a deadline")
	}
}

func TestRunOnceReportsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	syncer := &fakeSyncer{err: errors.New("boom")}

	err := RunOnce(context.Background(), syncer, time.Minute, zap.New(core))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if logs.FilterMessage("sticker sync failed").Len() != 1 {
		t.Fatalf("expected one failure log, got %v", logs.All())
	}
}

func TestStartRunsImmediately(t *testing.T) {
	syncer := &fakeSyncer{done: make(chan struct{})}
	s := New(syncer, time.Hour, time.Minute, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-syncer.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected the first sync to run without waiting for the interval")
	}
}
