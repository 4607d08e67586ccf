package capture

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

func TestPruner_PruneOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, content := range []string{"old", "newer", "newest"} {
		if _, err := s.SaveSnapshot(ctx, "sw1", "", models.CaptureMAC, content, t0.Add(time.Duration(i)*24*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	core, logs := observer.New(zapcore.InfoLevel)
	p := NewPruner(s, 36*time.Hour, time.Hour, zap.New(core))
	p.now = func() time.Time { return t0.Add(3 * 24 * time.Hour) }

	// Cutoff is t0+36h: "old" and "newer" (t0+24h) are older, "newest" is kept as latest.
	if n := p.PruneOnce(ctx); n != 2 {
		t.Errorf("PruneOnce = %d, want 2", n)
	}
	if logs.FilterMessage("pruned old snapshots").Len() != 1 {
		t.Error("expected a log entry for the pruned snapshots")
	}
	if n := p.PruneOnce(ctx); n != 0 {
		t.Errorf("second PruneOnce = %d, want 0", n)
	}
}

func TestPruner_StartStop(t *testing.T) {
	p := NewPruner(newTestStore(t), time.Hour, 10*time.Millisecond, zap.NewNop())

	p.Start(context.Background())
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
