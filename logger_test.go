package ggvideo

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestNopLoggerDiscards(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("player", "x")}).(nopHandler); !ok {
		t.Error("WithAttrs() left the nop handler")
	}
	if _, ok := h.WithGroup("ggvideo").(nopHandler); !ok {
		t.Error("WithGroup() left the nop handler")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	SetLogger(custom)

	got := Logger()
	if got != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}

	// Verify output is captured.
	got.Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain 'test message', got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	// First set a real logger.
	SetLogger(slog.Default())

	// Then set nil to restore silence.
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestPlayerUsesPackageLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// A direct surface without the build tag falls back with a warning.
	p, err := New(newFakeSource(), WithDirectSurface("nonexistent", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	out := buf.String()
	if !strings.Contains(out, "player="+p.ID()) {
		t.Errorf("log output lacks player id: %s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected a fallback warning, got: %s", out)
	}
}

// lockedBuffer is a bytes.Buffer safe for concurrent handlers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPlayersLogWhileLoggerSwaps(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var out lockedBuffer
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	loggers := []*slog.Logger{
		slog.New(slog.NewTextHandler(&out, opts)),
		slog.New(slog.NewJSONHandler(&out, opts)),
	}
	SetLogger(loggers[0])

	const players = 16
	ids := make(chan string, players)
	done := make(chan struct{})

	var swaps sync.WaitGroup
	swaps.Add(1)
	go func() {
		defer swaps.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
				SetLogger(loggers[i%len(loggers)])
			}
		}
	}()

	var wg sync.WaitGroup
	for range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := New(newFakeSource())
			if err != nil {
				t.Error(err)
				return
			}
			if err := p.Start(context.Background()); err != nil {
				t.Error(err)
			}
			if err := p.Close(); err != nil {
				t.Error(err)
			}
			ids <- p.ID()
		}()
	}
	wg.Wait()
	close(done)
	swaps.Wait()
	close(ids)

	logged := out.String()
	for id := range ids {
		if !strings.Contains(logged, id) {
			t.Errorf("no log line for player %s", id)
		}
	}
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("frame published", "seq", 1)
	}
}
