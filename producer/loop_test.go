// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/slot"
)

// fakeSource replays a fixed list of frames and subtitles.
type fakeSource struct {
	mu       sync.Mutex
	frames   []*RawFrame
	subs     []*SubtitleSample
	blocking []bool
	pullErr  error

	events         chan SourceEvent
	eosWhenDrained bool
	eosSent        bool
	started        atomic.Bool
}

func newFakeSource(frames ...*RawFrame) *fakeSource {
	return &fakeSource{frames: frames, events: make(chan SourceEvent, 4)}
}

func (s *fakeSource) TryPullFrame(ctx context.Context, blocking bool, timeout time.Duration) (*RawFrame, error) {
	s.mu.Lock()
	s.blocking = append(s.blocking, blocking)
	if s.pullErr != nil {
		err := s.pullErr
		s.pullErr = nil
		s.mu.Unlock()
		return nil, err
	}
	if len(s.frames) == 0 {
		if s.eosWhenDrained && !s.eosSent {
			s.eosSent = true
			s.events <- SourceEvent{Kind: SourceEndOfStream}
		}
		s.mu.Unlock()
		select {
		case <-ctx.Done():
		case <-time.After(time.Millisecond):
		}
		return nil, nil
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	s.mu.Unlock()
	s.started.Store(true)
	return f, nil
}

func (s *fakeSource) TryPullSubtitle() (*SubtitleSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return nil, false
	}
	sub := s.subs[0]
	s.subs = s.subs[1:]
	return sub, true
}

func (s *fakeSource) PlaybackTime() time.Duration { return 0 }
func (s *fakeSource) Events() <-chan SourceEvent  { return s.events }
func (s *fakeSource) Started() bool               { return s.started.Load() }

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func rawFrame(pts time.Duration, released *atomic.Int32) *RawFrame {
	return &RawFrame{
		Data:     make([]byte, convert.RequiredSize(4, 4)),
		Width:    4,
		Height:   4,
		PTS:      pts,
		Duration: 40 * time.Millisecond,
		Release: func() {
			if released != nil {
				released.Add(1)
			}
		},
	}
}

func runLoop(t *testing.T, l *Loop) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := l.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("loop did not terminate")
	}
	return err
}

func TestLoopPublishesInOrder(t *testing.T) {
	var released atomic.Int32
	src := newFakeSource(
		rawFrame(0, &released),
		rawFrame(40*time.Millisecond, &released),
		rawFrame(80*time.Millisecond, &released),
	)
	src.eosWhenDrained = true

	frames := &slot.Slot[*convert.DisplayFrame]{}
	rec := &recorder{}
	l, err := New(src, frames, nil, rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatalf("Run() = %v, want nil at end of stream", err)
	}

	f, ok := frames.Take()
	if !ok {
		t.Fatal("no frame published")
	}
	if f.Seq != 3 || f.PTS != 80*time.Millisecond {
		t.Errorf("latest frame seq=%d pts=%v, want 3, 80ms", f.Seq, f.PTS)
	}
	if got := released.Load(); got != 3 {
		t.Errorf("released %d frames, want 3", got)
	}

	want := []EventKind{EventNewFrame, EventNewFrame, EventNewFrame, EventEndOfStream}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	st := l.Stats()
	if st.FramesPublished != 3 || st.FramesDropped != 2 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestLoopEndOfStreamForwardedOnce(t *testing.T) {
	src := newFakeSource(rawFrame(0, nil), rawFrame(time.Second, nil))
	src.events <- SourceEvent{Kind: SourceEndOfStream}
	src.events <- SourceEvent{Kind: SourceEndOfStream}

	frames := &slot.Slot[*convert.DisplayFrame]{}
	rec := &recorder{}
	l, err := New(src, frames, nil, rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	if n := rec.count(EventEndOfStream); n != 1 {
		t.Errorf("EndOfStream forwarded %d times, want 1", n)
	}
	if n := rec.count(EventNewFrame); n != 0 {
		t.Errorf("%d frames published after end of stream", n)
	}
	if _, ok := frames.Peek(); ok {
		t.Error("frame slot written after end of stream")
	}
	if l.Alive() {
		t.Error("loop still alive after end of stream")
	}
}

func TestLoopPipelineError(t *testing.T) {
	src := newFakeSource()
	src.events <- SourceEvent{Kind: SourceError, Err: &PipelineError{Element: "decodebin0", Message: "no decoder"}}

	rec := &recorder{}
	l, err := New(src, nil, nil, rec)
	if err != nil {
		t.Fatal(err)
	}
	err = runLoop(t, l)
	if !errors.Is(err, ErrPipeline) {
		t.Fatalf("Run() = %v, want pipeline error", err)
	}
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Element != "decodebin0" {
		t.Errorf("Run() error = %#v", err)
	}
	if n := rec.count(EventError); n != 1 {
		t.Errorf("Error forwarded %d times, want 1", n)
	}
}

func TestLoopWrapsPlainErrors(t *testing.T) {
	cause := errors.New("device lost")
	src := newFakeSource()
	src.events <- SourceEvent{Kind: SourceError, Err: cause}

	l, err := New(src, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = runLoop(t, l)
	if !errors.Is(err, cause) || !errors.Is(err, ErrPipeline) {
		t.Errorf("Run() = %v, want wrapped %v", err, cause)
	}
}

func TestLoopClosedEventsIsEndOfStream(t *testing.T) {
	src := newFakeSource()
	close(src.events)
	rec := &recorder{}
	l, err := New(src, nil, nil, rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}
	if n := rec.count(EventEndOfStream); n != 1 {
		t.Errorf("EndOfStream forwarded %d times, want 1", n)
	}
}

func TestLoopSkipsBadFrames(t *testing.T) {
	var released atomic.Int32
	bad := rawFrame(0, &released)
	bad.Data = bad.Data[:10]
	empty := rawFrame(10*time.Millisecond, &released)
	empty.Width, empty.Height = 0, 0

	src := newFakeSource(bad, empty, rawFrame(40*time.Millisecond, &released))
	src.pullErr = errors.New("flow error")
	src.eosWhenDrained = true

	l, err := New(src, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	st := l.Stats()
	if st.ConversionErrors != 1 || st.EmptyFrames != 1 || st.PullErrors != 1 || st.FramesPublished != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if got := released.Load(); got != 3 {
		t.Errorf("released %d frames, want 3 (also on error)", got)
	}
	f, ok := l.Frames().Take()
	if !ok || f.Seq != 1 {
		t.Errorf("Take() = %v, %v", f, ok)
	}
}

func TestLoopPreroll(t *testing.T) {
	src := newFakeSource(rawFrame(0, nil), rawFrame(40*time.Millisecond, nil))
	src.eosWhenDrained = true

	l, err := New(src, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.blocking) < 2 {
		t.Fatalf("only %d pulls", len(src.blocking))
	}
	if !src.blocking[0] {
		t.Error("first pull was not a preroll pull")
	}
	for i, b := range src.blocking[1:] {
		if b {
			t.Errorf("pull %d blocking after playback started", i+1)
		}
	}
}

func TestLoopPlayingSourceSkipsPreroll(t *testing.T) {
	bad := rawFrame(0, nil)
	bad.Data = bad.Data[:3]
	src := newFakeSource(bad, rawFrame(40*time.Millisecond, nil))
	src.eosWhenDrained = true
	src.started.Store(true)

	l, err := New(src, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	f, ok := l.Frames().Take()
	if !ok || f.PTS != 40*time.Millisecond {
		t.Fatalf("Take() = %v, %v, want the frame after the failed one", f, ok)
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	for i, b := range src.blocking {
		if b {
			t.Errorf("pull %d used preroll on a playing source", i)
		}
	}
}

func TestLoopSubtitles(t *testing.T) {
	const ms = time.Millisecond
	src := newFakeSource(
		rawFrame(0, nil),
		rawFrame(40*ms, nil),
		rawFrame(80*ms, nil),
		rawFrame(120*ms, nil),
	)
	src.subs = []*SubtitleSample{
		{Text: "cafe\u0301\x00", PTS: 0, Duration: 80 * ms},
		{Text: "far away", PTS: 10 * time.Second, Duration: time.Second},
	}
	src.eosWhenDrained = true

	subs := &slot.Slot[SubtitleText]{}
	rec := &recorder{}
	l, err := New(src, nil, subs, rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	var texts []*string
	rec.mu.Lock()
	for _, e := range rec.events {
		if e.Kind == EventSubtitle {
			texts = append(texts, e.Text)
		}
	}
	rec.mu.Unlock()

	if len(texts) != 2 {
		t.Fatalf("got %d subtitle events, want show + clear", len(texts))
	}
	if texts[0] == nil || *texts[0] != "caf\u00e9" {
		t.Errorf("first subtitle = %v, want composed form", texts[0])
	}
	if texts[1] != nil {
		t.Errorf("second subtitle = %q, want cleared", *texts[1])
	}

	cur, ok := subs.Peek()
	if !ok || cur.Text != nil || cur.PTS != 80*ms {
		t.Errorf("subtitle slot = %+v, %v; want cleared at 80ms", cur, ok)
	}
	if got := l.Stats().SubtitleUpdates; got != 2 {
		t.Errorf("SubtitleUpdates = %d, want 2", got)
	}
}

func TestLoopStop(t *testing.T) {
	frames := make([]*RawFrame, 1000)
	for i := range frames {
		frames[i] = rawFrame(time.Duration(i)*time.Millisecond, nil)
	}
	src := newFakeSource(frames...)
	rec := &recorder{}
	fs := &slot.Slot[*convert.DisplayFrame]{}
	l, err := New(src, fs, nil, rec)
	if err != nil {
		t.Fatal(err)
	}

	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()

	select {
	case <-fs.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("no frame published")
	}
	l.Stop()
	atStop := rec.count(EventNewFrame)

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Stop", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	<-l.Done()

	if got := rec.count(EventNewFrame); got != atStop {
		t.Errorf("%d frames published after Stop", got-atStop)
	}
	if err := l.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestLoopContextCancel(t *testing.T) {
	src := newFakeSource()
	l, err := New(src, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if l.Alive() {
		t.Error("loop alive after cancellation")
	}
}

func TestNewNilSource(t *testing.T) {
	if _, err := New(nil, nil, nil, nil); !errors.Is(err, ErrNilSource) {
		t.Errorf("New(nil) = %v, want ErrNilSource", err)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"e\u0301", "\u00e9"},
		{"line\x00\x00", "line"},
		{"bad\xffbyte", "bad\uFFFDbyte"},
	}
	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPipelineErrorMessage(t *testing.T) {
	err := &PipelineError{Element: "src", Message: "not found", Debug: "gstfilesrc.c:123"}
	want := "producer: pipeline error: src: not found (gstfilesrc.c:123)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLoopNV12Passthrough(t *testing.T) {
	var released atomic.Int32
	src := newFakeSource(rawFrame(0, &released), rawFrame(40*time.Millisecond, &released))
	src.eosWhenDrained = true

	frames := &slot.Slot[*convert.DisplayFrame]{}
	planes := &slot.Slot[*convert.NV12Frame]{}
	l, err := New(src, frames, nil, nil, WithNV12Slot(planes))
	if err != nil {
		t.Fatal(err)
	}
	if err := runLoop(t, l); err != nil {
		t.Fatal(err)
	}

	f, ok := planes.Take()
	if !ok || f.Seq != 2 || f.PTS != 40*time.Millisecond {
		t.Fatalf("NV12 slot = %+v, %v", f, ok)
	}
	if len(f.Data) != convert.RequiredSize(4, 4) {
		t.Errorf("len(Data) = %d", len(f.Data))
	}
	if _, ok := frames.Peek(); ok {
		t.Error("RGBA slot written in passthrough mode")
	}
	if released.Load() != 2 {
		t.Errorf("released %d, want 2", released.Load())
	}
}
