// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package producer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/slot"
)

const (
	defaultLogRate  = 1.0
	defaultLogBurst = 5
)

// Loop is the producer side of the frame pipeline.
//
// Create a Loop with New, run it on its own goroutine with Run, and stop it
// with Stop or by cancelling the context passed to Run. A Loop runs once.
type Loop struct {
	src    Source
	frames *slot.Slot[*convert.DisplayFrame]
	nv12   *slot.Slot[*convert.NV12Frame]
	subs   *slot.Slot[SubtitleText]
	sink   EventSink

	conv *convert.Converter
	poll time.Duration
	log  *slog.Logger
	obs  Observer

	logRate    float64
	logBurst   int
	limiter    *rate.Limiter
	suppressed uint64 // since the last emitted error log, loop goroutine only

	// pubMu orders publishing against Stop so that nothing is published
	// once alive is false.
	pubMu sync.Mutex
	alive atomic.Bool
	seq   uint64

	started  atomic.Bool
	finished atomic.Bool
	done     chan struct{}

	clearAt      time.Duration
	clearPending bool

	stats counters
}

// New creates a Loop reading from src.
//
// Frames are published into frames and subtitles into subtitles; either slot
// may be nil, in which case the loop allocates a frame slot of its own and
// skips subtitle handling. sink receives events and may be nil.
func New(src Source, frames *slot.Slot[*convert.DisplayFrame], subtitles *slot.Slot[SubtitleText], sink EventSink, opts ...Option) (*Loop, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if frames == nil {
		frames = &slot.Slot[*convert.DisplayFrame]{}
	}
	if sink == nil {
		sink = EventSinkFunc(func(Event) {})
	}

	l := &Loop{
		src:      src,
		frames:   frames,
		subs:     subtitles,
		sink:     sink,
		conv:     convert.New(),
		poll:     DefaultPollInterval,
		log:      slog.New(slog.DiscardHandler),
		logRate:  defaultLogRate,
		logBurst: defaultLogBurst,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.limiter = rate.NewLimiter(rate.Limit(l.logRate), l.logBurst)
	l.alive.Store(true)
	return l, nil
}

// Frames returns the slot frames are published into.
func (l *Loop) Frames() *slot.Slot[*convert.DisplayFrame] {
	return l.frames
}

// Alive reports whether the loop may still publish frames.
func (l *Loop) Alive() bool {
	return l.alive.Load()
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Stop clears the alive flag. No frame is published after Stop returns.
// The loop exits at its next iteration boundary, at most one poll interval
// later. Stop does not wait; use Done for that.
func (l *Loop) Stop() {
	l.pubMu.Lock()
	l.alive.Store(false)
	l.pubMu.Unlock()
}

// Run pulls and publishes frames until Stop is called, ctx is cancelled or
// the source reports end of stream or an error.
//
// It returns nil after Stop or end of stream, ctx.Err() after cancellation
// and a *PipelineError when the source failed.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(l.done)

	l.log.Debug("producer: loop started", "poll", l.poll, "workers", l.conv.Workers())
	defer l.log.Debug("producer: loop stopped", "published", l.stats.published.Load())

	events := l.src.Events()
	for l.alive.Load() {
		if err := ctx.Err(); err != nil {
			l.Stop()
			return err
		}

		var (
			stop bool
			err  error
		)
		events, stop, err = l.drainEvents(events)
		if stop {
			return err
		}

		l.step(ctx)
	}
	return nil
}

// drainEvents handles every pending bus message without blocking.
func (l *Loop) drainEvents(events <-chan SourceEvent) (<-chan SourceEvent, bool, error) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				stop, err := l.finish(SourceEvent{Kind: SourceEndOfStream})
				return nil, stop, err
			}
			if ev.Kind != SourceEndOfStream && ev.Kind != SourceError {
				continue
			}
			stop, err := l.finish(ev)
			return events, stop, err
		default:
			return events, false, nil
		}
	}
}

// finish forwards a terminal source event exactly once and stops the loop.
func (l *Loop) finish(ev SourceEvent) (bool, error) {
	if !l.finished.CompareAndSwap(false, true) {
		return true, nil
	}
	l.Stop()

	if ev.Kind == SourceError {
		pe := asPipelineError(ev.Err)
		l.log.Error("producer: pipeline error", "err", pe)
		l.sink.Emit(Event{Kind: EventError, Message: pe.Error()})
		return true, pe
	}

	l.log.Info("producer: end of stream", "published", l.stats.published.Load())
	l.sink.Emit(Event{Kind: EventEndOfStream})
	return true, nil
}

func (l *Loop) step(ctx context.Context) {
	blocking := !l.src.Started()

	raw, err := l.src.TryPullFrame(ctx, blocking, l.poll)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.stats.pullErrors.Add(1)
		l.observeFailure("pull")
		l.logError("producer: pull frame", err)
		return
	}
	if raw == nil {
		return
	}
	l.handleFrame(raw)
}

func (l *Loop) handleFrame(raw *RawFrame) {
	var (
		store func(seq uint64)
		empty bool
		err   error
	)

	start := time.Now()
	if l.nv12 != nil {
		var f *convert.NV12Frame
		if f, err = convert.CopyNV12(raw.Data, raw.Width, raw.Height); err == nil {
			empty = f.Empty()
			f.PTS = raw.PTS
			store = func(seq uint64) {
				f.Seq = seq
				l.nv12.Store(f)
			}
		}
	} else {
		var f *convert.DisplayFrame
		if f, err = l.conv.Convert(raw.Data, raw.Width, raw.Height); err == nil {
			empty = f.Empty()
			f.PTS = raw.PTS
			store = func(seq uint64) {
				f.Seq = seq
				l.frames.Store(f)
			}
		}
	}
	elapsed := time.Since(start)
	raw.release()

	if err != nil {
		l.stats.convErrors.Add(1)
		l.observeFailure("convert")
		l.logError("producer: convert frame", err, "pts", raw.PTS)
		return
	}
	if empty {
		l.stats.empty.Add(1)
		return
	}

	if !l.publish(store) {
		return
	}
	if l.obs != nil {
		l.obs.FramePublished(elapsed)
	}
	if l.subs != nil {
		l.updateSubtitles(raw)
	}
}

func (l *Loop) publish(store func(seq uint64)) bool {
	l.pubMu.Lock()
	defer l.pubMu.Unlock()
	if !l.alive.Load() {
		return false
	}
	l.seq++
	store(l.seq)
	l.stats.published.Add(1)
	l.sink.Emit(Event{Kind: EventNewFrame, Seq: l.seq})
	return true
}

// updateSubtitles clears an expired subtitle and shows the next queued one
// if its window overlaps the frame just published.
func (l *Loop) updateSubtitles(raw *RawFrame) {
	if l.clearPending && raw.PTS >= l.clearAt {
		l.clearPending = false
		l.setSubtitle(nil, raw.PTS)
	}

	s, ok := l.src.TryPullSubtitle()
	if !ok || s == nil {
		return
	}
	if s.End() <= raw.PTS || raw.End() <= s.PTS {
		l.log.Debug("producer: subtitle outside frame window",
			"subtitle_pts", s.PTS, "frame_pts", raw.PTS)
		return
	}

	text := normalizeText(s.Text)
	l.setSubtitle(&text, s.PTS)
	l.clearAt = s.End()
	l.clearPending = true
}

func (l *Loop) setSubtitle(text *string, pts time.Duration) {
	l.pubMu.Lock()
	defer l.pubMu.Unlock()
	if !l.alive.Load() {
		return
	}
	l.subs.Store(SubtitleText{Text: text, PTS: pts})
	l.stats.subtitles.Add(1)
	if l.obs != nil {
		l.obs.SubtitleChanged(text != nil)
	}
	l.sink.Emit(Event{Kind: EventSubtitle, Text: text})
}

// normalizeText composes subtitle text to NFC. Demuxers may leave invalid
// UTF-8 or trailing NULs in text buffers.
func normalizeText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.TrimRight(s, "\x00")
	return norm.NFC.String(s)
}

func (l *Loop) observeFailure(stage string) {
	if l.obs != nil {
		l.obs.FrameFailed(stage)
	}
}

func (l *Loop) logError(msg string, err error, args ...any) {
	if !l.limiter.Allow() {
		l.suppressed++
		l.stats.suppressed.Add(1)
		return
	}
	args = append(args, "err", err)
	if l.suppressed > 0 {
		args = append(args, "suppressed", l.suppressed)
		l.suppressed = 0
	}
	l.log.Error(msg, args...)
}
