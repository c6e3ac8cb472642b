// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstsource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/gogpu/gg-video/producer"
)

const videoSinkName = "ggvideo_sink"

var initOnce sync.Once

// Source is a playing GStreamer pipeline. It implements producer.Source and
// producer.Sizer.
type Source struct {
	uri      string
	cfg      config
	log      *slog.Logger
	pipeline *gst.Pipeline
	video    *app.Sink
	text     *app.Sink

	width, height int
	duration      time.Duration

	events  chan producer.SourceEvent
	stop    chan struct{}
	busDone chan struct{}
	closed  atomic.Bool

	// scratch holds repacked frames; a frame is released before the next
	// pull, so one buffer is enough.
	scratch []byte
}

var (
	_ producer.Source = (*Source)(nil)
	_ producer.Sizer  = (*Source)(nil)
)

// Open builds the pipeline for uri, starts playback and waits until the
// video size is known.
func Open(ctx context.Context, uri string, opts ...Option) (*Source, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	initOnce.Do(func() { gst.Init(nil) })

	launch := fmt.Sprintf(
		"playbin uri=%q video-sink=\"videoscale ! videoconvert ! appsink name=%s caps=video/x-raw,format=NV12,pixel-aspect-ratio=1/1\"",
		uri, videoSinkName)
	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("gstsource: create pipeline: %w", err)
	}

	elem, err := pipeline.GetElementByName(videoSinkName)
	if err != nil {
		return nil, fmt.Errorf("gstsource: find video sink: %w", err)
	}
	video := app.SinkFromElement(elem)
	video.SetDrop(true)
	video.SetMaxBuffers(uint(cfg.maxBuffers))
	video.SetProperty("enable-last-sample", false)

	s := &Source{
		uri:      uri,
		cfg:      cfg,
		log:      cfg.logger.With("uri", uri),
		pipeline: pipeline,
		video:    video,
		events:   make(chan producer.SourceEvent, 2),
		stop:     make(chan struct{}),
		busDone:  make(chan struct{}),
	}

	if cfg.subtitles {
		text, err := app.NewAppSink()
		if err != nil {
			return nil, fmt.Errorf("gstsource: create text sink: %w", err)
		}
		text.SetCaps(gst.NewCapsFromString("text/x-raw,format=utf8"))
		text.SetDrop(true)
		text.SetMaxBuffers(1)
		text.SetProperty("enable-last-sample", false)
		text.SetProperty("sync", false)
		if err := pipeline.SetProperty("text-sink", text.Element); err != nil {
			return nil, fmt.Errorf("gstsource: attach text sink: %w", err)
		}
		s.text = text
	}

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return nil, &StateChangeError{URI: uri, State: "playing", Err: err}
	}

	if err := s.negotiate(ctx); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return nil, err
	}
	if ok, d := pipeline.QueryDuration(gst.FormatTime); ok && d > 0 {
		s.duration = time.Duration(d)
	}

	go s.watchBus()

	s.log.Info("gstsource: opened", "width", s.width, "height", s.height, "duration", s.duration)
	return s, nil
}

// negotiate waits for the video sink's caps.
func (s *Source) negotiate(ctx context.Context) error {
	deadline := time.Now().Add(s.cfg.openTimeout)
	pad := s.video.GetStaticPad("sink")
	if pad == nil {
		return ErrNoCaps
	}
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w, h, ok := capsSize(pad.GetCurrentCaps()); ok {
			s.width, s.height = w, h
			return nil
		}

		msg := s.pipeline.GetPipelineBus().TimedPop(s.cfg.busPoll)
		if msg == nil {
			continue
		}
		if msg.Type() == gst.MessageError {
			return busError(msg)
		}
	}
	return ErrNoCaps
}

func capsSize(caps *gst.Caps) (int, int, bool) {
	if caps == nil || caps.GetSize() == 0 {
		return 0, 0, false
	}
	st := caps.GetStructureAt(0)
	if st == nil {
		return 0, 0, false
	}
	var w, h int
	if v, err := st.GetValue("width"); err == nil {
		w, _ = v.(int)
	}
	if v, err := st.GetValue("height"); err == nil {
		h, _ = v.(int)
	}
	return w, h, w > 0 && h > 0
}

func busError(msg *gst.Message) error {
	gerr := msg.ParseError()
	return &producer.PipelineError{
		Element: msg.Source(),
		Message: gerr.Error(),
		Debug:   gerr.DebugString(),
	}
}

// watchBus forwards end-of-stream and error messages until Close.
func (s *Source) watchBus() {
	defer close(s.busDone)
	bus := s.pipeline.GetPipelineBus()
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		msg := bus.TimedPop(s.cfg.busPoll)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			s.log.Info("gstsource: end of stream")
			s.post(producer.SourceEvent{Kind: producer.SourceEndOfStream})
			return
		case gst.MessageError:
			err := busError(msg)
			s.log.Error("gstsource: pipeline error", "err", err)
			s.post(producer.SourceEvent{Kind: producer.SourceError, Err: err})
			return
		case gst.MessageWarning:
			s.log.Warn("gstsource: pipeline warning", "source", msg.Source(), "warning", msg.ParseWarning().Error())
		case gst.MessageStateChanged:
			if msg.Source() == s.pipeline.GetName() {
				old, cur := msg.ParseStateChanged()
				s.log.Debug("gstsource: state changed", "from", old, "to", cur)
			}
		}
	}
}

func (s *Source) post(ev producer.SourceEvent) {
	select {
	case s.events <- ev:
	case <-s.stop:
	}
}

// TryPullFrame implements producer.Source. Blocking pulls read the preroll
// buffer, which is available before the pipeline reaches playing.
func (s *Source) TryPullFrame(ctx context.Context, blocking bool, timeout time.Duration) (*producer.RawFrame, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sample *gst.Sample
	if blocking {
		sample = s.video.TryPullPreroll(timeout)
	} else {
		sample = s.video.TryPullSample(timeout)
	}
	if sample == nil {
		return nil, nil
	}
	return s.frame(sample)
}

func (s *Source) frame(sample *gst.Sample) (*producer.RawFrame, error) {
	buf := sample.GetBuffer()
	if buf == nil {
		return nil, fmt.Errorf("gstsource: sample without buffer")
	}
	w, h, ok := capsSize(sample.GetCaps())
	if !ok {
		w, h = s.width, s.height
	}

	info := buf.Map(gst.MapRead)
	data := info.Bytes()
	if len(data) == 0 {
		buf.Unmap()
		return nil, fmt.Errorf("gstsource: empty buffer")
	}

	f := &producer.RawFrame{
		Width:    w,
		Height:   h,
		PTS:      clockTime(buf.PresentationTimestamp()),
		Duration: clockTime(buf.Duration()),
	}
	packed, err := packNV12(s.scratch, data, w, h)
	switch {
	case err != nil:
		buf.Unmap()
		return nil, fmt.Errorf("gstsource: frame %dx%d, %d bytes: %w", w, h, len(data), err)
	case len(packed) > 0 && &packed[0] == &data[0]:
		f.Data = data
		f.Release = buf.Unmap
	default:
		s.scratch = packed
		f.Data = packed
		buf.Unmap()
	}
	return f, nil
}

// clockTime maps an unset GStreamer time to zero.
func clockTime[T ~int64 | ~uint64](v T) time.Duration {
	d := time.Duration(v)
	if d < 0 {
		return 0
	}
	return d
}

// TryPullSubtitle implements producer.Source.
func (s *Source) TryPullSubtitle() (*producer.SubtitleSample, bool) {
	if s.text == nil || s.closed.Load() {
		return nil, false
	}
	sample := s.text.TryPullSample(0)
	if sample == nil {
		return nil, false
	}
	buf := sample.GetBuffer()
	if buf == nil {
		return nil, false
	}
	info := buf.Map(gst.MapRead)
	text := string(info.Bytes())
	buf.Unmap()

	return &producer.SubtitleSample{
		Text:     text,
		PTS:      clockTime(buf.PresentationTimestamp()),
		Duration: clockTime(buf.Duration()),
	}, true
}

// PlaybackTime implements producer.Source.
func (s *Source) PlaybackTime() time.Duration {
	if s.closed.Load() {
		return 0
	}
	if ok, pos := s.pipeline.QueryPosition(gst.FormatTime); ok && pos > 0 {
		return time.Duration(pos)
	}
	return 0
}

// Events implements producer.Source.
func (s *Source) Events() <-chan producer.SourceEvent {
	return s.events
}

// Started implements producer.Source.
func (s *Source) Started() bool {
	return s.pipeline.GetCurrentState() == gst.StatePlaying
}

// VideoSize implements producer.Sizer.
func (s *Source) VideoSize() (int, int, bool) {
	return s.width, s.height, s.width > 0 && s.height > 0
}

// Duration returns the stream duration, or 0 if it is unknown.
func (s *Source) Duration() time.Duration {
	return s.duration
}

// URI returns the media URI.
func (s *Source) URI() string {
	return s.uri
}

// Close stops the pipeline. Close is idempotent.
func (s *Source) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.stop)
	<-s.busDone
	if err := s.pipeline.SetState(gst.StateNull); err != nil {
		return &StateChangeError{URI: s.uri, State: "null", Err: err}
	}
	s.log.Debug("gstsource: closed")
	return nil
}
