// Command ggvideo plays a media URI headlessly, logging subtitles and
// pipeline events and optionally writing PNG snapshots of the video.
//
// Usage:
//
//	ggvideo --uri file:///tmp/clip.mp4 --snapshot-dir /tmp/frames --snapshot-every 25
//	GGVIDEO_METRICS_ENABLED=true ggvideo -c ggvideo.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ggvideo "github.com/gogpu/gg-video"
	"github.com/gogpu/gg-video/gstsource"
	"github.com/gogpu/gg-video/layout"
	"github.com/gogpu/gg-video/metrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ggvideo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := Load(NewFlagSet(), args)
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	log = log.With("version", ggvideo.Version)
	ggvideo.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics, reg, log)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	src, err := gstsource.Open(ctx, cfg.URI,
		gstsource.WithSubtitles(cfg.Playback.Subtitles),
		gstsource.WithMaxBuffers(cfg.Playback.MaxBuffers),
		gstsource.WithOpenTimeout(cfg.Playback.OpenTimeout),
		gstsource.WithLogger(log))
	if err != nil {
		return err
	}
	defer src.Close()

	rng, _ := cfg.Playback.Range()
	p, err := ggvideo.New(src,
		ggvideo.WithWorkers(cfg.Playback.Workers),
		ggvideo.WithColorRange(rng),
		ggvideo.WithPollInterval(cfg.Playback.PollInterval),
		ggvideo.WithMetrics(m))
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Start(ctx); err != nil {
		return err
	}
	log.Info("ggvideo: playing", "uri", cfg.URI, "duration", src.Duration(), "player", p.ID())
	return play(ctx, p, cfg.Snapshot, log)
}

func serveMetrics(cfg MetricsConfig, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ggvideo: metrics server", "err", err)
		}
	}()
	log.Info("ggvideo: serving metrics", "addr", cfg.Addr, "path", cfg.Path)
	return srv
}

// play runs the event loop until end of stream, a pipeline error or ctx
// cancellation.
func play(ctx context.Context, p *ggvideo.Player, snap SnapshotConfig, log *slog.Logger) error {
	fit, _ := layout.ParseContentFit(snap.Fit)
	var lastSnap uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("ggvideo: interrupted", "stats", p.Stats())
			return nil
		case <-p.Wake():
		}

		for _, ev := range p.PollEvents() {
			switch ev.Kind {
			case ggvideo.EventNewFrame:
				published := p.Stats().Producer.FramesPublished
				if snap.Dir == "" || (lastSnap != 0 && published-lastSnap < uint64(snap.Every)) {
					continue
				}
				lastSnap = published
				if err := snapshot(p, snap, fit, published); err != nil {
					log.Warn("ggvideo: snapshot failed", "err", err)
				}
			case ggvideo.EventSubtitleText:
				if ev.Text == nil {
					log.Info("ggvideo: subtitle cleared", "at", p.PlaybackTime())
				} else {
					log.Info("ggvideo: subtitle", "text", *ev.Text, "at", p.PlaybackTime())
				}
			case ggvideo.EventError:
				return fmt.Errorf("playback failed: %s", ev.Message)
			case ggvideo.EventEndOfStream:
				log.Info("ggvideo: end of stream", "stats", p.Stats())
				return nil
			}
		}
	}
}

func snapshot(p *ggvideo.Player, snap SnapshotConfig, fit layout.ContentFit, n uint64) error {
	pix, w, h, ok := p.LatestDisplayFrame()
	if !ok {
		return nil
	}
	img := renderSnapshot(pix, w, h, snap.Width, snap.Height, fit)
	return writePNG(filepath.Join(snap.Dir, fmt.Sprintf("frame-%06d.png", n)), img)
}
