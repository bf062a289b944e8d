package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/enricher"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
	"github.com/nguyentantai21042004/echoflow/internal/processor"
	"github.com/nguyentantai21042004/echoflow/internal/watcher"
)

type recorder struct {
	events []string
}

type fakeWatcher struct {
	rec     *recorder
	batches [][]watcher.File
	scanErr error
	waits   int
	cancel  context.CancelFunc
}

func (w *fakeWatcher) Scan(ctx context.Context) ([]watcher.File, error) {
	w.rec.events = append(w.rec.events, "scan")
	if w.scanErr != nil {
		return nil, w.scanErr
	}
	if len(w.batches) == 0 {
		return nil, nil
	}
	b := w.batches[0]
	w.batches = w.batches[1:]
	return b, nil
}

func (w *fakeWatcher) MarkDone(path string) {
	w.rec.events = append(w.rec.events, "done "+path)
}

func (w *fakeWatcher) Wait(ctx context.Context, interval time.Duration) error {
	w.waits++
	if w.waits >= 2 && w.cancel != nil {
		w.cancel()
	}
	return ctx.Err()
}

func (w *fakeWatcher) Stop() error { return nil }

type fakeProcessor struct {
	rec *recorder
}

func (p *fakeProcessor) Process(ctx context.Context, path string) processor.Session {
	p.rec.events = append(p.rec.events, "process "+path)
	return processor.Session{ID: "id", Source: path, Outcome: processor.OutcomeSuccess}
}

type fakeEnricher struct {
	rec     *recorder
	aborted bool
}

func (e *fakeEnricher) CheckNote(ctx context.Context, path string) enricher.Result {
	return enricher.Result{}
}

func (e *fakeEnricher) Sweep(ctx context.Context) enricher.SweepReport {
	e.rec.events = append(e.rec.events, "sweep")
	return enricher.SweepReport{Aborted: e.aborted}
}

func newTestService(t *testing.T, w *fakeWatcher, e enricher.Enricher, rec *recorder, sweep time.Duration) *implService {
	t.Helper()
	cfg := &config.Config{
		Watch:      config.WatchConfig{Interval: time.Second},
		Enrichment: config.EnrichmentConfig{Interval: sweep},
	}
	return New(cfg, w, &fakeProcessor{rec: rec}, e, logger.Nop()).(*implService)
}

func TestCycleOrder(t *testing.T) {
	rec := &recorder{}
	w := &fakeWatcher{rec: rec, batches: [][]watcher.File{{{Path: "/in/a.wav"}, {Path: "/in/b.pdf"}}}}
	s := newTestService(t, w, &fakeEnricher{rec: rec}, rec, 10*time.Minute)

	require.NoError(t, s.cycle(context.Background()))

	assert.Equal(t, []string{
		"sweep",
		"scan",
		"process /in/a.wav",
		"done /in/a.wav",
		"process /in/b.pdf",
		"done /in/b.pdf",
	}, rec.events)
}

func TestSweepInterval(t *testing.T) {
	rec := &recorder{}
	w := &fakeWatcher{rec: rec}
	s := newTestService(t, w, &fakeEnricher{rec: rec}, rec, 10*time.Minute)

	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.cycle(ctx))
	now = now.Add(5 * time.Minute)
	require.NoError(t, s.cycle(ctx))
	now = now.Add(5 * time.Minute)
	require.NoError(t, s.cycle(ctx))

	assert.Equal(t, []string{"sweep", "scan", "scan", "sweep", "scan"}, rec.events)
}

func TestSweepDisabled(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		enabled  bool
		nilEnr   bool
	}{
		{name: "zero interval", interval: 0, enabled: true},
		{name: "disabled", interval: time.Minute, enabled: false},
		{name: "no enricher", interval: time.Minute, enabled: true, nilEnr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			enabled := tt.enabled
			cfg := &config.Config{
				Watch:      config.WatchConfig{Interval: time.Second},
				Enrichment: config.EnrichmentConfig{Interval: tt.interval, Enabled: &enabled},
			}
			var e enricher.Enricher = &fakeEnricher{rec: rec}
			if tt.nilEnr {
				e = nil
			}
			s := New(cfg, &fakeWatcher{rec: rec}, &fakeProcessor{rec: rec}, e, logger.Nop()).(*implService)

			require.NoError(t, s.cycle(context.Background()))
			assert.Equal(t, []string{"scan"}, rec.events)
		})
	}
}

func TestCycleScanErrorContinues(t *testing.T) {
	rec := &recorder{}
	w := &fakeWatcher{rec: rec, scanErr: errors.New("input dir vanished")}
	s := newTestService(t, w, nil, rec, 0)

	assert.NoError(t, s.cycle(context.Background()))
	assert.Equal(t, []string{"scan"}, rec.events)
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &fakeWatcher{
		rec:     rec,
		batches: [][]watcher.File{{{Path: "/in/a.wav"}}, {{Path: "/in/b.wav"}}},
		cancel:  cancel,
	}
	s := newTestService(t, w, nil, rec, 0)

	err := s.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{
		"scan", "process /in/a.wav", "done /in/a.wav",
		"scan", "process /in/b.wav", "done /in/b.wav",
	}, rec.events)
}
