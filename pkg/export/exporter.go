// Package export turns a preview surface into a downloadable PNG.
//
// Export is best effort: failures are logged once and never returned to the
// caller, which only learns what happened through the Outcome.
package export

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xob0t/bggen/pkg/preview"
)

// Filename is the name every export is saved under.
const Filename = "background.png"

// Status describes how an export ended.
type Status int

const (
	// Skipped means the surface was not available; nothing was attempted.
	Skipped Status = iota
	// Downloaded means the PNG was handed to the Downloader.
	Downloaded
	// Failed means capture, encoding or delivery failed and was logged.
	Failed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Downloaded:
		return "downloaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the single result of an export.
type Outcome struct {
	Status   Status
	Filename string
}

// Exporter captures surfaces and delivers them through a Downloader.
type Exporter struct {
	downloader Downloader
	log        zerolog.Logger
	onDone     func(Outcome)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the diagnostic logger. Default is zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithOutcomeHook registers fn to observe every finished export.
func WithOutcomeHook(fn func(Outcome)) Option {
	return func(e *Exporter) { e.onDone = fn }
}

// NewExporter creates an exporter delivering to d.
func NewExporter(d Downloader, opts ...Option) *Exporter {
	e := &Exporter{downloader: d, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export captures s and downloads it as Filename. It never panics on a missing
// surface and never returns an error; see Outcome.
func (e *Exporter) Export(ctx context.Context, s preview.Surface) Outcome {
	out := e.export(ctx, s)
	if e.onDone != nil {
		e.onDone(out)
	}
	return out
}

// Go runs Export in its own goroutine. The channel receives exactly one
// Outcome and is then closed. Overlapping calls are allowed: capture only
// reads the surface.
func (e *Exporter) Go(ctx context.Context, s preview.Surface) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- e.Export(ctx, s)
	}()
	return ch
}

func (e *Exporter) export(ctx context.Context, s preview.Surface) Outcome {
	if !preview.Available(s) {
		return Outcome{Status: Skipped}
	}

	img, err := s.Capture(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("error saving image")
		return Outcome{Status: Failed}
	}

	uri, err := EncodeDataURI(img)
	if err != nil {
		e.log.Error().Err(err).Msg("error encoding image")
		return Outcome{Status: Failed}
	}

	if err := e.downloader.Download(ctx, Filename, uri); err != nil {
		e.log.Error().Err(err).Str("file", Filename).Msg("error downloading image")
		return Outcome{Status: Failed}
	}

	e.log.Debug().Str("file", Filename).Msg("image saved")
	return Outcome{Status: Downloaded, Filename: Filename}
}
