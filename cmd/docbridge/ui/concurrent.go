package ui

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// BatchProgress renders progress for a concurrent batch, where outcomes
// arrive in completion order from many workers at once.
type BatchProgress struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewBatchProgress creates a multi-worker progress display for total documents.
func NewBatchProgress(name string, total int64) *BatchProgress {
	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DSyncSpaceR}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 12}),
				" done",
			),
		),
	)
	return &BatchProgress{progress: progress, bar: bar}
}

// Increment records one completed document. Safe to call from any worker.
func (p *BatchProgress) Increment() {
	p.bar.Increment()
}

// Wait blocks until the bar has rendered its final state.
func (p *BatchProgress) Wait() {
	p.progress.Wait()
}
