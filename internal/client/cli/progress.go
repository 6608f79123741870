package cli

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
)

// progressView renders transfer progress as a single bar on w.
type progressView struct {
	bar *progressbar.ProgressBar
}

func newProgressView(w io.Writer) *progressView {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Waiting"),
	)
	return &progressView{bar: bar}
}

// update is a transfer.ProgressFunc.
func (p *progressView) update(pr transfer.Progress) {
	p.bar.Describe(pr.Status())
	_ = p.bar.Set(pr.BatchPercent)
}

func (p *progressView) done() {
	_ = p.bar.Clear()
	_ = p.bar.Finish()
}
