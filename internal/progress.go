package internal

import (
	"github.com/schollz/progressbar/v3"
)

// NewSyncProgress returns a ProgressFunc rendering a terminal progress bar
// for the transcript download phase, or a no-op when quiet. The bar is
// created lazily on the first callback because the total is only known once
// the gaps have been detected.
func NewSyncProgress(description string, quiet bool) ProgressFunc {
	if quiet {
		return func(done, total int) {}
	}

	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if total == 0 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}))
		}
		_ = bar.Set(done)
		if done >= total {
			_ = bar.Finish()
		}
	}
}
