package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"podseek/internal"
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run sync on a schedule",
	Long: `Run podseek in the foreground, synchronizing transcripts immediately and
then every sync_interval (default 6h) until interrupted.

Progress bars are disabled; all output goes to the structured log.`,
	Example: `  # Run the sync daemon with the configured interval
  podseek daemon

  # Override the interval
  podseek daemon --interval 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.PlaylistURL == "" {
			return fmt.Errorf("playlist_url is not configured - set it in config.toml or PODSEEK_PLAYLIST_URL")
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			interval = config.SyncInterval
		}

		internal.EnsureYTDLP(cmd.Context())

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		app.Logger.Info("daemon started", "interval", interval)
		runOnce(cmd.Context(), app)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-cmd.Context().Done():
				app.Logger.Info("daemon stopping")
				return nil
			case <-ticker.C:
				runOnce(cmd.Context(), app)
			}
		}
	},
}

// runOnce executes a single sync cycle, treating the no-op sentinels as
// ordinary outcomes so the daemon keeps running.
func runOnce(ctx context.Context, app *internal.App) {
	_, err := app.Syncer.Run(ctx)
	if err != nil && !errors.Is(err, internal.ErrSyncInProgress) && !errors.Is(err, internal.ErrEmptyListing) {
		app.Logger.Error("sync cycle failed", "error", err)
	}
}

func init() {
	daemonCmd.Flags().Duration("interval", 0, "Override the sync interval from config")
	rootCmd.AddCommand(daemonCmd)
}
