package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"podseek/internal"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize transcripts with the playlist",
	Long: `Refresh the episode catalog from the configured playlist, download
captions for episodes that have no transcript yet, and update the
full-text search index.

The run is incremental: transcripts that already exist on disk are never
downloaded again, and a failed episode is retried on the next run. Only
one sync runs at a time; concurrent invocations exit without doing work.`,
	Example: `  # Run one sync cycle
  podseek sync

  # Sync without the progress bar
  podseek sync --quiet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.PlaylistURL == "" {
			return fmt.Errorf("playlist_url is not configured - set it in config.toml or PODSEEK_PLAYLIST_URL")
		}

		internal.EnsureYTDLP(cmd.Context())

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		app.Syncer.OnProgress = internal.NewSyncProgress("Downloading transcripts", config.Quiet)

		run, err := app.Syncer.Run(cmd.Context())
		switch {
		case errors.Is(err, internal.ErrSyncInProgress):
			fmt.Println("Another sync is already running, nothing to do.")
			return nil
		case errors.Is(err, internal.ErrEmptyListing):
			return fmt.Errorf("the playlist returned no videos, keeping previous state")
		case err != nil:
			return err
		}

		fmt.Printf("Sync complete: %d videos, %d new, %d missing transcripts, %d downloaded\n",
			run.TotalVideos, run.NewVideosFound, run.MissingTranscripts, run.TranscriptsDownloaded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
