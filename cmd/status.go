package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"podseek/internal"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last sync run",
	Example: `  # Show when the last sync ran and what it did
  podseek status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := internal.LoadSyncRun(config.RunRecordPath)
		if err != nil {
			fmt.Println("No sync has completed yet. Run 'podseek sync' first.")
			return nil
		}

		fmt.Printf("Last sync: %s\n", run.LastSync.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total videos: %d\n", run.TotalVideos)
		fmt.Printf("New videos found: %d\n", run.NewVideosFound)
		fmt.Printf("Missing transcripts: %d\n", run.MissingTranscripts)
		fmt.Printf("Transcripts downloaded: %d\n", run.TranscriptsDownloaded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
