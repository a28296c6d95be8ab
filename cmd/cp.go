package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"podseek/internal"
)

// cpCmd represents the cp command
var cpCmd = &cobra.Command{
	Use:   "cp [terms]",
	Short: "Copy the best-matching transcript to the clipboard",
	Long: `Search the index and copy the full transcript of the top match to the
system clipboard, for pasting into an editor or another tool.`,
	Example: `  # Copy the transcript of the episode best matching the query
  podseek cp "interview with the compiler team"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		query := strings.Join(args, " ")
		results := app.Index.Search(cmd.Context(), query, 1)
		if len(results) == 0 {
			return fmt.Errorf("no transcript matches %q", query)
		}

		content, err := app.Store.Read(results[0].Filename)
		if err != nil {
			return fmt.Errorf("reading transcript: %w", err)
		}

		if err := clipboard.WriteAll(content); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		fmt.Printf("Copied transcript of %q to clipboard (%d characters)\n", results[0].Title, len(content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
