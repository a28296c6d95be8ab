package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podseek/internal"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [terms]",
	Short: "Full-text search over transcripts",
	Long: `Search the transcript index and print ranked matches with a short
highlighted snippet.

Matches are stemmed, so "running" also finds "run". Multi-word queries
match documents containing all words.`,
	Example: `  # Search for a topic
  podseek search "machine learning"

  # Show more results
  podseek search compilers --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = config.SearchLimit
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		query := strings.Join(args, " ")
		results := app.Index.Search(cmd.Context(), query, limit)
		if len(results) == 0 {
			fmt.Println("No matches found.")
			return nil
		}

		for i, res := range results {
			fmt.Printf("%d. %s\n", i+1, res.Title)
			if res.Published != "" {
				fmt.Printf("   Published: %s\n", res.Published)
			}
			if res.URL != "" {
				fmt.Printf("   %s\n", res.URL)
			}
			fmt.Printf("   ...%s...\n\n", stripHighlight(res.Snippet))
		}
		return nil
	},
}

// stripHighlight removes the bold markers used by the web layer; the
// terminal output stays plain text.
func stripHighlight(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "Maximum number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}
