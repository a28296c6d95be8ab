package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"podseek/internal"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the podcast",
	Long: `Answer a free-form question using the transcript archive.

The question is matched against the search index, and the best transcript
fragments together with the full episode list are sent to OpenAI as
context. The matched episodes are printed as sources.`,
	Example: `  # Ask about a topic
  podseek ask "what did they say about burnout?"

  # Use a specific OpenAI model
  podseek ask "which episodes mention Rust?" --model gpt-4o`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a key the answer degrades to a fixed message, with the
		// matched sources still printed.
		if config.OpenAIAPIKey != "" {
			if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
				return err
			}
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		question := strings.Join(args, " ")
		answer := app.RAG.Answer(cmd.Context(), question)

		if isatty.IsTerminal(os.Stdout.Fd()) {
			rendered, err := internal.RenderMarkdown(answer.Text)
			if err == nil {
				fmt.Print(rendered)
			} else {
				fmt.Println(answer.Text)
			}
		} else {
			fmt.Println(answer.Text)
		}

		if len(answer.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, src := range answer.Sources {
				if src.URL != "" {
					fmt.Printf("- %s (%s)\n", src.Title, src.URL)
				} else {
					fmt.Printf("- %s\n", src.Title)
				}
			}
		}

		return nil
	},
}

func init() {
	internal.AddOpenAIFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
