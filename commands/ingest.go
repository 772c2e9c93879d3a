package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripkit-ai/tripkit/reviews"
)

func ingestCmd() *cobra.Command {
	var maxSnippets int

	cmd := &cobra.Command{
		Use:   "ingest <url>",
		Short: "Distill a review page into snippets",
		Long: `Ingest fetches a public review page, extracts the main article,
and prints the snippets that would be attached to a stop. Useful for
checking what a review URL contributes before the planner uses it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := reviews.NewIngester(nil, reviews.WithMaxSnippets(maxSnippets))

			page, err := in.Ingest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if page.Title != "" {
				fmt.Printf("Title: %s\n\n", page.Title)
			}
			if len(page.Snippets) == 0 {
				fmt.Println("No usable review content found.")
				return nil
			}
			for _, s := range page.Snippets {
				fmt.Printf("  - %s\n", s)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSnippets, "max", reviews.DefaultMaxSnippets, "Maximum snippets to extract")

	return cmd
}
