package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup QUERY...",
		Short: "Search Google Books for metadata candidates",
		Long:  "Runs the same lookup the add/edit form offers and prints the candidates. Lookups are best-effort: no results is not an error.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client := suggestClient()
			if client == nil {
				return fmt.Errorf("suggestions are disabled in the config")
			}

			query := strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			cands := client.Fetch(ctx, query)
			if len(cands) == 0 {
				warn("no candidates for %q", query)
				return nil
			}

			header("%d candidate(s) for %q", len(cands), query)
			for i, c := range cands {
				line := c.String()
				if c.Year > 0 {
					line = fmt.Sprintf("%s (%d)", line, c.Year)
				}
				fmt.Printf("  %d. %s", i+1, line)
				if c.Genre != "" {
					fmt.Printf("  %s", color.CyanString("[%s]", c.Genre))
				}
				fmt.Println()
				if c.Summary != "" {
					fmt.Printf("     %s\n", color.New(color.Faint).Sprint(ansi.Truncate(c.Summary, 100, "…")))
				}
				if c.CoverURL != "" {
					fmt.Printf("     %s\n", color.New(color.Faint).Sprint(c.CoverURL))
				}
			}
			return nil
		},
	}
	return cmd
}
