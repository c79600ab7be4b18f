package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biblio/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}
			header("config file: %s", path)
			fmt.Printf("  %-22s %s\n", "data.path:", cfg.Data.Path)
			fmt.Printf("  %-22s %d\n", "data.debounce_ms:", cfg.Data.DebounceMS)
			fmt.Printf("  %-22s %t\n", "suggestions.enabled:", cfg.Suggestions.Enabled)
			fmt.Printf("  %-22s %s\n", "suggestions.endpoint:", cfg.Suggestions.Endpoint)
			fmt.Printf("  %-22s %d\n", "suggestions.max_results:", cfg.Suggestions.MaxResults)
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to disk",
		Long:  "Writes the current settings (defaults plus any flag and env overrides) as a starter config file to edit by hand.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			ok("wrote %s", path)
			fmt.Println(color.New(color.Faint).Sprint("  edit it, or override per run with BIBLIO_* env vars"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
