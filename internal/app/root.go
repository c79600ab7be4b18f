package app

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biblio/internal/config"
	"biblio/internal/session"
	"biblio/internal/store"
	"biblio/internal/suggest"
	"biblio/internal/tui"
	"biblio/internal/util"
)

var (
	cfg *config.Config

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagData          string

	appVersion = "dev"
)

// SetVersion records the build version for the version command.
func SetVersion(v string) {
	if v != "" {
		appVersion = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "biblio",
	Short: "Catalogue your personal book collection",
	Long: `biblio keeps named book libraries in a single JSON file and lets you
browse, filter and edit them from the terminal.

Run 'biblio' with no arguments to launch the interactive browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			sess, cleanup, err := openSession()
			if err != nil {
				return err
			}
			defer cleanup()
			return tui.RunBrowser(sess, suggestClient())
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/biblio/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Library data file (overrides config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initColor()

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagData != "" {
			cfg.Data.Path = config.ExpandHome(flagData)
		}
		return nil
	}

	// Register sub-commands.
	rootCmd.AddCommand(
		newListCmd(),
		newLibrariesCmd(),
		newLookupCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

// openSession opens the store at the configured path and binds a session to
// its current library. The cleanup flushes pending writes.
func openSession() (*session.Session, func(), error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			warn("saving library: %v", err)
		}
	}
	return session.New(st), cleanup, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.Data.Path,
		store.WithDebounce(time.Duration(cfg.Data.DebounceMS)*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("opening library store: %w", err)
	}
	return st, nil
}

// suggestClient returns nil when lookups are disabled; the TUI treats a nil
// client as "no suggestions".
func suggestClient() *suggest.Client {
	if !cfg.Suggestions.Enabled {
		return nil
	}
	return suggest.NewClient(cfg.Suggestions.Endpoint, cfg.Suggestions.MaxResults)
}

// initColor disables colored output when asked to or when stdout is not a
// terminal.
func initColor() {
	if flagNoColor || !util.IsTTY() {
		color.NoColor = true
	}
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
