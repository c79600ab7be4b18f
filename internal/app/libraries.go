package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLibrariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "Manage named libraries",
		Long:  "Lists the libraries in the data file. Subcommands create, rename, delete and switch.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			current := st.Current()
			for _, name := range st.List() {
				mark := " "
				if name == current {
					mark = color.GreenString("●")
				}
				fmt.Printf(" %s %s %s\n", mark, name,
					color.New(color.Faint).Sprintf("(%d books)", len(st.Load(name))))
			}
			return nil
		},
	}

	cmd.AddCommand(
		newLibrariesCreateCmd(),
		newLibrariesRenameCmd(),
		newLibrariesDeleteCmd(),
		newLibrariesSwitchCmd(),
	)
	return cmd
}

func newLibrariesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty library and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if !st.Create(args[0]) {
				return fmt.Errorf("library %q already exists or the name is blank", args[0])
			}
			ok("created %q", args[0])
			return st.Flush()
		},
	}
}

func newLibrariesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a library, keeping its books",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if !st.Rename(args[0], args[1]) {
				return fmt.Errorf("cannot rename %q to %q (missing source or taken name)", args[0], args[1])
			}
			ok("renamed %q to %q", args[0], args[1])
			return st.Flush()
		},
	}
}

func newLibrariesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a library and every book in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if !hasLibrary(st.List(), args[0]) {
				return fmt.Errorf("no library named %q", args[0])
			}
			if !st.Delete(args[0]) {
				return fmt.Errorf("cannot delete the last remaining library")
			}
			ok("deleted %q (current: %s)", args[0], st.Current())
			return st.Flush()
		},
	}
}

func newLibrariesSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch NAME",
		Short: "Make another library current",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			st.SetCurrent(args[0])
			if st.Current() != args[0] {
				return fmt.Errorf("no library named %q", args[0])
			}
			ok("current library: %s", args[0])
			return st.Flush()
		},
	}
}
