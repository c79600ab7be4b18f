package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biblio/internal/library"
)

func newListCmd() *cobra.Command {
	var (
		search    string
		genre     string
		status    string
		available bool
		libName   string
		sortBy    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in a library",
		Long:  "Prints the books of the current (or named) library, one per line, after applying the given filters.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			name := libName
			if name == "" {
				name = st.Current()
			} else if !hasLibrary(st.List(), name) {
				return fmt.Errorf("no library named %q", name)
			}

			all := st.Load(name)
			f := library.Filter{
				Query:         search,
				Genre:         genre,
				Status:        status,
				AvailableOnly: available,
			}
			books := f.Apply(all)

			switch sortBy {
			case "added":
				library.SortByAddedDate(books)
			case "", "title":
				library.SortByTitle(books)
			default:
				return fmt.Errorf("unknown sort %q (use title or added)", sortBy)
			}

			header("%s — %d/%d books", name, len(books), len(all))
			for _, b := range books {
				printBookLine(b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Keep books whose title contains this text")
	cmd.Flags().StringVar(&genre, "genre", "", "Keep books of this exact genre")
	cmd.Flags().StringVar(&status, "status", "", "Keep books with this reading status")
	cmd.Flags().BoolVar(&available, "available", false, "Keep only books on the shelf")
	cmd.Flags().StringVar(&libName, "library", "", "Library to list (default: current)")
	cmd.Flags().StringVar(&sortBy, "sort", "title", "Sort order: title or added")
	return cmd
}

func printBookLine(b library.Book) {
	year := "    "
	if b.Year > 0 {
		year = fmt.Sprintf("%4d", b.Year)
	}
	avail := color.GreenString("%-16s", b.AvailabilityLabel())
	if !b.Available {
		avail = color.RedString("%-16s", b.AvailabilityLabel())
	}
	fmt.Printf("  %-40.40s %-24.24s %s  %s %-12s %s\n",
		b.Title, b.Author, year,
		color.CyanString("%-12s", b.Genre),
		b.Status(), avail)
}

func hasLibrary(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
