package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// libraryItem represents one named library in the picker.
type libraryItem struct {
	name    string
	count   int
	current bool
}

// FilterValue returns the string used for filtering in the list.
func (l libraryItem) FilterValue() string { return l.name }

// Custom list item delegate for rendering libraries
type libraryDelegate struct{}

func (d libraryDelegate) Height() int  { return 1 }
func (d libraryDelegate) Spacing() int { return 0 }
func (d libraryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d libraryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	lib, ok := item.(libraryItem)
	if !ok {
		return
	}

	mark := "  "
	if lib.current {
		mark = StyleAvailable.Render("● ")
	}
	countStr := StyleHelp.Render(fmt.Sprintf("(%d books)", lib.count))

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› ")+mark+StyleHighlight.Render(lib.name)+" "+countStr)
	} else {
		_, _ = fmt.Fprint(w, "  "+mark+StyleNormal.Render(lib.name)+" "+countStr)
	}
}

// newLibraryPicker builds the list shown when switching libraries.
func newLibraryPicker(items []libraryItem, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}

	l := list.New(listItems, libraryDelegate{}, width, height)
	l.Title = "Libraries"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp

	selectKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "switch"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{selectKey}
	}
	return l
}
