package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"biblio/internal/library"
	"biblio/internal/session"
	"biblio/internal/suggest"
)

type browserMode int

const (
	modeBrowse browserMode = iota
	modeSearch
	modeForm
	modePicker
	modeConfirm
	modePrompt
)

type confirmKind int

const (
	confirmDeleteBook confirmKind = iota
	confirmDeleteLibrary
)

type promptKind int

const (
	promptCreateLibrary promptKind = iota
	promptRenameLibrary
)

// statusOptions is the reading-status filter cycle, All first.
var statusOptions = []string{
	library.StatusAll,
	library.StatusNotStarted,
	library.StatusInProgress,
	library.StatusFinished,
}

// BrowserModel is the main screen: the filtered book table plus the modal
// surfaces (form, picker, confirm, prompt) layered over it.
type BrowserModel struct {
	sess *session.Session
	sugg *suggest.Client
	keys browserKeys

	mode       browserMode
	confirmFor confirmKind
	promptFor  promptKind

	search    textinput.Model
	prompt    textinput.Model
	promptErr string

	form   formModel
	picker list.Model

	view      []library.Book
	cursor    int
	genreIdx  int // index into the genre options, -1 = all
	statusIdx int // index into statusOptions
	availOnly bool

	activeCmd string
	statusMsg string
	width     int
	height    int
	quitting  bool
}

func newBrowser(sess *session.Session, sugg *suggest.Client) BrowserModel {
	search := textinput.New()
	search.Placeholder = "title contains…"
	search.CharLimit = 100
	search.Width = 30
	search.Prompt = "/ "

	prompt := textinput.New()
	prompt.CharLimit = 100
	prompt.Width = 40
	prompt.Prompt = "│ "

	m := BrowserModel{
		sess:     sess,
		sugg:     sugg,
		keys:     newBrowserKeys(),
		search:   search,
		prompt:   prompt,
		genreIdx: -1,
	}
	m.refresh()
	return m
}

// refresh rebuilds the visible slice from the session and clamps the cursor.
func (m *BrowserModel) refresh() {
	m.view = m.sess.Books()
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// pushFilter rebuilds the session filter from the model's controls.
func (m *BrowserModel) pushFilter() {
	f := library.Filter{
		Query:         m.search.Value(),
		AvailableOnly: m.availOnly,
	}
	genres := m.sess.Genres()
	if m.genreIdx >= 0 && m.genreIdx < len(genres) {
		f.Genre = genres[m.genreIdx]
	}
	if m.statusIdx > 0 {
		f.Status = statusOptions[m.statusIdx]
	}
	m.sess.SetFilter(f)
	m.refresh()
}

// resetControls clears the local filter state after a library change.
func (m *BrowserModel) resetControls() {
	m.search.SetValue("")
	m.genreIdx = -1
	m.statusIdx = 0
	m.availOnly = false
	m.cursor = 0
}

func (m BrowserModel) selected() (library.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return library.Book{}, false
	}
	return m.view[m.cursor], true
}

func (m BrowserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.mode == modePicker {
			m.picker.SetSize(msg.Width-4, msg.Height-4)
		}
		return m, nil

	case suggestionsMsg:
		if m.mode == modeForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		// ctrl+c always quits, whatever surface is up.
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modePicker:
			return m.updatePicker(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modePrompt:
			return m.updatePrompt(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m BrowserModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.activeCmd = "/"
		return m, tea.Batch(m.search.Focus(), HighlightCmd())

	case key.Matches(msg, m.keys.Genre):
		m.genreIdx++
		if m.genreIdx >= len(m.sess.Genres()) {
			m.genreIdx = -1
		}
		m.pushFilter()
		m.activeCmd = "g"
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Status):
		m.statusIdx = (m.statusIdx + 1) % len(statusOptions)
		m.pushFilter()
		m.activeCmd = "s"
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Available):
		m.availOnly = !m.availOnly
		m.pushFilter()
		m.activeCmd = "v"
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Sort):
		if m.sess.Sort() == session.SortTitle {
			m.sess.SetSort(session.SortAddedDate)
		} else {
			m.sess.SetSort(session.SortTitle)
		}
		m.refresh()
		m.activeCmd = "o"
		return m, HighlightCmd()

	case key.Matches(msg, m.keys.Reset):
		m.sess.ResetFilters()
		m.resetControls()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.form = newAddForm(m.sugg)
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if b, ok := m.selected(); ok {
			if idx := m.sess.MasterIndex(m.cursor); idx >= 0 {
				m.form = newEditForm(b, idx, m.sugg)
				m.mode = modeForm
				return m, textinput.Blink
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.confirmFor = confirmDeleteBook
			m.mode = modeConfirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Lend):
		if b, ok := m.selected(); ok {
			if idx := m.sess.MasterIndex(m.cursor); idx >= 0 {
				edited := b
				edited.Available = !edited.Available
				if err := m.sess.Update(idx, edited); err == nil {
					m.refresh()
					if edited.Available {
						m.statusMsg = fmt.Sprintf("%q returned", b.Title)
					} else {
						m.statusMsg = fmt.Sprintf("%q lent out", b.Title)
					}
				}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Libraries):
		m.openPicker()
		return m, nil

	case key.Matches(msg, m.keys.NewLib):
		m.promptFor = promptCreateLibrary
		m.prompt.SetValue("")
		m.promptErr = ""
		m.mode = modePrompt
		return m, tea.Batch(m.prompt.Focus(), textinput.Blink)

	case key.Matches(msg, m.keys.RenameLib):
		m.promptFor = promptRenameLibrary
		m.prompt.SetValue(m.sess.Current())
		m.promptErr = ""
		m.mode = modePrompt
		return m, tea.Batch(m.prompt.Focus(), textinput.Blink)

	case key.Matches(msg, m.keys.DeleteLib):
		m.confirmFor = confirmDeleteLibrary
		m.mode = modeConfirm
		return m, nil
	}

	return m, nil
}

func (m BrowserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.pushFilter()
	return m, cmd
}

func (m BrowserModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.canceled {
		m.mode = modeBrowse
		return m, nil
	}
	if m.form.done {
		var err error
		if m.form.editIndex >= 0 {
			err = m.sess.Update(m.form.editIndex, m.form.result)
		} else {
			err = m.sess.Add(m.form.result)
		}
		if err != nil {
			// Validation already ran in the form; a failure here means the
			// index went stale. Drop back to the table either way.
			m.statusMsg = err.Error()
		} else if m.form.editIndex >= 0 {
			m.statusMsg = fmt.Sprintf("%q updated", m.form.result.Title)
		} else {
			m.statusMsg = fmt.Sprintf("%q added", m.form.result.Title)
		}
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	}
	return m, cmd
}

func (m *BrowserModel) openPicker() {
	names := m.sess.Libraries()
	sizes := m.sess.LibrarySizes()
	items := make([]libraryItem, len(names))
	for i, name := range names {
		items[i] = libraryItem{
			name:    name,
			count:   sizes[name],
			current: name == m.sess.Current(),
		}
	}
	w, h := m.width-4, m.height-4
	if w < 40 {
		w = 40
	}
	if h < 10 {
		h = 10
	}
	m.picker = newLibraryPicker(items, w, h)
	m.mode = modePicker
}

func (m BrowserModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list's own filter input see every key first.
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		if item, ok := m.picker.SelectedItem().(libraryItem); ok {
			m.sess.Switch(item.name)
			m.resetControls()
			m.refresh()
			m.statusMsg = fmt.Sprintf("library: %s", item.name)
		}
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirmFor {
		case confirmDeleteBook:
			if b, ok := m.selected(); ok {
				if idx := m.sess.MasterIndex(m.cursor); idx >= 0 {
					m.sess.Remove(idx)
					m.statusMsg = fmt.Sprintf("%q deleted", b.Title)
				}
			}
			m.refresh()
		case confirmDeleteLibrary:
			name := m.sess.Current()
			if m.sess.DeleteLibrary() {
				m.resetControls()
				m.refresh()
				m.statusMsg = fmt.Sprintf("library %q deleted", name)
			} else {
				m.statusMsg = "cannot delete the last library"
			}
		}
		m.mode = modeBrowse
		return m, nil

	case "n", "N", "esc":
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m BrowserModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.Blur()
		m.mode = modeBrowse
		return m, nil

	case "enter":
		name := m.prompt.Value()
		var ok bool
		switch m.promptFor {
		case promptCreateLibrary:
			ok = m.sess.CreateLibrary(name)
		case promptRenameLibrary:
			ok = m.sess.RenameLibrary(name)
		}
		if !ok {
			m.promptErr = "name is empty or already taken"
			return m, nil
		}
		m.prompt.Blur()
		m.resetControls()
		m.refresh()
		m.statusMsg = fmt.Sprintf("library: %s", m.sess.Current())
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.promptErr = ""
	return m, cmd
}

// RunBrowser launches the interactive collection browser and blocks until
// the user quits. Pending edits are flushed to disk before returning.
func RunBrowser(sess *session.Session, sugg *suggest.Client) error {
	m := newBrowser(sess, sugg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return sess.Flush()
}
