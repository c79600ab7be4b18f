package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"biblio/internal/library"
	"biblio/internal/suggest"
)

// suggestionsMsg carries the result of one metadata lookup. The sequence
// number ties it to the request that started it; stale responses are
// dropped so a slow fetch can never overwrite a newer one.
type suggestionsMsg struct {
	seq   int
	items []suggest.Candidate
}

const (
	formFieldTitle = iota
	formFieldAuthor
	formFieldYear
	formFieldGenre
	formFieldStatus
	formFieldAvailable
	formFieldSummary
	formFieldCover
	formFieldCount
)

// text inputs exist only for the free-form fields; genre, status and
// available are cycled in place.
func isTextField(i int) bool {
	switch i {
	case formFieldTitle, formFieldAuthor, formFieldYear, formFieldSummary, formFieldCover:
		return true
	}
	return false
}

type formModel struct {
	inputs    []textinput.Model
	focused   int
	genreIdx  int
	statusIdx int
	available bool

	editIndex int // master list index being edited, -1 for a new book
	original  library.Book
	errMsg    string

	sugg        *suggest.Client
	suggestions []suggest.Candidate
	suggIdx     int
	seq         int
	fetching    bool

	done     bool
	canceled bool
	result   library.Book
}

func newFormInputs() []textinput.Model {
	const fieldWidth = 42
	inputs := make([]textinput.Model, formFieldCount)

	inputs[formFieldTitle] = textinput.New()
	inputs[formFieldTitle].Placeholder = "Book title"
	inputs[formFieldTitle].CharLimit = 200
	inputs[formFieldTitle].Width = fieldWidth
	inputs[formFieldTitle].Prompt = "│ "

	inputs[formFieldAuthor] = textinput.New()
	inputs[formFieldAuthor].Placeholder = "Author name"
	inputs[formFieldAuthor].CharLimit = 100
	inputs[formFieldAuthor].Width = fieldWidth
	inputs[formFieldAuthor].Prompt = "│ "

	inputs[formFieldYear] = textinput.New()
	inputs[formFieldYear].Placeholder = "2024"
	inputs[formFieldYear].CharLimit = 4
	inputs[formFieldYear].Width = 8
	inputs[formFieldYear].Prompt = "│ "

	inputs[formFieldSummary] = textinput.New()
	inputs[formFieldSummary].Placeholder = "One-line summary"
	inputs[formFieldSummary].CharLimit = 500
	inputs[formFieldSummary].Width = fieldWidth
	inputs[formFieldSummary].Prompt = "│ "

	inputs[formFieldCover] = textinput.New()
	inputs[formFieldCover].Placeholder = "https://…/cover.jpg"
	inputs[formFieldCover].CharLimit = 300
	inputs[formFieldCover].Width = fieldWidth
	inputs[formFieldCover].Prompt = "│ "

	return inputs
}

// newAddForm starts a blank form for a new book.
func newAddForm(sugg *suggest.Client) formModel {
	m := formModel{
		inputs:    newFormInputs(),
		editIndex: -1,
		genreIdx:  genreIndex(library.GenreOther),
		available: true,
		sugg:      sugg,
	}
	m.inputs[formFieldTitle].Focus()
	return m
}

// newEditForm starts a form pre-filled from an existing book.
func newEditForm(b library.Book, masterIndex int, sugg *suggest.Client) formModel {
	m := formModel{
		inputs:    newFormInputs(),
		editIndex: masterIndex,
		original:  b,
		genreIdx:  genreIndex(b.Genre),
		statusIdx: statusIndex(b.Status()),
		available: b.Available,
		sugg:      sugg,
	}
	m.inputs[formFieldTitle].SetValue(b.Title)
	m.inputs[formFieldAuthor].SetValue(b.Author)
	if b.Year > 0 {
		m.inputs[formFieldYear].SetValue(strconv.Itoa(b.Year))
	}
	m.inputs[formFieldSummary].SetValue(b.Summary)
	m.inputs[formFieldCover].SetValue(b.CoverURL)
	m.inputs[formFieldTitle].Focus()
	return m
}

func genreIndex(genre string) int {
	for i, g := range library.KnownGenres {
		if g == genre {
			return i
		}
	}
	return len(library.KnownGenres) - 1 // Autre
}

func statusIndex(status string) int {
	for i, s := range library.Statuses {
		if strings.EqualFold(s, status) {
			return i
		}
	}
	return 0
}

// fetchSeq numbers lookup requests across all forms. Only ever touched
// from the update loop, so a plain counter is enough.
var fetchSeq int

// fetchSuggestions runs one metadata lookup off the update loop.
func fetchSuggestions(c *suggest.Client, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return suggestionsMsg{seq: seq, items: c.Fetch(ctx, query)}
	}
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.fetching = false
		m.suggestions = msg.items
		m.suggIdx = 0
		if len(m.suggestions) == 0 {
			m.errMsg = "no suggestions found"
		}
		return m, nil

	case tea.KeyMsg:
		m.errMsg = ""

		switch msg.String() {
		case "esc":
			if len(m.suggestions) > 0 {
				m.suggestions = nil
				return m, nil
			}
			m.canceled = true
			return m, nil

		case "enter":
			return m.submit()

		case "ctrl+s":
			return m.startFetch()

		case "ctrl+n":
			if len(m.suggestions) > 0 {
				m.suggIdx = (m.suggIdx + 1) % len(m.suggestions)
			}
			return m, nil

		case "ctrl+p":
			if len(m.suggestions) > 0 {
				m.suggIdx = (m.suggIdx - 1 + len(m.suggestions)) % len(m.suggestions)
			}
			return m, nil

		case "ctrl+y":
			if len(m.suggestions) > 0 {
				m.applyCandidate(m.suggestions[m.suggIdx])
				m.suggestions = nil
			}
			return m, nil

		case "tab", "down", "shift+tab", "up":
			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focused--
			} else {
				m.focused++
			}
			if m.focused < 0 {
				m.focused = formFieldCount - 1
			} else if m.focused >= formFieldCount {
				m.focused = 0
			}

			var cmds []tea.Cmd
			for i := range m.inputs {
				if !isTextField(i) {
					continue
				}
				if i == m.focused {
					cmds = append(cmds, m.inputs[i].Focus())
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, tea.Batch(cmds...)

		case "left", "right", " ":
			if m.cycleField(msg.String()) {
				return m, nil
			}
		}
	}

	// Route remaining input to the focused text field.
	var cmds []tea.Cmd
	for i := range m.inputs {
		if !isTextField(i) {
			continue
		}
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// cycleField advances genre, status or available when one of them is
// focused. Returns false when the key should reach a text input instead.
func (m *formModel) cycleField(k string) bool {
	step := 1
	if k == "left" {
		step = -1
	}
	switch m.focused {
	case formFieldGenre:
		n := len(library.KnownGenres)
		m.genreIdx = (m.genreIdx + step + n) % n
	case formFieldStatus:
		n := len(library.Statuses)
		m.statusIdx = (m.statusIdx + step + n) % n
	case formFieldAvailable:
		m.available = !m.available
	default:
		return false
	}
	return true
}

func (m formModel) startFetch() (formModel, tea.Cmd) {
	if m.sugg == nil {
		m.errMsg = "suggestions are disabled"
		return m, nil
	}
	// When editing, an unchanged title means the user has not asked for new
	// metadata; refuse rather than risk offering values for the wrong book.
	title := strings.TrimSpace(m.inputs[formFieldTitle].Value())
	if m.editIndex >= 0 && title == strings.TrimSpace(m.original.Title) {
		m.errMsg = "change the title to look up a different book"
		return m, nil
	}
	query := strings.TrimSpace(title + " " + m.inputs[formFieldAuthor].Value())
	if len([]rune(query)) < suggest.MinQueryLen {
		m.errMsg = "type a few characters of the title first"
		return m, nil
	}
	fetchSeq++
	m.seq = fetchSeq
	m.fetching = true
	return m, fetchSuggestions(m.sugg, m.seq, query)
}

// applyCandidate fills blank fields from a suggestion. Existing input is
// never overwritten; the genre is taken only while still on the catch-all.
func (m *formModel) applyCandidate(c suggest.Candidate) {
	if strings.TrimSpace(m.inputs[formFieldTitle].Value()) == "" && c.Title != "" {
		m.inputs[formFieldTitle].SetValue(c.Title)
	}
	if strings.TrimSpace(m.inputs[formFieldAuthor].Value()) == "" && c.Author != "" {
		m.inputs[formFieldAuthor].SetValue(c.Author)
	}
	if strings.TrimSpace(m.inputs[formFieldYear].Value()) == "" && c.Year > 0 {
		m.inputs[formFieldYear].SetValue(strconv.Itoa(c.Year))
	}
	if strings.TrimSpace(m.inputs[formFieldSummary].Value()) == "" && c.Summary != "" {
		m.inputs[formFieldSummary].SetValue(c.Summary)
	}
	if strings.TrimSpace(m.inputs[formFieldCover].Value()) == "" && c.CoverURL != "" {
		m.inputs[formFieldCover].SetValue(c.CoverURL)
	}
	if c.Genre != "" && library.KnownGenres[m.genreIdx] == library.GenreOther {
		m.genreIdx = genreIndex(c.Genre)
	}
}

func (m formModel) submit() (formModel, tea.Cmd) {
	year := 0
	if v := strings.TrimSpace(m.inputs[formFieldYear].Value()); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 0 || y > 9999 {
			m.errMsg = "year must be a number between 0 and 9999"
			return m, nil
		}
		year = y
	}

	b := library.Book{
		Title:         strings.TrimSpace(m.inputs[formFieldTitle].Value()),
		Author:        strings.TrimSpace(m.inputs[formFieldAuthor].Value()),
		Year:          year,
		Genre:         library.KnownGenres[m.genreIdx],
		Available:     m.available,
		ReadingStatus: library.Statuses[m.statusIdx],
		Summary:       strings.TrimSpace(m.inputs[formFieldSummary].Value()),
		CoverURL:      strings.TrimSpace(m.inputs[formFieldCover].Value()),
	}
	if m.editIndex >= 0 {
		b.AddedAt = m.original.AddedAt
		b.BorrowedAt = m.original.BorrowedAt
	} else {
		b.AddedAt = time.Now().UnixMilli()
	}

	if err := b.Validate(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.result = b
	m.done = true
	return m, nil
}

func (m formModel) View() string {
	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#444444"})
	formLabel := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(12).
		Align(lipgloss.Right).
		PaddingRight(1)
	formLabelActive := lipgloss.NewStyle().
		Foreground(ColorYellow).
		Bold(true).
		Width(12).
		Align(lipgloss.Right).
		PaddingRight(1)

	const w = 58
	sep := sepStyle.Render(strings.Repeat("─", w))

	var b strings.Builder

	if m.editIndex >= 0 {
		b.WriteString(StyleHeader.Render("Edit Book"))
	} else {
		b.WriteString(StyleHeader.Render("Add Book"))
	}
	b.WriteString("\n\n")
	b.WriteString(sep)
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(StyleError.Render("Error: " + m.errMsg))
		b.WriteString("\n\n")
	}

	labels := []string{"Title", "Author", "Year", "Genre", "Status", "Available", "Summary", "Cover URL"}
	for i, label := range labels {
		if i == m.focused {
			b.WriteString(formLabelActive.Render("› " + label))
		} else {
			b.WriteString(formLabel.Render(label))
		}
		switch i {
		case formFieldGenre:
			b.WriteString(m.renderCycler(StyleGenre.Render(library.KnownGenres[m.genreIdx]), i))
		case formFieldStatus:
			b.WriteString(m.renderCycler(library.Statuses[m.statusIdx], i))
		case formFieldAvailable:
			if m.available {
				b.WriteString(m.renderCycler(StyleAvailable.Render("yes"), i))
			} else {
				b.WriteString(m.renderCycler(StyleLent.Render("no"), i))
			}
		default:
			b.WriteString(m.inputs[i].View())
		}
		b.WriteString("\n\n")
	}

	if m.fetching {
		b.WriteString(StyleHelp.Render("Searching…"))
		b.WriteString("\n")
	} else if len(m.suggestions) > 0 {
		b.WriteString(sep)
		b.WriteString("\n")
		b.WriteString(StyleHeader.Render("Suggestions"))
		b.WriteString("  ")
		b.WriteString(StyleHelp.Render("ctrl+n/p choose, ctrl+y apply, esc dismiss"))
		b.WriteString("\n")
		for i, c := range m.suggestions {
			line := c.String()
			if c.Year > 0 {
				line = fmt.Sprintf("%s (%d)", line, c.Year)
			}
			if i == m.suggIdx {
				b.WriteString(StyleHighlight.Render("› " + line))
			} else {
				b.WriteString("  " + StyleNormal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(sep)
	b.WriteString("\n")
	b.WriteString(RenderFooterBar([]ShortcutEntry{
		{Key: "tab", Label: "Tab/↑↓ navigate"},
		{Key: "", Label: "←/→ cycle"},
		{Key: "ctrl+s", Label: "ctrl+s suggest"},
		{Key: "enter", Label: "enter save"},
		{Key: "", Label: "esc cancel"},
	}, ""))
	b.WriteString("\n")

	innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return StyleBorder.Render(innerPadding.Render(b.String()))
}

// renderCycler decorates a cycled value with arrows when its row is focused.
func (m formModel) renderCycler(value string, field int) string {
	if m.focused == field {
		return StyleHelp.Render("‹ ") + value + StyleHelp.Render(" ›")
	}
	return value
}
