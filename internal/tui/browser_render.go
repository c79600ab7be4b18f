package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"biblio/internal/library"
	"biblio/internal/session"
)

// Table column widths. Title gets whatever is left of the list pane.
const (
	colAuthor = 20
	colYear   = 6
	colGenre  = 12
	colStatus = 12
	colAvail  = 16
)

// pad truncates to width (ellipsis when longer) and right-pads when shorter.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func (m BrowserModel) titleWidth(paneWidth int) int {
	w := paneWidth - colAuthor - colYear - colGenre - colStatus - colAvail - 8
	if w < 16 {
		w = 16
	}
	return w
}

func (m BrowserModel) renderHeader() string {
	counts := fmt.Sprintf("%d/%d books", len(m.view), m.sess.Len())
	sort := "title"
	if m.sess.Sort() == session.SortAddedDate {
		sort = "added"
	}
	return StyleHeader.Render("biblio") +
		StyleHelp.Render("  │  ") +
		StyleHighlight.Render(m.sess.Current()) +
		StyleHelp.Render(fmt.Sprintf("  │  %s  │  sort: %s", counts, sort))
}

func (m BrowserModel) renderFilterBar() string {
	genre := "all"
	genres := m.sess.Genres()
	if m.genreIdx >= 0 && m.genreIdx < len(genres) {
		genre = genres[m.genreIdx]
	}
	avail := "all"
	if m.availOnly {
		avail = "available only"
	}
	return m.search.View() +
		StyleHelp.Render("   genre: ") + StyleGenre.Render(genre) +
		StyleHelp.Render("   status: ") + StyleNormal.Render(statusOptions[m.statusIdx]) +
		StyleHelp.Render("   show: ") + StyleNormal.Render(avail)
}

func (m BrowserModel) renderRow(b library.Book, titleW int, selected bool) string {
	year := ""
	if b.Year > 0 {
		year = fmt.Sprintf("%d", b.Year)
	}
	avail := b.AvailabilityLabel()

	plain := pad(b.Title, titleW) + "  " +
		pad(b.Author, colAuthor) + "  " +
		pad(year, colYear) + "  "

	if selected {
		return StyleHighlight.Render("› "+plain) +
			StyleGenre.Render(pad(b.Genre, colGenre)) + "  " +
			StyleHighlight.Render(pad(b.Status(), colStatus)) + "  " +
			m.availStyle(b).Render(pad(avail, colAvail))
	}
	return "  " + StyleNormal.Render(plain) +
		StyleGenre.Render(pad(b.Genre, colGenre)) + "  " +
		StyleHelp.Render(pad(b.Status(), colStatus)) + "  " +
		m.availStyle(b).Render(pad(avail, colAvail))
}

func (m BrowserModel) availStyle(b library.Book) lipgloss.Style {
	if b.Available {
		return StyleAvailable
	}
	return StyleLent
}

func (m BrowserModel) renderTable(paneWidth, rows int) string {
	titleW := m.titleWidth(paneWidth)

	var s strings.Builder
	s.WriteString("  " + StyleHelp.Render(
		pad("Title", titleW)+"  "+
			pad("Author", colAuthor)+"  "+
			pad("Year", colYear)+"  "+
			pad("Genre", colGenre)+"  "+
			pad("Status", colStatus)+"  "+
			pad("Availability", colAvail)))
	s.WriteString("\n")

	if len(m.view) == 0 {
		s.WriteString("\n" + StyleHelp.Render("  no books match — press a to add one, r to reset filters"))
		return s.String()
	}

	// Scroll window keeping the cursor visible.
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > len(m.view) {
		end = len(m.view)
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(m.view[i], titleW, i == m.cursor))
		s.WriteString("\n")
	}
	return s.String()
}

func (m BrowserModel) renderDetailsPane(width int) string {
	b, ok := m.selected()
	if !ok {
		return ""
	}
	if width < 30 {
		width = 30
	}
	textW := width - 4

	detailsStyle := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(StyleHeader.Render("Details"))
	s.WriteString("\n\n")

	s.WriteString(StyleHighlight.Render("Title: "))
	s.WriteString(ansi.Truncate(b.Title, textW, "…"))
	s.WriteString("\n")
	s.WriteString(StyleHighlight.Render("Author: "))
	s.WriteString(ansi.Truncate(b.Author, textW, "…"))
	s.WriteString("\n")
	if b.Year > 0 {
		s.WriteString(StyleHighlight.Render("Year: "))
		fmt.Fprintf(&s, "%d", b.Year)
		s.WriteString("\n")
	}
	s.WriteString(StyleHighlight.Render("Genre: "))
	s.WriteString(StyleGenre.Render(b.Genre))
	s.WriteString("\n")
	s.WriteString(StyleHighlight.Render("Status: "))
	s.WriteString(b.Status())
	s.WriteString("\n")
	s.WriteString(StyleHighlight.Render("Availability: "))
	s.WriteString(m.availStyle(b).Render(b.AvailabilityLabel()))
	s.WriteString("\n")
	s.WriteString(StyleHighlight.Render("Added: "))
	s.WriteString(library.FormatDate(b.AddedAt))
	s.WriteString("\n")

	if b.Summary != "" {
		s.WriteString("\n")
		s.WriteString(StyleHighlight.Render("Summary"))
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Width(textW).Foreground(ColorWhite).Render(b.Summary))
		s.WriteString("\n")
	}
	if b.CoverURL != "" {
		s.WriteString("\n")
		s.WriteString(StyleHighlight.Render("Cover: "))
		s.WriteString(StyleHelp.Render(ansi.Truncate(b.CoverURL, textW, "…")))
		s.WriteString("\n")
	}

	return detailsStyle.Render(s.String())
}

func (m BrowserModel) renderFooter() string {
	bar := RenderFooterBar([]ShortcutEntry{
		{Key: "", Label: "↑/↓ navigate"},
		{Key: "/", Label: "/ search"},
		{Key: "g", Label: "g genre"},
		{Key: "s", Label: "s status"},
		{Key: "v", Label: "v available"},
		{Key: "o", Label: "o sort"},
		{Key: "", Label: "a add"},
		{Key: "", Label: "e edit"},
		{Key: "", Label: "d delete"},
		{Key: "", Label: "space lend"},
		{Key: "", Label: "l libraries"},
		{Key: "", Label: "q quit"},
	}, m.activeCmd)

	if m.statusMsg != "" {
		return bar + "\n " + StyleHelp.Render(m.statusMsg)
	}
	return bar
}

// renderModal centers a small framed box over a blank screen.
func (m BrowserModel) renderModal(content string) string {
	box := StyleBorder.Render(lipgloss.NewStyle().Padding(1, 2).Render(content))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m BrowserModel) renderConfirm() string {
	var question string
	switch m.confirmFor {
	case confirmDeleteLibrary:
		question = fmt.Sprintf("Delete library %q and every book in it?", m.sess.Current())
	default:
		if b, ok := m.selected(); ok {
			question = fmt.Sprintf("Delete %q?", b.Title)
		}
	}
	return m.renderModal(StyleHighlight.Render(question) + "\n\n" + StyleHelp.Render("y confirm  ·  n cancel"))
}

func (m BrowserModel) renderPrompt() string {
	title := "New library"
	if m.promptFor == promptRenameLibrary {
		title = fmt.Sprintf("Rename %q", m.sess.Current())
	}
	body := StyleHeader.Render(title) + "\n\n" + m.prompt.View() + "\n"
	if m.promptErr != "" {
		body += "\n" + StyleError.Render(m.promptErr)
	}
	body += "\n" + StyleHelp.Render("enter confirm  ·  esc cancel")
	return m.renderModal(body)
}

func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeForm:
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.View())
		}
		return m.form.View()
	case modePicker:
		return StyleBorder.Render(m.picker.View())
	case modeConfirm:
		return m.renderConfirm()
	case modePrompt:
		return m.renderPrompt()
	}

	width := m.width
	if width <= 0 {
		width = 100
	}
	height := m.height
	if height <= 0 {
		height = 30
	}

	// Details pane on the right when there is room for it.
	showDetails := width >= 110
	paneWidth := width
	detailsWidth := 0
	if showDetails {
		detailsWidth = (width * 3) / 10
		paneWidth = width - detailsWidth - 1
	}

	rows := height - 7 // header, filter bar, table header, footer, spacing
	if rows < 3 {
		rows = 3
	}

	var s strings.Builder
	s.WriteString(" " + m.renderHeader())
	s.WriteString("\n ")
	s.WriteString(m.renderFilterBar())
	s.WriteString("\n\n")

	table := m.renderTable(paneWidth, rows)
	if showDetails {
		listStyle := lipgloss.NewStyle().
			Width(paneWidth).
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorGray)
		s.WriteString(lipgloss.JoinHorizontal(
			lipgloss.Top,
			listStyle.Render(table),
			m.renderDetailsPane(detailsWidth),
		))
	} else {
		s.WriteString(table)
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}
