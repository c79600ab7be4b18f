package library

import (
	"fmt"
	"strings"
	"time"
)

// Reading statuses. Blank on disk normalizes to StatusNotStarted.
const (
	StatusNotStarted = "Not started"
	StatusInProgress = "In progress"
	StatusFinished   = "Finished"

	// StatusAll is the filter sentinel matching every status.
	StatusAll = "All"
)

// GenreOther is the catch-all genre assigned when nothing better is known.
const GenreOther = "Autre"

// Genres offered in the add/edit form. Free-text genres coming from an
// existing data file are accepted as-is.
var KnownGenres = []string{
	"Roman", "Essai", "Science", "Histoire", "Biographie",
	"Fantastique", "Policier", GenreOther,
}

// Statuses lists the selectable reading statuses, in display order.
var Statuses = []string{StatusNotStarted, StatusInProgress, StatusFinished}

// Book is one catalogued entry in a library. Field names must round-trip
// byte-for-byte with existing data files.
type Book struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Year          int    `json:"year"`
	Genre         string `json:"genre"`
	Available     bool   `json:"available"`
	ReadingStatus string `json:"readingStatus"`
	Summary       string `json:"summary,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
	AddedAt       int64  `json:"addedAt,omitempty"`    // epoch millis, 0 = unset
	BorrowedAt    int64  `json:"borrowedAt,omitempty"` // epoch millis, 0 = not borrowed
}

// Validate checks the fields required before a book may be saved.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("author is required")
	}
	if b.Year < 0 || b.Year > 9999 {
		return fmt.Errorf("year must be between 0 and 9999")
	}
	return nil
}

// Status returns the reading status, defaulting when unset or blank.
func (b Book) Status() string {
	if strings.TrimSpace(b.ReadingStatus) == "" {
		return StatusNotStarted
	}
	return b.ReadingStatus
}

// New creates a book from the add flow: available, not borrowed, stamped now.
func New(title, author string, year int, genre string, now time.Time) Book {
	if genre == "" {
		genre = GenreOther
	}
	return Book{
		Title:         title,
		Author:        author,
		Year:          year,
		Genre:         genre,
		Available:     true,
		ReadingStatus: StatusNotStarted,
		AddedAt:       now.UnixMilli(),
	}
}

// ApplyEdit overwrites b with the edited values and recomputes the borrow
// timestamp from the availability transition. Unlike the naive
// transition-only approach, the invariant is enforced on every edit: an
// unavailable book always carries a borrow timestamp and an available one
// never does.
func (b *Book) ApplyEdit(edited Book, now time.Time) {
	wasAvailable := b.Available
	addedAt := b.AddedAt
	borrowedAt := b.BorrowedAt

	*b = edited
	b.AddedAt = addedAt
	b.BorrowedAt = borrowedAt

	switch {
	case wasAvailable && !b.Available:
		b.BorrowedAt = now.UnixMilli()
	case !wasAvailable && b.Available:
		b.BorrowedAt = 0
	case !b.Available && b.BorrowedAt <= 0:
		b.BorrowedAt = now.UnixMilli()
	case b.Available:
		b.BorrowedAt = 0
	}
}

// StampAddedAt assigns the added timestamp to books that are missing one.
// Runs once per load so legacy records sort sensibly.
func StampAddedAt(books []Book, now time.Time) {
	for i := range books {
		if books[i].AddedAt <= 0 {
			books[i].AddedAt = now.UnixMilli()
		}
	}
}

// FormatDate renders an epoch-millisecond timestamp as a local calendar
// date, or an em dash when absent.
func FormatDate(epochMillis int64) string {
	if epochMillis <= 0 {
		return "—"
	}
	return time.UnixMilli(epochMillis).Format("02/01/2006")
}

// AvailabilityLabel is the row text for the availability column.
func (b Book) AvailabilityLabel() string {
	if b.Available {
		return "Available"
	}
	if b.BorrowedAt <= 0 {
		return "Lent"
	}
	return "Lent " + FormatDate(b.BorrowedAt)
}

func (b Book) String() string {
	return fmt.Sprintf("%s — %s (%d)", b.Title, b.Author, b.Year)
}
