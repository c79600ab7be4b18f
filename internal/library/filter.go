package library

import (
	"sort"
	"strings"
	"time"
)

// Filter applies all active criteria and returns matching books.
// Zero-value fields are neutral: an empty query, unset genre, false
// availability toggle and unset/"All" status each match everything.
type Filter struct {
	Query         string // case-insensitive substring on title
	Genre         string // exact match
	AvailableOnly bool
	Status        string // case-insensitive, "" or StatusAll matches all
}

// Apply returns the subset of books matching every active criterion,
// preserving the input order.
func (f Filter) Apply(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// Matches reports whether a single book passes all four predicates.
func (f Filter) Matches(b Book) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q != "" && !strings.Contains(strings.ToLower(b.Title), q) {
		return false
	}
	if f.Genre != "" && f.Genre != b.Genre {
		return false
	}
	if f.AvailableOnly && !b.Available {
		return false
	}
	if f.Status != "" && !strings.EqualFold(f.Status, StatusAll) &&
		!strings.EqualFold(f.Status, b.Status()) {
		return false
	}
	return true
}

// Genres collects the distinct non-blank genres present in books, sorted
// lexicographically for display. Recomputed after every structural edit.
func Genres(books []Book) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		g := strings.TrimSpace(b.Genre)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// SortByTitle orders books by title ascending, case-insensitive. The sort is
// stable so equal titles keep their relative order.
func SortByTitle(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
	})
}

// SortByAddedDate orders books by the added calendar date ascending.
// Books without a date sort before any dated book; ties keep original order.
func SortByAddedDate(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return CompareAddedDates(books[i], books[j]) < 0
	})
}

// CompareAddedDates compares two books by added calendar date (not by
// timestamp): entries added the same local day compare equal. An absent
// date sorts before any real date.
func CompareAddedDates(a, b Book) int {
	da, okA := addedDay(a)
	db, okB := addedDay(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

func addedDay(b Book) (time.Time, bool) {
	if b.AddedAt <= 0 {
		return time.Time{}, false
	}
	t := time.UnixMilli(b.AddedAt).Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
}
