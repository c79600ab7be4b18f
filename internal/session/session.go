// Package session drives the active library for one interactive run: it
// owns the master book list, the filtered view derived from it, and the
// genre index offered by the genre filter. Every structural edit goes
// through the store so the on-disk document follows the screen.
package session

import (
	"sort"
	"strings"
	"time"

	"biblio/internal/library"
	"biblio/internal/store"
)

// SortMode selects the ordering of the filtered view.
type SortMode int

const (
	SortTitle SortMode = iota // default
	SortAddedDate
)

// Session is the collection controller bound to one Store.
type Session struct {
	store   *store.Store
	current string
	master  []library.Book
	filter  library.Filter
	sort    SortMode
	genres  []string
	viewIdx []int // master index of each row of the last Books() view
	now     func() time.Time
}

// New opens a session on the store's current library.
func New(s *store.Store) *Session {
	sess := &Session{store: s, now: time.Now}
	sess.activate(s.Current())
	return sess
}

// activate loads a library into the master list, stamping missing added
// dates and rebuilding the genre index.
func (s *Session) activate(name string) {
	s.current = name
	s.master = s.store.Load(name)
	library.StampAddedAt(s.master, s.now())
	s.refreshGenres()
}

func (s *Session) refreshGenres() {
	s.genres = library.Genres(s.master)
}

func (s *Session) persist() {
	s.store.Save(s.current, s.master)
}

// Current returns the active library name.
func (s *Session) Current() string { return s.current }

// Libraries returns every library name in stored order.
func (s *Session) Libraries() []string { return s.store.List() }

// Genres returns the distinct genres present in the master list, sorted.
func (s *Session) Genres() []string {
	out := make([]string, len(s.genres))
	copy(out, s.genres)
	return out
}

// Len returns the master list size, before filtering.
func (s *Session) Len() int { return len(s.master) }

// LibrarySizes returns the book count of every library. The active library
// is counted from the in-memory master list, which may be ahead of the store.
func (s *Session) LibrarySizes() map[string]int {
	names := s.store.List()
	sizes := make(map[string]int, len(names))
	for _, name := range names {
		sizes[name] = len(s.store.Load(name))
	}
	sizes[s.current] = len(s.master)
	return sizes
}

// Filter returns the active filter criteria.
func (s *Session) Filter() library.Filter { return s.filter }

// SetFilter replaces all filter criteria at once.
func (s *Session) SetFilter(f library.Filter) { s.filter = f }

// ResetFilters clears every criterion, restoring the neutral view.
func (s *Session) ResetFilters() { s.filter = library.Filter{} }

// Sort returns the active sort mode.
func (s *Session) Sort() SortMode { return s.sort }

// SetSort switches the view ordering.
func (s *Session) SetSort(mode SortMode) { s.sort = mode }

// Books returns the filtered, sorted view. The full master list is
// re-scanned on every call; collections are small enough that an index
// would not pay for itself. Each view row's master index is recorded so
// MasterIndex can address the underlying record even when two books carry
// identical field values.
func (s *Session) Books() []library.Book {
	idx := make([]int, 0, len(s.master))
	for i := range s.master {
		if s.filter.Matches(s.master[i]) {
			idx = append(idx, i)
		}
	}
	switch s.sort {
	case SortAddedDate:
		sort.SliceStable(idx, func(a, b int) bool {
			return library.CompareAddedDates(s.master[idx[a]], s.master[idx[b]]) < 0
		})
	default:
		sort.SliceStable(idx, func(a, b int) bool {
			return strings.ToLower(s.master[idx[a]].Title) < strings.ToLower(s.master[idx[b]].Title)
		})
	}
	s.viewIdx = idx

	view := make([]library.Book, len(idx))
	for i, mi := range idx {
		view[i] = s.master[mi]
	}
	return view
}

// MasterIndex maps a row of the most recent Books() view to its index in
// the master list. Returns -1 when the row is out of range.
func (s *Session) MasterIndex(viewIndex int) int {
	if viewIndex < 0 || viewIndex >= len(s.viewIdx) {
		return -1
	}
	return s.viewIdx[viewIndex]
}

// Add validates and appends a new book, then persists.
func (s *Session) Add(b library.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.master = append(s.master, b)
	s.refreshGenres()
	s.persist()
	return nil
}

// Update overwrites the book at a master index with the edited values,
// recomputing the borrow timestamp from the availability transition.
func (s *Session) Update(index int, edited library.Book) error {
	if index < 0 || index >= len(s.master) {
		return nil
	}
	if err := edited.Validate(); err != nil {
		return err
	}
	s.master[index].ApplyEdit(edited, s.now())
	s.refreshGenres()
	s.persist()
	return nil
}

// Remove deletes the book at a master index and persists.
func (s *Session) Remove(index int) {
	if index < 0 || index >= len(s.master) {
		return
	}
	s.master = append(s.master[:index], s.master[index+1:]...)
	s.refreshGenres()
	s.persist()
}

// Switch saves the outgoing library, then activates another one. Filters
// reset so the new library starts from the neutral view.
func (s *Session) Switch(name string) {
	if name == s.current {
		return
	}
	s.persist()
	s.store.SetCurrent(name)
	if s.store.Current() != name { // unknown name was ignored
		return
	}
	s.activate(name)
	s.ResetFilters()
}

// CreateLibrary makes a new empty library current and switches to it.
func (s *Session) CreateLibrary(name string) bool {
	s.persist()
	if !s.store.Create(name) {
		return false
	}
	s.activate(name)
	s.ResetFilters()
	return true
}

// RenameLibrary renames the active library in place.
func (s *Session) RenameLibrary(newName string) bool {
	if !s.store.Rename(s.current, newName) {
		return false
	}
	s.current = newName
	return true
}

// DeleteLibrary removes the active library and activates the store's
// successor. Fails on the last remaining library.
func (s *Session) DeleteLibrary() bool {
	if !s.store.Delete(s.current) {
		return false
	}
	s.activate(s.store.Current())
	s.ResetFilters()
	return true
}

// Reload discards the in-memory master list and re-reads the store cache.
func (s *Session) Reload() {
	s.activate(s.current)
}

// Flush forces a synchronous write of everything pending.
func (s *Session) Flush() error {
	s.persist()
	return s.store.Flush()
}
