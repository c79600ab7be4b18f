package session_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"biblio/internal/library"
	"biblio/internal/session"
	"biblio/internal/store"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.json")
	s, err := store.Open(path, store.WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return session.New(s)
}

func mustAdd(t *testing.T, s *session.Session, b library.Book) {
	t.Helper()
	if err := s.Add(b); err != nil {
		t.Fatalf("Add(%s): %v", b.Title, err)
	}
}

func TestAdd_Validates(t *testing.T) {
	s := newSession(t)
	if err := s.Add(library.Book{Title: "", Author: "A", Year: 1}); err == nil {
		t.Error("invalid book accepted")
	}
	if s.Len() != 0 {
		t.Error("rejected book reached the master list")
	}

	mustAdd(t, s, library.New("Dune", "Herbert", 1965, "Roman", time.Now()))
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestGenreIndexFollowsEdits(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("A", "x", 1, "Roman", time.Now()))
	mustAdd(t, s, library.New("B", "y", 2, "Essai", time.Now()))

	if got := s.Genres(); !reflect.DeepEqual(got, []string{"Essai", "Roman"}) {
		t.Fatalf("Genres = %v", got)
	}

	// Deleting the only Essai drops it from the index.
	essaiRow := -1
	for i, b := range s.Books() {
		if b.Genre == "Essai" {
			essaiRow = i
		}
	}
	s.Remove(s.MasterIndex(essaiRow))
	if got := s.Genres(); !reflect.DeepEqual(got, []string{"Roman"}) {
		t.Errorf("Genres after delete = %v", got)
	}
}

func TestUpdate_AvailabilityTransition(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("Dune", "Herbert", 1965, "Roman", time.Now()))

	view := s.Books()
	edited := view[0]
	edited.Available = false
	if err := s.Update(s.MasterIndex(0), edited); err != nil {
		t.Fatal(err)
	}

	got := s.Books()[0]
	if got.Available {
		t.Error("availability edit not applied")
	}
	if got.BorrowedAt <= 0 {
		t.Error("borrow timestamp not stamped on lend transition")
	}

	edited = got
	edited.Available = true
	if err := s.Update(s.MasterIndex(0), edited); err != nil {
		t.Fatal(err)
	}
	if got = s.Books()[0]; got.BorrowedAt != 0 {
		t.Error("borrow timestamp not cleared on return transition")
	}
}

func TestSwitch_PersistsOutgoingLibrary(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("only here", "x", 1, "Roman", time.Now()))

	if !s.CreateLibrary("Other") {
		t.Fatal("CreateLibrary failed")
	}
	if s.Len() != 0 {
		t.Fatalf("new library not empty: %d", s.Len())
	}

	s.Switch(store.DefaultLibrary)
	if s.Len() != 1 || s.Books()[0].Title != "only here" {
		t.Errorf("books lost across switch: %v", s.Books())
	}
}

func TestSwitch_UnknownIgnored(t *testing.T) {
	s := newSession(t)
	s.Switch("ghost")
	if s.Current() != store.DefaultLibrary {
		t.Errorf("switched to unknown library: %q", s.Current())
	}
}

func TestSwitch_ResetsFilters(t *testing.T) {
	s := newSession(t)
	s.CreateLibrary("Other")
	s.SetFilter(library.Filter{Query: "zz"})
	s.Switch(store.DefaultLibrary)
	if f := s.Filter(); f != (library.Filter{}) {
		t.Errorf("filters survived the switch: %+v", f)
	}
}

func TestRenameAndDeleteLibrary(t *testing.T) {
	s := newSession(t)
	if s.DeleteLibrary() {
		t.Error("deleting the last library should fail")
	}

	s.CreateLibrary("Temp")
	if !s.RenameLibrary("Kept") {
		t.Fatal("rename failed")
	}
	if s.Current() != "Kept" {
		t.Errorf("Current = %q", s.Current())
	}

	if !s.DeleteLibrary() {
		t.Fatal("delete failed")
	}
	if s.Current() != store.DefaultLibrary {
		t.Errorf("successor = %q", s.Current())
	}
}

func TestDuplicateRowsResolveIndependently(t *testing.T) {
	s := newSession(t)
	now := time.Now()
	dup := library.New("Same", "Author", 2000, "Roman", now)
	mustAdd(t, s, dup)
	mustAdd(t, s, dup)

	view := s.Books()
	if len(view) != 2 {
		t.Fatalf("view = %d rows", len(view))
	}

	// Editing the second identical row must leave the first untouched.
	edited := view[1]
	edited.ReadingStatus = library.StatusFinished
	if err := s.Update(s.MasterIndex(1), edited); err != nil {
		t.Fatal(err)
	}

	view = s.Books()
	if view[0].Status() != library.StatusNotStarted {
		t.Errorf("first duplicate absorbed the edit: %q", view[0].Status())
	}
	if view[1].Status() != library.StatusFinished {
		t.Errorf("edit missed its row: %q", view[1].Status())
	}
}

func TestMasterIndex_OutOfRange(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("A", "x", 1, "Roman", time.Now()))
	s.Books()
	if got := s.MasterIndex(-1); got != -1 {
		t.Errorf("MasterIndex(-1) = %d", got)
	}
	if got := s.MasterIndex(1); got != -1 {
		t.Errorf("MasterIndex past the view = %d", got)
	}
}

func TestLibrarySizes(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("A", "x", 1, "Roman", time.Now()))
	s.CreateLibrary("Other")
	mustAdd(t, s, library.New("B", "y", 2, "Essai", time.Now()))
	mustAdd(t, s, library.New("C", "z", 3, "Essai", time.Now()))

	sizes := s.LibrarySizes()
	if sizes[store.DefaultLibrary] != 1 || sizes["Other"] != 2 {
		t.Errorf("sizes = %v", sizes)
	}
}

func TestBooks_DefaultTitleSort(t *testing.T) {
	s := newSession(t)
	mustAdd(t, s, library.New("zeta", "x", 1, "Roman", time.Now()))
	mustAdd(t, s, library.New("Alpha", "y", 2, "Roman", time.Now()))

	view := s.Books()
	if view[0].Title != "Alpha" || view[1].Title != "zeta" {
		t.Errorf("default sort wrong: %v", []string{view[0].Title, view[1].Title})
	}
}
