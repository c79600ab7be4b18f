package library_test

import (
	"encoding/json"
	"testing"
	"time"

	"biblio/internal/library"
)

func TestJSONRoundTrip(t *testing.T) {
	b := library.Book{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Year:          1965,
		Genre:         "Roman",
		Available:     false,
		ReadingStatus: library.StatusInProgress,
		Summary:       "Spice and sand.",
		CoverURL:      "https://example.com/dune.jpg",
		AddedAt:       1700000000000,
		BorrowedAt:    1700000001000,
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got library.Book
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != b {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, b)
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(library.Book{Title: "A", Author: "B", Year: 2000, AddedAt: 1})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"title", "author", "year", "genre", "available", "readingStatus", "addedAt"} {
		if _, ok := m[field]; !ok {
			t.Errorf("serialized book missing field %q (got %v)", field, m)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := library.Book{Title: "T", Author: "A", Year: 2000}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid book rejected: %v", err)
	}

	cases := []struct {
		name string
		book library.Book
	}{
		{"blank title", library.Book{Title: "  ", Author: "A", Year: 2000}},
		{"blank author", library.Book{Title: "T", Author: "", Year: 2000}},
		{"year too small", library.Book{Title: "T", Author: "A", Year: -1}},
		{"year too large", library.Book{Title: "T", Author: "A", Year: 10000}},
	}
	for _, tc := range cases {
		if err := tc.book.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestStatusDefaults(t *testing.T) {
	if got := (library.Book{}).Status(); got != library.StatusNotStarted {
		t.Errorf("Status() on zero book = %q, want %q", got, library.StatusNotStarted)
	}
	if got := (library.Book{ReadingStatus: "  "}).Status(); got != library.StatusNotStarted {
		t.Errorf("Status() on blank = %q, want %q", got, library.StatusNotStarted)
	}
	if got := (library.Book{ReadingStatus: library.StatusFinished}).Status(); got != library.StatusFinished {
		t.Errorf("Status() = %q, want %q", got, library.StatusFinished)
	}
}

func TestNewBookDefaults(t *testing.T) {
	now := time.Now()
	b := library.New("T", "A", 2020, "", now)
	if !b.Available {
		t.Error("new book should be available")
	}
	if b.Genre != library.GenreOther {
		t.Errorf("genre = %q, want %q", b.Genre, library.GenreOther)
	}
	if b.AddedAt != now.UnixMilli() {
		t.Errorf("addedAt = %d, want %d", b.AddedAt, now.UnixMilli())
	}
	if b.BorrowedAt != 0 {
		t.Errorf("borrowedAt = %d, want 0", b.BorrowedAt)
	}
}

func TestApplyEdit_BorrowTransitions(t *testing.T) {
	now := time.Now()

	// available -> lent stamps the borrow time
	b := library.New("T", "A", 2020, "Roman", now)
	edited := b
	edited.Available = false
	b.ApplyEdit(edited, now)
	if b.BorrowedAt != now.UnixMilli() {
		t.Errorf("borrow transition: borrowedAt = %d, want %d", b.BorrowedAt, now.UnixMilli())
	}

	// lent -> available clears it
	edited = b
	edited.Available = true
	b.ApplyEdit(edited, now.Add(time.Hour))
	if b.BorrowedAt != 0 {
		t.Errorf("return transition: borrowedAt = %d, want 0", b.BorrowedAt)
	}

	// no transition: unavailable book missing a timestamp gets one anyway
	b = library.Book{Title: "T", Author: "A", Year: 2020, Available: false}
	edited = b
	b.ApplyEdit(edited, now)
	if b.BorrowedAt != now.UnixMilli() {
		t.Errorf("invariant repair: borrowedAt = %d, want %d", b.BorrowedAt, now.UnixMilli())
	}
}

func TestApplyEdit_PreservesAddedAt(t *testing.T) {
	now := time.Now()
	b := library.New("T", "A", 2020, "Roman", now)
	edited := library.Book{Title: "T2", Author: "A2", Year: 2021, Genre: "Essai", Available: true}
	b.ApplyEdit(edited, now.Add(time.Hour))
	if b.AddedAt != now.UnixMilli() {
		t.Errorf("addedAt changed on edit: %d, want %d", b.AddedAt, now.UnixMilli())
	}
	if b.Title != "T2" || b.Genre != "Essai" {
		t.Errorf("edit not applied: %+v", b)
	}
}

func TestStampAddedAt(t *testing.T) {
	now := time.Now()
	books := []library.Book{
		{Title: "old", AddedAt: 123},
		{Title: "missing"},
		{Title: "negative", AddedAt: -1},
	}
	library.StampAddedAt(books, now)
	if books[0].AddedAt != 123 {
		t.Errorf("existing timestamp overwritten: %d", books[0].AddedAt)
	}
	for _, i := range []int{1, 2} {
		if books[i].AddedAt != now.UnixMilli() {
			t.Errorf("books[%d].AddedAt = %d, want %d", i, books[i].AddedAt, now.UnixMilli())
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := library.FormatDate(0); got != "—" {
		t.Errorf("FormatDate(0) = %q, want em dash", got)
	}
	ts := time.Date(2024, 3, 9, 15, 4, 5, 0, time.Local).UnixMilli()
	if got := library.FormatDate(ts); got != "09/03/2024" {
		t.Errorf("FormatDate = %q, want 09/03/2024", got)
	}
}
