// Package store persists every named library in a single JSON document.
//
// All reads are served from an in-memory cache loaded once at Open.
// Mutations update the cache synchronously and arm a debounce timer; only
// the latest snapshot ever reaches disk, through an atomic temp-file
// replace. The cache is the source of truth — disk is an eventually
// consistent projection of it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"biblio/internal/library"
	"biblio/internal/util"
)

// DefaultDebounce is the quiet period collapsing rapid mutations into a
// single disk write.
const DefaultDebounce = 300 * time.Millisecond

// Store owns the multi-library document and its persistence pipeline.
type Store struct {
	path     string
	debounce time.Duration

	mu    sync.Mutex // guards doc and timer
	doc   document
	timer *time.Timer

	writeMu sync.Mutex // serializes disk writes so they never overlap
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithDebounce overrides the write-debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// Open loads (or initializes) the data file at path and returns a ready
// store. A missing file is created with one empty default library; a legacy
// bare-array file is migrated and re-persisted immediately; an unreadable
// or unrecognizable file falls back to a fresh in-memory document rather
// than surfacing an error.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.doc = freshDocument()
		if err := s.writeNow(); err != nil {
			return nil, fmt.Errorf("initializing data file: %w", err)
		}
	case err != nil:
		// Unreadable file: serve an empty default from memory. It is only
		// persisted by the next mutation, never over the unread original.
		s.doc = freshDocument()
	default:
		doc, migrated, decodeErr := decodeDocument(data)
		s.doc = doc
		if migrated || decodeErr != nil {
			// Migrated legacy shape, or reset after an unrecognized shape:
			// persist the new form right away.
			if err := s.writeNow(); err != nil {
				return nil, fmt.Errorf("rewriting data file: %w", err)
			}
		}
	}

	return s, nil
}

// List returns all library names in stored insertion order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Libraries.Names()
}

// Current returns the name of the current library.
func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Current
}

// SetCurrent switches the current library. Unknown names are ignored.
func (s *Store) SetCurrent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Libraries.Has(name) {
		return
	}
	s.doc.Current = name
	s.scheduleWrite()
}

// Load returns a defensive copy of a library's books with reading statuses
// normalized. A missing name yields an empty slice and creates nothing.
func (s *Store) Load(name string) []library.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	books, _ := s.doc.Libraries.Get(name)
	out := make([]library.Book, len(books))
	copy(out, books)
	for i := range out {
		out[i].ReadingStatus = out[i].Status()
	}
	return out
}

// Save replaces a library's books wholesale, creating the key if absent.
func (s *Store) Save(name string, books []library.Book) {
	cp := make([]library.Book, len(books))
	copy(cp, books)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Libraries.Set(name, cp)
	s.scheduleWrite()
}

// Create adds a new empty library and makes it current. Returns false
// without side effects when the name is blank or already taken.
func (s *Store) Create(name string) bool {
	if isBlank(name) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Libraries.Has(name) {
		return false
	}
	s.doc.Libraries.Set(name, []library.Book{})
	s.doc.Current = name
	s.scheduleWrite()
	return true
}

// Rename moves a library to a new name, preserving its books and following
// the current pointer. Returns false when oldName is absent, newName is
// blank, or newName is already taken.
func (s *Store) Rename(oldName, newName string) bool {
	if isBlank(newName) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Libraries.Rename(oldName, newName) {
		return false
	}
	if s.doc.Current == oldName {
		s.doc.Current = newName
	}
	s.scheduleWrite()
	return true
}

// Delete removes a library. The last remaining library can never be
// deleted. Deleting the current library promotes the first remaining one
// in insertion order — deterministic, unlike iteration over a plain map.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Libraries.Len() <= 1 {
		return false
	}
	if !s.doc.Libraries.Delete(name) {
		return false
	}
	if s.doc.Current == name {
		s.doc.Current = s.doc.Libraries.First()
	}
	s.scheduleWrite()
	return true
}

// Flush cancels any pending debounce and writes the cache to disk now.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.writeNow()
}

// Close flushes pending state. The store must not be used afterwards.
func (s *Store) Close() error {
	return s.Flush()
}

// scheduleWrite re-arms the debounce timer. Callers must hold s.mu; a
// mutation arriving before the timer fires replaces the pending write, so
// rapid edits collapse into one disk write of the latest snapshot.
func (s *Store) scheduleWrite() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		_ = s.writeNow()
	})
}

// writeNow serializes the cached document and replaces the data file
// atomically: write to a temp file in the same directory, then rename over
// the target. If the rename fails (some filesystems), fall back to a copy
// that still leaves the destination fully old or fully new for any reader
// opening it after the replace.
func (s *Store) writeNow() error {
	s.mu.Lock()
	data, err := json.Marshal(s.doc)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding data file: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		if cpErr := util.CopyFile(tmp, s.path); cpErr != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("replacing data file: %w", cpErr)
		}
		_ = os.Remove(tmp)
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
