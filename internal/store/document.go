package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"biblio/internal/library"
)

// DefaultLibrary is the collection created on first run and the key a legacy
// single-list data file is migrated under.
const DefaultLibrary = "Bibliothèque"

// document is the single persisted structure: the name of the current
// library plus every library keyed by name.
type document struct {
	Current   string      `json:"current"`
	Libraries collections `json:"libraries"`
}

// collections is an insertion-ordered map from library name to its books.
// encoding/json sorts plain map keys on output, which would lose the
// on-disk ordering the library switcher relies on, so both directions are
// hand-rolled: marshaling walks the recorded order, unmarshaling records
// keys in the order the decoder yields them.
type collections struct {
	order []string
	items map[string][]library.Book
}

func newCollections() collections {
	return collections{items: make(map[string][]library.Book)}
}

func (c collections) Len() int { return len(c.order) }

func (c collections) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Names returns the library names in insertion order.
func (c collections) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// First returns the first library name in insertion order, or "".
func (c collections) First() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

func (c collections) Get(name string) ([]library.Book, bool) {
	books, ok := c.items[name]
	return books, ok
}

// Set stores books under name, appending the key when it is new.
func (c *collections) Set(name string, books []library.Book) {
	if c.items == nil {
		c.items = make(map[string][]library.Book)
	}
	if _, ok := c.items[name]; !ok {
		c.order = append(c.order, name)
	}
	c.items[name] = books
}

// Delete removes a library. Reports whether it existed.
func (c *collections) Delete(name string) bool {
	if _, ok := c.items[name]; !ok {
		return false
	}
	delete(c.items, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves the book sequence to a new key. The renamed library moves to
// the end of the iteration order, matching a delete-then-insert.
func (c *collections) Rename(oldName, newName string) bool {
	books, ok := c.items[oldName]
	if !ok || c.Has(newName) {
		return false
	}
	c.Delete(oldName)
	c.Set(newName, books)
	return true
}

// MarshalJSON writes the libraries as a JSON object in insertion order.
func (c collections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		books := c.items[name]
		if books == nil {
			books = []library.Book{}
		}
		val, err := json.Marshal(books)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording key order as it decodes.
func (c *collections) UnmarshalJSON(data []byte) error {
	*c = newCollections()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // JSON null
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("libraries: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("libraries: unexpected key token %v", keyTok)
		}
		var books []library.Book
		if err := dec.Decode(&books); err != nil {
			return fmt.Errorf("libraries[%q]: %w", name, err)
		}
		if books == nil {
			books = []library.Book{}
		}
		c.Set(name, books)
	}
	_, err = dec.Token() // closing '}'
	return err
}

// freshDocument is the state written on first run and the fallback when the
// data file cannot be parsed at all.
func freshDocument() document {
	doc := document{Current: DefaultLibrary, Libraries: newCollections()}
	doc.Libraries.Set(DefaultLibrary, []library.Book{})
	return doc
}

// decodeDocument tries the two accepted on-disk shapes in order: the
// multi-library document first, then the legacy bare book array (wrapped
// under the default name). The second return reports whether a legacy file
// was migrated. Anything else fails closed to a fresh empty document.
func decodeDocument(data []byte) (document, bool, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Libraries.Len() > 0 {
		if !doc.Libraries.Has(doc.Current) {
			doc.Current = doc.Libraries.First()
		}
		return doc, false, nil
	}

	var legacy []library.Book
	if err := json.Unmarshal(data, &legacy); err == nil && legacy != nil {
		doc := document{Current: DefaultLibrary, Libraries: newCollections()}
		doc.Libraries.Set(DefaultLibrary, legacy)
		return doc, true, nil
	}

	return freshDocument(), false, fmt.Errorf("unrecognized data file shape")
}
