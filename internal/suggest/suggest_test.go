package suggest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"biblio/internal/suggest"
)

const volumesFixture = `{
  "items": [
    {
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert", "Someone Else"],
        "publishedDate": "1965-08-01",
        "categories": ["Science Fiction"],
        "description": "Arrakis.",
        "imageLinks": {
          "thumbnail": "http://books.example.com/dune-thumb.jpg",
          "large": "http://books.example.com/dune-large.jpg"
        }
      }
    },
    {
      "volumeInfo": {
        "title": "Untitled date",
        "publishedDate": "19xx",
        "imageLinks": {
          "smallThumbnail": "https://books.example.com/small.jpg"
        }
      }
    },
    {
      "volumeInfo": {
        "authors": ["No Title"]
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *suggest.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return suggest.NewClient(srv.URL, 5)
}

func TestFetch_ParsesCandidates(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("maxResults") != "5" {
			t.Errorf("maxResults = %q", r.URL.Query().Get("maxResults"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesFixture))
	})

	cands := c.Fetch(context.Background(), "dune messiah")
	if gotQuery != "dune messiah" {
		t.Errorf("query sent = %q", gotQuery)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates (title required), got %d", len(cands))
	}

	first := cands[0]
	if first.Title != "Dune" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Author != "Frank Herbert" {
		t.Errorf("Author = %q, want first listed only", first.Author)
	}
	if first.Year != 1965 {
		t.Errorf("Year = %d", first.Year)
	}
	// "Science Fiction" maps via the fiction keyword, not the fantasy group.
	if first.Genre != "Roman" {
		t.Errorf("Genre = %q, want Roman", first.Genre)
	}
	if first.Summary != "Arrakis." {
		t.Errorf("Summary = %q", first.Summary)
	}
	// large beats thumbnail, and http upgrades to https.
	if first.CoverURL != "https://books.example.com/dune-large.jpg" {
		t.Errorf("CoverURL = %q", first.CoverURL)
	}

	second := cands[1]
	if second.Year != 0 {
		t.Errorf("non-numeric date should yield no year, got %d", second.Year)
	}
	if second.CoverURL != "https://books.example.com/small.jpg" {
		t.Errorf("CoverURL = %q", second.CoverURL)
	}
}

func TestFetch_ShortQueryRefused(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for short query")
	})
	if got := c.Fetch(context.Background(), " d "); got != nil {
		t.Errorf("Fetch(short) = %v", got)
	}
}

func TestFetch_FailuresAreSilent(t *testing.T) {
	// HTTP error status.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	if got := c.Fetch(context.Background(), "dune"); got != nil {
		t.Errorf("Fetch on 500 = %v", got)
	}

	// Malformed body.
	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	if got := c.Fetch(context.Background(), "dune"); got != nil {
		t.Errorf("Fetch on bad JSON = %v", got)
	}

	// Unreachable server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := suggest.NewClient(srv.URL, 5)
	srv.Close()
	if got := dead.Fetch(context.Background(), "dune"); got != nil {
		t.Errorf("Fetch on dead server = %v", got)
	}

	// Empty result set is also just nil.
	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	})
	if got := c.Fetch(context.Background(), "zzz"); got != nil {
		t.Errorf("Fetch on empty = %v", got)
	}
}

func TestCandidateString(t *testing.T) {
	c := suggest.Candidate{Title: "Dune", Author: "Herbert"}
	if c.String() != "Dune — Herbert" {
		t.Errorf("String = %q", c.String())
	}
	if (suggest.Candidate{Title: "Dune"}).String() != "Dune" {
		t.Error("authorless String should be bare title")
	}
}
