// Package suggest queries the Google Books volumes endpoint for metadata
// candidates during book entry. It is strictly best-effort: any transport,
// HTTP or parse failure yields no candidates and no error, so a dead
// network never degrades the add/edit flow beyond missing suggestions.
package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"biblio/internal/library"
)

// DefaultEndpoint is the public Google Books search endpoint.
const DefaultEndpoint = "https://www.googleapis.com/books/v1/volumes"

// MinQueryLen is the shortest query worth sending. Enforcing it is the
// caller's job; the fetcher itself just refuses shorter input.
const MinQueryLen = 2

// Candidate is one suggested set of metadata values. Candidates are
// offered, never auto-applied over existing non-blank user input.
type Candidate struct {
	Title    string
	Author   string // first listed author only
	Year     int    // 0 when the published date has no leading year
	Genre    string // mapped into the known taxonomy, "" when unmapped
	Summary  string
	CoverURL string
}

func (c Candidate) String() string {
	if c.Author == "" {
		return c.Title
	}
	return c.Title + " — " + c.Author
}

// Client fetches suggestion candidates.
type Client struct {
	endpoint   string
	maxResults int
	httpc      *http.Client
}

// NewClient returns a client against the given endpoint. A short timeout
// keeps a hung responder from pinning the fetch worker.
func NewClient(endpoint string, maxResults int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		endpoint:   endpoint,
		maxResults: maxResults,
		httpc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// volumesResponse is the subset of the volumes payload we read.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			PublishedDate string   `json:"publishedDate"`
			Categories    []string `json:"categories"`
			Description   string   `json:"description"`
			ImageLinks    struct {
				ExtraLarge     string `json:"extraLarge"`
				Large          string `json:"large"`
				Medium         string `json:"medium"`
				Small          string `json:"small"`
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Fetch runs one search and returns candidates, best first. Returns nil on
// any failure — callers cannot distinguish "no results" from "no network",
// and are not supposed to.
func (c *Client) Fetch(ctx context.Context, query string) []Candidate {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLen {
		return nil
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var data volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil
	}

	var out []Candidate
	for _, item := range data.Items {
		vi := item.VolumeInfo
		if vi.Title == "" {
			continue
		}
		cand := Candidate{
			Title:   vi.Title,
			Year:    leadingYear(vi.PublishedDate),
			Summary: vi.Description,
		}
		if len(vi.Authors) > 0 {
			cand.Author = vi.Authors[0]
		}
		if len(vi.Categories) > 0 {
			cand.Genre = library.MapCategory(vi.Categories[0])
		}
		cand.CoverURL = bestCover(
			vi.ImageLinks.ExtraLarge,
			vi.ImageLinks.Large,
			vi.ImageLinks.Medium,
			vi.ImageLinks.Small,
			vi.ImageLinks.Thumbnail,
			vi.ImageLinks.SmallThumbnail,
		)
		out = append(out, cand)
	}
	return out
}

// leadingYear extracts the year from a date-like field ("1965-08-01",
// "1965"). Only accepted when the first four characters are all digits.
func leadingYear(published string) int {
	if len(published) < 4 {
		return 0
	}
	head := published[:4]
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0
		}
	}
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}

// bestCover picks the first non-empty URL in resolution preference order
// and upgrades a bare http scheme; the covers host serves both.
func bestCover(urls ...string) string {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "http:") {
			u = "https:" + u[len("http:"):]
		}
		return u
	}
	return ""
}
