// Package arxiv provides the literature-search tools backed by the
// arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://export.arxiv.org/api/query"

	// DefaultK is the result-count cap applied at the tool boundary.
	DefaultK = 10
)

// sort criteria accepted by the arXiv API.
const (
	sortSubmittedDate = "submittedDate"
	sortRelevance     = "relevance"
)

// Client queries the arXiv Atom API.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates an arXiv client with a modest timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// search runs one query and renders each entry as a text snippet, capped
// at k results.
func (c *Client) search(ctx context.Context, query string, k int, sortBy string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("arxiv: query is empty")
	}
	if k < 1 {
		k = DefaultK
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", strconv.Itoa(k))
	params.Set("sortBy", sortBy)
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: http %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	results := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		results = append(results, renderEntry(e))
		if len(results) >= k {
			break
		}
	}
	return results, nil
}

type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
}

type author struct {
	Name string `xml:"name"`
}

// renderEntry formats one feed entry as a self-contained text snippet.
func renderEntry(e entry) string {
	names := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		names = append(names, strings.TrimSpace(a.Name))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", collapseWhitespace(e.Title))
	fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "Published: %s\n", strings.TrimSpace(e.Published))
	fmt.Fprintf(&sb, "Link: %s\n", strings.TrimSpace(e.ID))
	fmt.Fprintf(&sb, "Summary: %s", collapseWhitespace(e.Summary))
	return sb.String()
}

// collapseWhitespace flattens the Atom feed's hard-wrapped text fields.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
