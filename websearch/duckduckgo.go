// Package websearch provides the generic web-search tool backed by the
// DuckDuckGo lite HTML interface.
package websearch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/curate"
	"github.com/fwojciec/curate/toolbox"
)

const (
	defaultEndpoint = "https://lite.duckduckgo.com/lite/"

	// DefaultK is the result-count cap applied at the tool boundary.
	DefaultK = 5

	// maxSnippetChars bounds each snippet's body text. Generic search
	// results are the one tool output with unbounded source length.
	maxSnippetChars = 1024
)

// rateLimit enforces a global limit of 1 query per second across all
// Client instances.
var rateLimit struct {
	mu   sync.Mutex
	last time.Time
}

// Client scrapes the DuckDuckGo lite HTML page for results.
type Client struct {
	endpoint string
	client   *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithEndpoint sets the search endpoint. Useful for testing with
// httptest.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a DuckDuckGo searcher with a modest timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search returns up to k snippets of the form "Link: <url>\nText: <body>",
// with each body truncated to 1024 characters.
func (c *Client) Search(ctx context.Context, term string, k int) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("websearch: term is empty")
	}
	if k < 1 {
		k = DefaultK
	}

	if err := waitForSlot(ctx); err != nil {
		return nil, err
	}

	body, err := c.fetch(ctx, term)
	if err != nil {
		return nil, err
	}

	results := parseResults(body)
	snippets := make([]string, 0, k)
	for _, r := range results {
		text := r.body
		if len(text) > maxSnippetChars {
			text = text[:maxSnippetChars]
		}
		snippets = append(snippets, fmt.Sprintf("Link: %s\nText: %s\n", r.href, text))
		if len(snippets) >= k {
			break
		}
	}
	return snippets, nil
}

// waitForSlot blocks until the global 1 QPS limit allows another query.
func waitForSlot(ctx context.Context) error {
	rateLimit.mu.Lock()
	if wait := time.Until(rateLimit.last.Add(time.Second)); wait > 0 {
		rateLimit.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		rateLimit.mu.Lock()
	}
	rateLimit.last = time.Now()
	rateLimit.mu.Unlock()
	return nil
}

func (c *Client) fetch(ctx context.Context, term string) (string, error) {
	form := url.Values{}
	form.Set("q", term)

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = c.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("websearch: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay up to 30s.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("websearch: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("websearch: read response: %w", err)
	}
	return string(body), nil
}

type result struct {
	href string
	body string
}

var (
	// The lite page marks result links with class result-link and
	// snippets with class result-snippet.
	reLink        = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>`)
	reLinkAlt     = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>`)
	reSnippet     = regexp.MustCompile(`(?s)<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)
	reInlineTags  = regexp.MustCompile(`<[^>]+>`)
	reWhitespaces = regexp.MustCompile(`\s+`)
)

// parseResults extracts result links and snippets from the lite HTML.
func parseResults(page string) []result {
	links := reLink.FindAllStringSubmatch(page, -1)
	if len(links) == 0 {
		links = reLinkAlt.FindAllStringSubmatch(page, -1)
	}
	snippets := reSnippet.FindAllStringSubmatch(page, -1)

	results := make([]result, 0, len(links))
	for i, m := range links {
		body := ""
		if i < len(snippets) {
			body = cleanHTML(snippets[i][1])
		}
		results = append(results, result{href: strings.TrimSpace(m[1]), body: body})
	}
	return results
}

func cleanHTML(s string) string {
	s = reInlineTags.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(reWhitespaces.ReplaceAllString(s, " "))
}

// Tool returns the spec and handler for the generic web search.
func Tool(c *Client) (curate.ToolSpec, toolbox.Func) {
	spec := curate.ToolSpec{
		Name:        "generic_internet_term_search",
		Description: "Perform a web search for the given term using a generic search engine. Returns the top k results with snippets limited to 1024 characters.",
		Params: []curate.Param{
			{Name: "term", Type: curate.ParamString},
			{Name: "k", Type: curate.ParamInteger, Default: DefaultK},
		},
	}
	fn := func(ctx context.Context, args map[string]any) ([]string, error) {
		return c.Search(ctx, toolbox.StringArg(args, "term"), toolbox.IntArg(args, "k"))
	}
	return spec, fn
}
