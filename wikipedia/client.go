// Package wikipedia provides the encyclopedia-lookup tool backed by the
// Wikipedia REST API.
//
// Disambiguation pages do not abort the lookup: the tool returns a
// notice listing the candidate titles, folded into the first snippet,
// followed by summaries of the candidates, still capped at k results.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/curate"
	"github.com/fwojciec/curate/toolbox"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

	// DefaultK is the result-count cap applied at the tool boundary.
	DefaultK = 5
)

var errNotFound = errors.New("page not found")

// Client queries the Wikipedia REST API.
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

// NewClient creates a Wikipedia client with a modest timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns up to k text snippets for the term.
func (c *Client) Lookup(ctx context.Context, term string, k int) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("wikipedia: term is empty")
	}
	if k < 1 {
		k = DefaultK
	}

	page, err := c.summary(ctx, term)
	if errors.Is(err, errNotFound) {
		return []string{fmt.Sprintf("No Wikipedia page found for '%s'", term)}, nil
	}
	if err != nil {
		return nil, err
	}

	if page.kind != "disambiguation" {
		return []string{page.extract}, nil
	}
	return c.disambiguate(ctx, term, k)
}

// disambiguate lists candidate pages for an ambiguous term. The notice
// rides along in the first snippet's text channel.
func (c *Client) disambiguate(ctx context.Context, term string, k int) ([]string, error) {
	pages, err := c.related(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(pages) > k {
		pages = pages[:k]
	}

	titles := make([]string, 0, len(pages))
	for _, p := range pages {
		titles = append(titles, p.title)
	}
	notice := fmt.Sprintf("Disambiguation for '%s':\n%s", term, strings.Join(titles, "\n"))

	results := make([]string, 0, k)
	for _, p := range pages {
		if p.extract == "" {
			continue
		}
		if len(results) == 0 {
			results = append(results, notice+"\n\n"+p.extract)
			continue
		}
		results = append(results, p.extract)
	}
	if len(results) == 0 {
		results = append(results, notice)
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

type page struct {
	title   string
	kind    string
	extract string
}

// summary fetches the lead-section summary for a title.
func (c *Client) summary(ctx context.Context, title string) (page, error) {
	body, status, err := c.get(ctx, "/page/summary/"+url.PathEscape(title))
	if err != nil {
		return page{}, err
	}
	if status == http.StatusNotFound {
		return page{}, errNotFound
	}
	if status != http.StatusOK {
		return page{}, fmt.Errorf("wikipedia: http %d", status)
	}
	return page{
		title:   gjson.GetBytes(body, "titles.normalized").String(),
		kind:    gjson.GetBytes(body, "type").String(),
		extract: gjson.GetBytes(body, "extract").String(),
	}, nil
}

// related fetches pages related to a title, used to resolve
// disambiguation pages into concrete candidates.
func (c *Client) related(ctx context.Context, title string) ([]page, error) {
	body, status, err := c.get(ctx, "/page/related/"+url.PathEscape(title))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: http %d", status)
	}

	var pages []page
	gjson.GetBytes(body, "pages").ForEach(func(_, v gjson.Result) bool {
		pages = append(pages, page{
			title:   v.Get("titles.normalized").String(),
			kind:    v.Get("type").String(),
			extract: v.Get("extract").String(),
		})
		return true
	})
	return pages, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("wikipedia: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("wikipedia: read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Tool returns the spec and handler for the encyclopedia lookup.
func Tool(c *Client) (curate.ToolSpec, toolbox.Func) {
	spec := curate.ToolSpec{
		Name:        "wikipedia_term_search",
		Description: "Fetch the top k Wikipedia search results for the given term.",
		Params: []curate.Param{
			{Name: "term", Type: curate.ParamString},
			{Name: "k", Type: curate.ParamInteger, Default: DefaultK},
		},
	}
	fn := func(ctx context.Context, args map[string]any) ([]string, error) {
		return c.Lookup(ctx, toolbox.StringArg(args, "term"), toolbox.IntArg(args, "k"))
	}
	return spec, fn
}
