// Package hfpapers scrapes the Hugging Face daily-papers listing into
// normalized paper descriptions.
//
// There is no official API for the listing; the page embeds the paper
// data as a JSON blob in the data-props attribute of the DailyPapers
// hydration div, which is extracted and decoded here.
package hfpapers

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/curate"
	"github.com/tidwall/gjson"
)

// DefaultURL is the Hugging Face daily-papers listing.
const DefaultURL = "https://huggingface.co/papers"

// Interface compliance check.
var _ curate.Source = (*Scraper)(nil)

// Scraper implements [curate.Source] for the daily-papers page.
type Scraper struct {
	url    string
	client *http.Client
}

// Option configures a [Scraper].
type Option func(*Scraper)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) { s.client = hc }
}

// New creates a Scraper for the given listing URL. An empty url means
// [DefaultURL].
func New(url string, opts ...Option) *Scraper {
	if url == "" {
		url = DefaultURL
	}
	s := &Scraper{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// The hydration div carries both attributes; their order is not stable.
var (
	rePropsAfter  = regexp.MustCompile(`data-target="DailyPapers"[^>]*\bdata-props="([^"]*)"`)
	rePropsBefore = regexp.MustCompile(`\bdata-props="([^"]*)"[^>]*data-target="DailyPapers"`)
)

// Produce fetches the listing and returns one rendered description per
// paper, in page order.
func (s *Scraper) Produce(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hfpapers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hfpapers: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hfpapers: read listing: %w", err)
	}

	props, err := extractProps(string(body))
	if err != nil {
		return nil, err
	}

	var papers []string
	gjson.Get(props, "dailyPapers").ForEach(func(_, v gjson.Result) bool {
		papers = append(papers, renderPaper(v.Get("paper")))
		return true
	})
	if len(papers) == 0 {
		return nil, fmt.Errorf("hfpapers: listing contains no papers")
	}
	return papers, nil
}

// extractProps pulls the JSON blob out of the DailyPapers hydration div.
func extractProps(page string) (string, error) {
	m := rePropsAfter.FindStringSubmatch(page)
	if m == nil {
		m = rePropsBefore.FindStringSubmatch(page)
	}
	if m == nil {
		return "", fmt.Errorf("hfpapers: DailyPapers data not found in listing")
	}
	return html.UnescapeString(m[1]), nil
}

// renderPaper formats one paper's metadata as a self-contained
// human-readable description.
func renderPaper(paper gjson.Result) string {
	var names []string
	paper.Get("authors").ForEach(func(_, a gjson.Result) bool {
		if name := a.Get("name").String(); name != "" {
			names = append(names, name)
		}
		return true
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", strings.TrimSpace(paper.Get("title").String()))
	fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "Published: %s\n", paper.Get("publishedAt").String())
	fmt.Fprintf(&sb, "Upvotes: %d\n", paper.Get("upvotes").Int())
	fmt.Fprintf(&sb, "Summary: %s", strings.TrimSpace(paper.Get("summary").String()))
	return sb.String()
}
