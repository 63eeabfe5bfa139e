package arxiv_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/curate/arxiv"
	"github.com/fwojciec/curate/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1407.0001v1</id>
    <title>Raft Refloated: Do We Have
      Consensus?</title>
    <summary>  The Raft algorithm was designed to be
      understandable.  </summary>
    <published>2014-07-01T00:00:00Z</published>
    <author><name>Heidi Howard</name></author>
    <author><name>Malte Schwarzkopf</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1407.0002v1</id>
    <title>Second Paper</title>
    <summary>Another summary.</summary>
    <published>2014-07-02T00:00:00Z</published>
    <author><name>Solo Author</name></author>
  </entry>
</feed>`

func TestMostRecentTool(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	spec, fn := arxiv.MostRecentTool(arxiv.NewClient(arxiv.WithBaseURL(srv.URL)))
	assert.Equal(t, "arxiv_fetch_most_recent", spec.Name)

	tb := toolbox.New()
	require.NoError(t, tb.Register(spec, fn))

	got, err := tb.Invoke(context.Background(), spec.Name, []byte(`{"query":"raft consensus"}`))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Contains(t, got[0], "Title: Raft Refloated: Do We Have Consensus?")
	assert.Contains(t, got[0], "Authors: Heidi Howard, Malte Schwarzkopf")
	assert.Contains(t, got[0], "Published: 2014-07-01T00:00:00Z")
	assert.Contains(t, got[0], "Link: http://arxiv.org/abs/1407.0001v1")
	assert.Contains(t, got[0], "Summary: The Raft algorithm was designed to be understandable.")

	// Default k and recency sort flow through to the API query.
	assert.Contains(t, gotQuery, "max_results=10")
	assert.Contains(t, gotQuery, "sortBy=submittedDate")
	assert.Contains(t, gotQuery, "sortOrder=descending")
	assert.Contains(t, gotQuery, "search_query=all%3Araft+consensus")
}

func TestMostRelevantTool_CapsResults(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	spec, fn := arxiv.MostRelevantTool(arxiv.NewClient(arxiv.WithBaseURL(srv.URL)))
	tb := toolbox.New()
	require.NoError(t, tb.Register(spec, fn))

	got, err := tb.Invoke(context.Background(), spec.Name, []byte(`{"query":"raft","k":1}`))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, gotQuery, "sortBy=relevance")
	assert.Contains(t, gotQuery, "max_results=1")
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, fn := arxiv.MostRecentTool(arxiv.NewClient(arxiv.WithBaseURL(srv.URL)))
		_, err := fn(context.Background(), map[string]any{"query": "x", "k": 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http 503")
	})

	t.Run("empty query", func(t *testing.T) {
		t.Parallel()
		_, fn := arxiv.MostRecentTool(arxiv.NewClient())
		_, err := fn(context.Background(), map[string]any{"query": "  ", "k": 5})
		require.Error(t, err)
	})
}
