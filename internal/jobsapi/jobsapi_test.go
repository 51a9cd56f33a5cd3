package jobsapi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/jobrank/internal/postings"
)

// pagedServer serves pages items per page, each page holding perPage items.
func pagedServer(t *testing.T, pages, perPage int, requests *atomic.Int32, gzipped bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if r.URL.Path != SearchPath {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		items := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			n := page*perPage + i
			items = append(items, map[string]any{
				"id":          n,
				"title":       fmt.Sprintf("Go Developer %d", n),
				"company":     "Acme",
				"location":    "Berlin",
				"description": "<p>Go</p>",
				"date_posted": "2024-05-01",
			})
		}

		body := map[string]any{
			"items":    items,
			"found":    pages * perPage,
			"pages":    pages,
			"page":     page,
			"per_page": perPage,
		}

		w.Header().Set("Content-Type", contentType)
		if gzipped {
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			defer gz.Close()
			_ = json.NewEncoder(gz).Encode(body)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestPostingsAllPages(t *testing.T) {
	for _, gzipped := range []bool{false, true} {
		t.Run(fmt.Sprintf("gzip=%v", gzipped), func(t *testing.T) {
			var requests atomic.Int32
			srv := pagedServer(t, 3, 2, &requests, gzipped)
			defer srv.Close()

			c := New(zaptest.NewLogger(t), srv.URL, "secret")
			got, err := c.Postings(context.Background(), postings.Query{})
			require.NoError(t, err)

			assert.Equal(t, int32(3), requests.Load())
			require.Equal(t, 6, got.Len())
			assert.Equal(t, "0", got.Items[0].ID)
			assert.Equal(t, "5", got.Items[5].ID)
			assert.Equal(t, "Acme", got.Items[0].Company)
			assert.Equal(t, "2024-05-01", got.Items[0].DatePosted)
			assert.Nil(t, got.Items[0].Result)
		})
	}
}

func TestPostingsStopsAtLimit(t *testing.T) {
	var requests atomic.Int32
	srv := pagedServer(t, 10, 2, &requests, false)
	defer srv.Close()

	c := New(zaptest.NewLogger(t), srv.URL, "secret")
	got, err := c.Postings(context.Background(), postings.Query{Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, 3, got.Len())
}

func TestPostingsBadStatus(t *testing.T) {
	var requests atomic.Int32
	srv := pagedServer(t, 1, 1, &requests, false)
	defer srv.Close()

	c := New(zaptest.NewLogger(t), srv.URL, "wrong")
	_, err := c.Postings(context.Background(), postings.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
}

func TestPostingsCanceled(t *testing.T) {
	var requests atomic.Int32
	srv := pagedServer(t, 1, 1, &requests, false)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(zaptest.NewLogger(t), srv.URL, "secret")
	_, err := c.Postings(ctx, postings.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildParams(t *testing.T) {
	q := buildParams(postings.Query{Text: "golang", Since: "2024-01-01", Limit: 5})

	assert.Equal(t, "golang", q.Get("text"))
	assert.Equal(t, "2024-01-01", q.Get("since"))
	assert.False(t, q.Has("location"))
	assert.False(t, q.Has("limit"))
}
