package crawler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/formharvest/internal/crawler"
	"github.com/jonesrussell/formharvest/internal/logger"
	"github.com/jonesrussell/formharvest/internal/source"
)

func newSession(t *testing.T, serverURL string) *crawler.Session {
	t.Helper()

	src := source.Default()
	src.URL = serverURL + "/catalog"
	src.BaseURL = serverURL
	src.RequestTimeout = 5 * time.Second

	s, err := crawler.NewSession(context.Background(), &src, logger.NewNoOp())
	require.NoError(t, err)

	return s
}

func TestNewSession_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := crawler.NewSession(context.Background(), nil, logger.NewNoOp())
	assert.ErrorIs(t, err, crawler.ErrSourceRequired)

	src := source.Default()
	_, err = crawler.NewSession(context.Background(), &src, nil)
	assert.ErrorIs(t, err, crawler.ErrLoggerRequired)
}

func TestFetch_ParsesPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table><tr><td>one</td></tr></table></body></html>`))
	}))
	t.Cleanup(srv.Close)

	s := newSession(t, srv.URL)

	page, err := s.Fetch(srv.URL + "/catalog")
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, srv.URL+"/catalog", page.URL.String())
	assert.Equal(t, 1, page.Doc.Find("table").Length())
}

func TestFetch_SendsConfiguredHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	t.Cleanup(srv.Close)

	src := source.Default()
	src.URL = srv.URL
	src.UserAgent = "formharvest-test-agent"
	src.Headers = map[string]string{"X-Custom": "custom-value"}
	src.RequestTimeout = 5 * time.Second

	s, err := crawler.NewSession(context.Background(), &src, logger.NewNoOp())
	require.NoError(t, err)

	_, err = s.Fetch(srv.URL)
	require.NoError(t, err)

	got := <-headers
	assert.Equal(t, "formharvest-test-agent", got.Get("User-Agent"))
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Equal(t, "custom-value", got.Get("X-Custom"))
}

func TestFetch_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	s := newSession(t, srv.URL)

	_, err := s.Fetch(srv.URL + "/catalog")
	require.ErrorIs(t, err, crawler.ErrUnexpectedStatus)
}

func TestFetch_UnreachableServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := srv.URL
	srv.Close()

	s := newSession(t, serverURL)

	_, err := s.Fetch(serverURL + "/catalog")
	require.Error(t, err)
}

func TestFetch_RepeatVisitsAllowed(t *testing.T) {
	t.Parallel()

	var visits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visits.Add(1)
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	t.Cleanup(srv.Close)

	s := newSession(t, srv.URL)

	_, err := s.Fetch(srv.URL + "/catalog")
	require.NoError(t, err)
	_, err = s.Fetch(srv.URL + "/catalog")
	require.NoError(t, err)

	assert.Equal(t, int64(2), visits.Load(), "the session must allow revisiting the same URL")
}

func pageFromHTML(t *testing.T, pageURL, html string) *crawler.Page {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	u, err := url.Parse(pageURL)
	require.NoError(t, err)

	return &crawler.Page{Doc: doc, URL: u}
}

func TestNextPageURL_ResolvesQueryRelativeHref(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.irs.gov/forms-instructions-and-publications",
		`<html><body><a title="Go to next page" href="?page=1">Next</a></body></html>`)

	next, ok := page.NextPageURL(`a[title="Go to next page"]`)
	require.True(t, ok)
	assert.Equal(t, "https://www.irs.gov/forms-instructions-and-publications?page=1", next)
}

func TestNextPageURL_ResolvesPathRelativeHref(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.irs.gov/forms-instructions-and-publications?page=1",
		`<html><body><a title="Go to next page" href="/forms-instructions-and-publications?page=2">Next</a></body></html>`)

	next, ok := page.NextPageURL(`a[title="Go to next page"]`)
	require.True(t, ok)
	assert.Equal(t, "https://www.irs.gov/forms-instructions-and-publications?page=2", next)
}

func TestNextPageURL_AbsoluteHrefKept(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.irs.gov/forms-instructions-and-publications",
		`<html><body><a title="Go to next page" href="https://other.example.com/catalog?page=2">Next</a></body></html>`)

	next, ok := page.NextPageURL(`a[title="Go to next page"]`)
	require.True(t, ok)
	assert.Equal(t, "https://other.example.com/catalog?page=2", next)
}

func TestNextPageURL_MissingAffordance(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.irs.gov/forms-instructions-and-publications",
		`<html><body><a href="?page=1">unmarked link</a></body></html>`)

	_, ok := page.NextPageURL(`a[title="Go to next page"]`)
	assert.False(t, ok)
}

func TestNextPageURL_HrefMissing(t *testing.T) {
	t.Parallel()

	page := pageFromHTML(t, "https://www.irs.gov/forms-instructions-and-publications",
		`<html><body><a title="Go to next page">Next</a></body></html>`)

	_, ok := page.NextPageURL(`a[title="Go to next page"]`)
	assert.False(t, ok)
}
