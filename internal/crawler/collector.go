package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/formharvest/internal/common/transport"
	"github.com/jonesrussell/formharvest/internal/logger"
	"github.com/jonesrussell/formharvest/internal/source"
)

// browserHeaders are sent on every catalog request so the session looks
// like an ordinary browser to the catalog's bot checks.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
}

// Page is one fetched catalog page: the parsed document plus the final
// URL it was served from, which next-page hrefs resolve against.
type Page struct {
	Doc *goquery.Document
	URL *url.URL
}

// NextPageURL finds the next-page affordance in the document and
// resolves its href against the page's final URL. It reports false when
// the affordance is absent or carries no usable href.
func (p *Page) NextPageURL(selector string) (string, bool) {
	link := p.Doc.Find(selector).First()
	if link.Length() == 0 {
		return "", false
	}

	href, exists := link.Attr("href")
	if !exists || href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	return p.URL.ResolveReference(ref).String(), true
}

// Session fetches catalog pages over a single configured collector, so
// cookies and connection state persist across the paginated walk.
type Session struct {
	collector *colly.Collector
	logger    logger.Interface
	last      *colly.Response
}

// NewSession builds a collector for the source and wraps it in a
// Session. The context bounds every request made through it.
func NewSession(ctx context.Context, src *source.Source, log logger.Interface) (*Session, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if log == nil {
		return nil, ErrLoggerRequired
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(src.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(src.RequestTimeout)
	c.WithTransport(transport.New())

	s := &Session{collector: c, logger: log}

	c.OnRequest(func(r *colly.Request) {
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
		for k, v := range src.Headers {
			r.Headers.Set(k, v)
		}
		log.Debug("Visiting URL", "url", r.URL.String())
	})
	c.OnResponse(func(r *colly.Response) {
		s.last = r
	})

	return s, nil
}

// Fetch retrieves and parses one catalog page. Non-200 responses come
// back as errors so a broken page stops pagination instead of yielding
// an empty document.
func (s *Session) Fetch(pageURL string) (*Page, error) {
	s.last = nil

	if err := s.collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}

	resp := s.last
	if resp == nil {
		return nil, ErrNoResponse
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return &Page{Doc: doc, URL: resp.Request.URL}, nil
}
