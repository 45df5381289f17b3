package catalog

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/formharvest/internal/source"
)

// minRowCells is the cell count below which a row cannot be a catalog entry.
const minRowCells = 4

// urlSchemePrefix marks hrefs that are already absolute.
const urlSchemePrefix = "http"

// Extractor turns catalog listing rows into form records.
type Extractor struct {
	selectors source.CatalogSelectors
	baseURL   string
}

// NewExtractor creates an extractor bound to a source's selectors and
// base URL.
func NewExtractor(src *source.Source) *Extractor {
	return &Extractor{
		selectors: src.Selectors,
		baseURL:   src.BaseURL,
	}
}

// Extract builds a record from one listing row. It returns nil when the
// row cannot be a catalog entry: fewer than four cells, or no link
// element in the product cell. A link element without an href still
// yields a record, with empty ArtifactURL and Filename.
func (e *Extractor) Extract(row *goquery.Selection) *FormRecord {
	cells := row.Find("td")
	if cells.Length() < minRowCells {
		return nil
	}

	link := e.productLink(cells.Eq(0))
	if link.Length() == 0 {
		return nil
	}

	artifactURL := e.absoluteURL(link.AttrOr("href", ""))

	return &FormRecord{
		ProductNumber: strings.TrimSpace(link.Text()),
		Title:         strings.TrimSpace(cells.Eq(1).Text()),
		RevisionDate:  strings.TrimSpace(cells.Eq(2).Text()),
		PostedDate:    strings.TrimSpace(cells.Eq(3).Text()),
		ArtifactURL:   artifactURL,
		Filename:      filenameOf(artifactURL),
		ScrapedAt:     time.Now(),
	}
}

// productLink locates the product link of a row. When the styled wrapper
// is present the link must live inside it; the bare-cell fallback applies
// only to rows without the wrapper.
func (e *Extractor) productLink(productCell *goquery.Selection) *goquery.Selection {
	wrapper := productCell.Find(e.selectors.LinkWrapper).First()
	if wrapper.Length() > 0 {
		return wrapper.Find(e.selectors.Link).First()
	}
	return productCell.Find(e.selectors.Link).First()
}

// absoluteURL prefixes relative hrefs with the source's base URL.
func (e *Extractor) absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, urlSchemePrefix) {
		return href
	}
	return e.baseURL + href
}

// filenameOf returns the substring after the last "/" of artifactURL.
func filenameOf(artifactURL string) string {
	if artifactURL == "" {
		return ""
	}
	return artifactURL[strings.LastIndex(artifactURL, "/")+1:]
}
