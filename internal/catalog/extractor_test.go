package catalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/formharvest/internal/catalog"
	"github.com/jonesrussell/formharvest/internal/source"
)

const testBaseURL = "https://forms.example.com"

// fullRowHTML is a complete listing row with a wrapped product link and a
// relative document href.
const fullRowHTML = `<table><tr>
  <td><span class="tablesaw-cell-content"><a href="/pub/irs-pdf/f1040.pdf">Form 1040</a></span></td>
  <td> U.S. Individual Income Tax Return </td>
  <td>Dec 2025</td>
  <td>01/15/2026</td>
</tr></table>`

// absoluteHrefRowHTML carries an href that is already absolute.
const absoluteHrefRowHTML = `<table><tr>
  <td><span class="tablesaw-cell-content"><a href="https://cdn.example.com/files/fw4.pdf">Form W-4</a></span></td>
  <td>Employee's Withholding Certificate</td>
  <td>2026</td>
  <td>12/01/2025</td>
</tr></table>`

// bareLinkRowHTML has no wrapper element, only a plain link in the cell.
const bareLinkRowHTML = `<table><tr>
  <td><a href="/pub/irs-pdf/i1040gi.pdf">Instructions 1040</a></td>
  <td>Instructions for Form 1040</td>
  <td>2025</td>
  <td>02/02/2026</td>
</tr></table>`

// emptyWrapperRowHTML has the wrapper element without a link inside it,
// plus a stray link elsewhere in the cell.
const emptyWrapperRowHTML = `<table><tr>
  <td><span class="tablesaw-cell-content">Form 941</span><a href="/pub/irs-pdf/f941.pdf">stray</a></td>
  <td>Employer's Quarterly Federal Tax Return</td>
  <td>2026</td>
  <td>03/03/2026</td>
</tr></table>`

// noHrefRowHTML has a product link element without an href attribute.
const noHrefRowHTML = `<table><tr>
  <td><span class="tablesaw-cell-content"><a>Form 1065</a></span></td>
  <td>U.S. Return of Partnership Income</td>
  <td>2025</td>
  <td>04/04/2026</td>
</tr></table>`

// shortRowHTML has fewer cells than a catalog entry.
const shortRowHTML = `<table><tr>
  <td><span class="tablesaw-cell-content"><a href="/f1040.pdf">Form 1040</a></span></td>
  <td>U.S. Individual Income Tax Return</td>
  <td>Dec 2025</td>
</tr></table>`

// noLinkRowHTML has four cells but no link element at all.
const noLinkRowHTML = `<table><tr>
  <td>Form 1040</td>
  <td>U.S. Individual Income Tax Return</td>
  <td>Dec 2025</td>
  <td>01/15/2026</td>
</tr></table>`

func newExtractor(t *testing.T) *catalog.Extractor {
	t.Helper()

	src := source.Default()
	src.BaseURL = testBaseURL

	return catalog.NewExtractor(&src)
}

func rowSelection(t *testing.T, html string) *goquery.Selection {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	row := doc.Find("tr").First()
	require.Positive(t, row.Length(), "fixture must contain a row")

	return row
}

func TestExtract_FullRow(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	rec := ext.Extract(rowSelection(t, fullRowHTML))
	require.NotNil(t, rec)

	assert.Equal(t, "Form 1040", rec.ProductNumber)
	assert.Equal(t, "U.S. Individual Income Tax Return", rec.Title)
	assert.Equal(t, "Dec 2025", rec.RevisionDate)
	assert.Equal(t, "01/15/2026", rec.PostedDate)
	assert.Equal(t, testBaseURL+"/pub/irs-pdf/f1040.pdf", rec.ArtifactURL)
	assert.Equal(t, "f1040.pdf", rec.Filename)
	assert.WithinDuration(t, time.Now(), rec.ScrapedAt, time.Minute)
}

func TestExtract_AbsoluteHrefKeptVerbatim(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	rec := ext.Extract(rowSelection(t, absoluteHrefRowHTML))
	require.NotNil(t, rec)

	assert.Equal(t, "https://cdn.example.com/files/fw4.pdf", rec.ArtifactURL)
	assert.Equal(t, "fw4.pdf", rec.Filename)
}

func TestExtract_BareLinkFallback(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	rec := ext.Extract(rowSelection(t, bareLinkRowHTML))
	require.NotNil(t, rec)

	assert.Equal(t, "Instructions 1040", rec.ProductNumber)
	assert.Equal(t, testBaseURL+"/pub/irs-pdf/i1040gi.pdf", rec.ArtifactURL)
}

func TestExtract_EmptyWrapperYieldsNoRecord(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	rec := ext.Extract(rowSelection(t, emptyWrapperRowHTML))
	assert.Nil(t, rec, "a wrapper without a link must not fall back to links outside it")
}

func TestExtract_LinkWithoutHref(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	rec := ext.Extract(rowSelection(t, noHrefRowHTML))
	require.NotNil(t, rec, "a link without an href still yields a record")

	assert.Equal(t, "Form 1065", rec.ProductNumber)
	assert.Empty(t, rec.ArtifactURL)
	assert.Empty(t, rec.Filename)
}

func TestExtract_TooFewCells(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	assert.Nil(t, ext.Extract(rowSelection(t, shortRowHTML)))
}

func TestExtract_NoLinkElement(t *testing.T) {
	t.Parallel()

	ext := newExtractor(t)

	assert.Nil(t, ext.Extract(rowSelection(t, noLinkRowHTML)))
}
