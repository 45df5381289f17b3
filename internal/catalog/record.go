// Package catalog defines the forms catalog record model together with
// the row extraction and relevance classification that produce it.
package catalog

import "time"

// FormRecord represents one entry of the forms catalog.
type FormRecord struct {
	// ProductNumber is the short product identifier, e.g. "Form 1040".
	ProductNumber string
	// Title is the catalog description of the product.
	Title string
	// RevisionDate is the revision date exactly as listed, never parsed.
	RevisionDate string
	// PostedDate is the posted date exactly as listed, never parsed.
	PostedDate string
	// ArtifactURL is the absolute URL of the linked document. Empty when
	// the listing carried a link element without a target.
	ArtifactURL string
	// Filename is the last path segment of ArtifactURL. Empty exactly
	// when ArtifactURL is empty.
	Filename string
	// ScrapedAt is when the record was extracted.
	ScrapedAt time.Time
}
