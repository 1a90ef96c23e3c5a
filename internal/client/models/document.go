// Package models defines client-side data models used by the cram CLI.
package models

import "time"

// Document is the client-side projection of a server-side ingested PDF.
// It is read-only: a cache of server state, re-fetched on demand.
type Document struct {
	// DocID is a globally unique, server-assigned identifier.
	DocID string

	// OriginalName is the filename the document was uploaded under.
	OriginalName string

	// FileURL is the canonical URL of the stored file.
	FileURL string

	// PreviewURLs holds page preview image URLs; index = page number - 1.
	PreviewURLs []string

	// Pages is the page count reported by ingestion.
	Pages int

	// Chunks is the number of indexed chunks.
	Chunks int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreviewURL returns the preview image URL for a 1-based page number,
// or "" when the page has no preview.
func (d *Document) PreviewURL(page int) string {
	if page < 1 || page > len(d.PreviewURLs) {
		return ""
	}
	return d.PreviewURLs[page-1]
}

// BoundingBox is a region on a page, in page coordinates.
type BoundingBox struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Citation points from generated text to a location in a source document.
// A Citation without a bounding box is still valid; consumers must treat it
// as page-level only.
type Citation struct {
	DocID string

	// Page is 1-based.
	Page int

	// Quote is a short verbatim excerpt from the source.
	Quote string

	// Text is the cited text snippet as returned by retrieval.
	Text string

	// Score is the relevance score in [0,1]; zero means the server did not
	// report one.
	Score float64

	// BBoxID identifies the source region when the server tracked one.
	BBoxID string

	// BBox is the source region in page coordinates, nil for page-level
	// citations.
	BBox *BoundingBox

	PreviewURL string
	SourceURL  string
}

// PageLevel reports whether the citation addresses a whole page rather
// than a region.
func (c *Citation) PageLevel() bool {
	return c.BBox == nil
}

// RetrievalResult is one ranked chunk returned by search or ask.
type RetrievalResult struct {
	DocID      string
	Page       int
	Text       string
	Score      float64
	ChunkID    string
	ChunkType  string
	BBoxID     string
	PreviewURL string
	SourceURL  string
}
