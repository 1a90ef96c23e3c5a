// Package viewer drives the single-page document view: current page,
// zoom, rotation, and the highlight overlays projected from citations.
package viewer

import (
	"github.com/crambrain/cram/internal/client/citation"
	"github.com/crambrain/cram/internal/client/models"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.25

	// DefaultOpacity is used when a citation carries no relevance score.
	DefaultOpacity = 0.4

	minOpacity = 0.2
	maxOpacity = 0.9
)

// Default page geometry in page units, used for page-level highlights
// until the real page size is known. US Letter in PDF points.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Rect is a screen-space rectangle at the current zoom.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Highlight is one overlay to draw on the current page.
type Highlight struct {
	Citation models.Citation
	Rect     Rect
	Opacity  float64

	// PageLevel marks a whole-page highlight, drawn without a region
	// border.
	PageLevel bool
}

// PagePoint is a click position converted into page coordinates.
type PagePoint struct {
	X, Y float64
}

// ClickFunc receives clicks inside the rendered page, already converted
// to page coordinates. With no handler registered, clicks are inert.
type ClickFunc func(page int, pt PagePoint)

// Controller holds the transient view state for one document. It is owned
// by the UI event loop and is not safe for concurrent use.
type Controller struct {
	doc       *models.Document
	page      int
	zoom      float64
	rotation  int
	citations []models.Citation

	pageW, pageH float64
	onClick      ClickFunc
}

func New() *Controller {
	return &Controller{
		page:  1,
		zoom:  1.0,
		pageW: defaultPageWidth,
		pageH: defaultPageHeight,
	}
}

// SetDocument switches the controller to a new document and resets page,
// zoom, rotation and the highlight set.
func (c *Controller) SetDocument(doc *models.Document) {
	c.doc = doc
	c.page = 1
	c.zoom = 1.0
	c.rotation = 0
	c.citations = nil
}

// Document returns the current document, nil when none is loaded.
func (c *Controller) Document() *models.Document { return c.doc }

func (c *Controller) Page() int     { return c.page }
func (c *Controller) Zoom() float64 { return c.zoom }

// Rotation returns the current rotation in degrees, one of 0/90/180/270.
func (c *Controller) Rotation() int { return c.rotation }

func (c *Controller) pageCount() int {
	if c.doc == nil {
		return 0
	}
	return c.doc.Pages
}

// GoToPage saturates n into [1, pageCount] and moves there. Out-of-range
// requests clamp to the nearest bound rather than erroring.
func (c *Controller) GoToPage(n int) {
	c.page = citation.ClampPage(n, c.pageCount())
}

func (c *Controller) NextPage() { c.GoToPage(c.page + 1) }
func (c *Controller) PrevPage() { c.GoToPage(c.page - 1) }

// ZoomIn steps the zoom up, clamped to MaxZoom.
func (c *Controller) ZoomIn() {
	c.zoom = clampZoom(c.zoom + ZoomStep)
}

// ZoomOut steps the zoom down, clamped to MinZoom.
func (c *Controller) ZoomOut() {
	c.zoom = clampZoom(c.zoom - ZoomStep)
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Rotate advances the rotation by 90 degrees modulo 360.
func (c *Controller) Rotate() {
	c.rotation = (c.rotation + 90) % 360
}

// SetPageSize records the page geometry used for page-level highlight
// rects and click bounds.
func (c *Controller) SetPageSize(w, h float64) {
	if w > 0 && h > 0 {
		c.pageW, c.pageH = w, h
	}
}

// SetCitations replaces the active highlight source, typically with the
// citation list of the assistant turn being inspected.
func (c *Controller) SetCitations(cs []models.Citation) {
	c.citations = cs
}

// ShowCitation jumps to the citation's page and narrows the highlight set
// to exactly that citation.
func (c *Controller) ShowCitation(cit models.Citation) {
	c.citations = []models.Citation{cit}
	c.GoToPage(cit.Page)
}

// Highlights projects the active citations for the current page into
// screen-space overlays at the current zoom. Overlapping highlights are
// all returned, in citation-list order. A citation without a bounding box
// becomes a whole-page highlight.
func (c *Controller) Highlights() []Highlight {
	var out []Highlight
	for _, cit := range citation.ForPage(c.citations, c.page) {
		h := Highlight{Citation: cit, Opacity: opacity(cit.Score)}
		if cit.PageLevel() {
			h.PageLevel = true
			h.Rect = Rect{X1: c.pageW * c.zoom, Y1: c.pageH * c.zoom}
		} else {
			h.Rect = Rect{
				X0: cit.BBox.X0 * c.zoom,
				Y0: cit.BBox.Y0 * c.zoom,
				X1: cit.BBox.X1 * c.zoom,
				Y1: cit.BBox.Y1 * c.zoom,
			}
		}
		out = append(out, h)
	}
	return out
}

// opacity derives overlay opacity from the relevance score: higher score,
// more opaque. A zero score means the server reported none.
func opacity(score float64) float64 {
	if score <= 0 {
		return DefaultOpacity
	}
	if score > 1 {
		score = 1
	}
	return minOpacity + score*(maxOpacity-minOpacity)
}

// SetClickFunc registers the handler for clicks inside the page.
func (c *Controller) SetClickFunc(fn ClickFunc) {
	c.onClick = fn
}

// LocateClick converts a screen-space click into page coordinates by
// dividing by the current zoom and hands it to the registered handler.
// Without a handler the click is inert.
func (c *Controller) LocateClick(x, y float64) {
	if c.onClick == nil {
		return
	}
	c.onClick(c.page, PagePoint{X: x / c.zoom, Y: y / c.zoom})
}
