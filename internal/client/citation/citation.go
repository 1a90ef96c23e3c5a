package citation

import "github.com/crambrain/cram/internal/client/models"

// ClampPage saturates a 1-based page number into [1, pageCount]. A
// pageCount below 1 means the count is unknown and the page is only
// floored at 1.
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if pageCount >= 1 && page > pageCount {
		return pageCount
	}
	return page
}

// Normalize returns a copy of cs with every page clamped into the
// document's page range. Out-of-range citations are kept, not dropped:
// the quote and score still carry value, and the clamped page keeps the
// viewer jump well-defined.
func Normalize(cs []models.Citation, pageCount int) []models.Citation {
	if len(cs) == 0 {
		return nil
	}
	out := make([]models.Citation, len(cs))
	for i, c := range cs {
		c.Page = ClampPage(c.Page, pageCount)
		out[i] = c
	}
	return out
}

// ForPage filters citations down to those addressing page, preserving
// list order. Overlapping citations on one page are all kept and render
// simultaneously in this order.
func ForPage(cs []models.Citation, page int) []models.Citation {
	var out []models.Citation
	for _, c := range cs {
		if c.Page == page {
			out = append(out, c)
		}
	}
	return out
}
