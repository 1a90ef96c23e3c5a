// Package citation turns the page markers embedded in answer text into
// addressable references and normalizes citation records shared by the
// transcript, the citation list, and the viewer.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// markerRe matches the literal marker syntax [p.<integer>].
var markerRe = regexp.MustCompile(`\[p\.(\d+)\]`)

// ExtractPageMarkers returns the page numbers referenced by [p.N] markers
// in text, de-duplicated by numeric value and sorted ascending. Order of
// appearance in the text does not matter.
func ExtractPageMarkers(text string) []int {
	seen := map[int]struct{}{}
	pages := []int{}
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages
}

// Segment is one run of answer text. A marker segment carries the page it
// addresses; plain segments have Page 0. Text is always the verbatim slice
// of the source, marker syntax included, so joining segments reproduces
// the input byte for byte.
type Segment struct {
	Text string
	Page int
}

// Marker reports whether the segment is an addressable page marker.
func (s Segment) Marker() bool { return s.Page > 0 }

// LinkMarkers splits text into segments, isolating each [p.N] marker into
// its own addressable segment. Every other character passes through
// untouched: Join(LinkMarkers(text)) == text.
func LinkMarkers(text string) []Segment {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	segs := make([]Segment, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > prev {
			segs = append(segs, Segment{Text: text[prev:start]})
		}
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil || n < 1 {
			segs = append(segs, Segment{Text: text[start:end]})
		} else {
			segs = append(segs, Segment{Text: text[start:end], Page: n})
		}
		prev = end
	}
	if prev < len(text) {
		segs = append(segs, Segment{Text: text[prev:]})
	}
	return segs
}

// Join concatenates segments back into the original text.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Wrap rewrites text with every addressable marker replaced by
// wrap(page, marker) and every other byte untouched. A wrap that returns
// the marker unchanged yields the input.
func Wrap(text string, wrap func(page int, marker string) string) string {
	var b strings.Builder
	for _, s := range LinkMarkers(text) {
		if s.Marker() {
			b.WriteString(wrap(s.Page, s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// StripMarkers removes every [p.N] marker from text, leaving the
// surrounding characters untouched.
func StripMarkers(text string) string {
	return markerRe.ReplaceAllString(text, "")
}
