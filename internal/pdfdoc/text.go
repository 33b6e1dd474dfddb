package pdfdoc

import (
	"math"
	"strings"
)

// glyph is one drawn string as reported by the PDF content stream.
type glyph struct {
	s       string
	x, y, w float64
	size    float64
}

const (
	defaultFontSize = 10
	// gaps wider than this fraction of the font size separate words
	wordGapRatio = 0.15
	// vertical moves beyond this fraction of the font size start a new line
	lineShiftRatio = 0.5
)

// groupGlyphs merges consecutive glyphs into text items. A new item starts at
// a line change, a word-sized gap or a jump backwards on the same line.
func groupGlyphs(glyphs []glyph) []string {
	var items []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			items = append(items, s)
		}
		cur.Reset()
	}
	for i, g := range glyphs {
		if i > 0 && breaksBetween(glyphs[i-1], g) {
			flush()
		}
		cur.WriteString(g.s)
	}
	flush()
	return items
}

func breaksBetween(prev, next glyph) bool {
	size := prev.size
	if size <= 0 {
		size = defaultFontSize
	}
	if math.Abs(next.y-prev.y) > size*lineShiftRatio {
		return true
	}
	gap := next.x - (prev.x + prev.w)
	return gap > size*wordGapRatio || gap < -size
}
