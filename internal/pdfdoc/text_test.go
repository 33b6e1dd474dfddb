package pdfdoc

import (
	"errors"
	"reflect"
	"testing"
)

func word(s string, x, y float64) []glyph {
	var out []glyph
	for _, r := range s {
		out = append(out, glyph{s: string(r), x: x, y: y, w: 5, size: 10})
		x += 5
	}
	return out
}

func TestGroupGlyphs_Words(t *testing.T) {
	var glyphs []glyph
	glyphs = append(glyphs, word("The", 0, 700)...)
	glyphs = append(glyphs, word("cell", 20, 700)...)
	glyphs = append(glyphs, word("Next", 0, 680)...)

	got := groupGlyphs(glyphs)
	want := []string{"The", "cell", "Next"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGroupGlyphs_TightKerningStaysInOneItem(t *testing.T) {
	glyphs := []glyph{
		{s: "m", x: 0, y: 100, w: 6, size: 12},
		{s: "i", x: 6.5, y: 100, w: 3, size: 12},
		{s: "t", x: 9.6, y: 100, w: 3, size: 12},
	}
	got := groupGlyphs(glyphs)
	if len(got) != 1 || got[0] != "mit" {
		t.Errorf("got %q", got)
	}
}

func TestGroupGlyphs_DropsBlankItems(t *testing.T) {
	glyphs := []glyph{
		{s: " ", x: 0, y: 100, w: 3, size: 10},
		{s: "a", x: 50, y: 100, w: 5, size: 10},
	}
	got := groupGlyphs(glyphs)
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %q", got)
	}
}

func TestGroupGlyphs_Empty(t *testing.T) {
	if got := groupGlyphs(nil); len(got) != 0 {
		t.Errorf("expected no items, got %q", got)
	}
}

func TestOpen_RejectsNonPDF(t *testing.T) {
	_, err := Open([]byte("definitely not a pdf"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}
