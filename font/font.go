// Package font defines the narrow, read-only contract the layout engine
// expects of a caller-supplied font collaborator (spec.md §6): glyph
// advance and ascender queries, plus a shape-text call the inline
// formatting context uses to turn a text run into a measured glyph
// sequence. Font loading, hinting, and rasterization are the caller's
// responsibility — this package never touches a font file.
package font

import "github.com/tusf-zss/zss/zssunit"

// Glyph is one shaped glyph within a text run: its advance (how far the
// pen moves) and the byte offset into the run's source text it came from,
// so the inline formatting context can map a line break back to a text
// position.
type Glyph struct {
	Advance    zssunit.Unit
	ClusterPos int
}

// Run is the result of shaping one text run at a given font size: its
// glyphs in visual order plus the font's ascender at that size (used to
// position the run on its line).
type Run struct {
	Glyphs   []Glyph
	Ascender zssunit.Unit
}

// Collaborator is the read-only handle layout calls into. Implementations
// own whatever font data and shaping engine they need; the engine never
// calls back into layout or the element tree.
type Collaborator interface {
	// Advance returns the horizontal advance of a single rune at the
	// given font size, in zss units. Used for quick estimates outside a
	// full shape-text call (e.g. measuring a single white-space character
	// during line-breaking).
	Advance(r rune, sizePx float64) zssunit.Unit

	// Ascender returns the font's ascender at the given size, in zss
	// units.
	Ascender(sizePx float64) zssunit.Unit

	// ShapeText shapes text at the given font size into a Run. text is
	// already normalized (no bidi, no script itemization) — the
	// collaborator shapes left-to-right glyph order for the run as given.
	ShapeText(text string, sizePx float64) Run
}
