// Package image defines the read-only image collaborator layout expects
// (spec.md §6): a stable-id-indexed slice of already-decoded images.
// Decoding itself is out of scope — the caller decodes with whatever
// codec it likes and hands the engine the result.
package image

import "image"

// ID is a stable index into a Set, assigned by the caller when it builds
// the set (e.g. the order `url()` values were first encountered while
// building the stylesheet). -1 never names a valid image.
type ID int

// NoImage is the sentinel "no such image" value.
const NoImage ID = -1

// Set is the read-only collaborator passed into layout. It is backed by
// the standard library's image.Image so any decoder (png, jpeg, gif, a
// caller's own codec) can populate it without this package depending on
// any one of them.
type Set struct {
	images []image.Image
}

// NewSet wraps an already-decoded slice of images as a Set; images[i]
// is reachable as ID(i).
func NewSet(images []image.Image) Set {
	return Set{images: images}
}

// Len returns the number of images in the set.
func (s Set) Len() int { return len(s.images) }

// Get returns the image at id, or nil if id is out of range.
func (s Set) Get(id ID) image.Image {
	if id < 0 || int(id) >= len(s.images) {
		return nil
	}
	return s.images[id]
}

// IntrinsicSize returns the pixel dimensions of the image at id, or
// (0, 0) if id is out of range — layout's replaced-element sizing uses
// this directly, with no special-casing for a missing image beyond
// treating it as zero-sized.
func (s Set) IntrinsicSize(id ID) (width, height int) {
	img := s.Get(id)
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
