package style

import (
	"fmt"

	"github.com/tusf-zss/zss/value"
)

// ErrorKind enumerates the resolve-time errors the style computer can
// surface. Unlike a parse error (silently treated as "declaration
// absent", spec.md §7), an unresolved currentColor is surfaced to the
// caller as a typed error rather than panicking, per spec.md §9's open
// question on what to do when no color chain exists to resolve against.
type ErrorKind int

const (
	InvalidValue ErrorKind = iota
)

// ResolveError reports a property whose computed value could not be
// determined.
type ResolveError struct {
	Kind     ErrorKind
	Property string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("style: could not resolve %s", e.Property)
}

// ResolveColor resolves a color-valued Value, following `currentColor`
// to the element's own computed `color` value. currentColor must itself
// already be a concrete (non-currentColor) color — the cosmetic pass
// resolves `color` before any property that might reference it via
// currentColor, so a currentColor `color` value here is a caller error.
func ResolveColor(v Value, currentColor Value) (value.Color, error) {
	if v.Kind != KindColor {
		return value.Color{}, &ResolveError{Kind: InvalidValue, Property: "color"}
	}
	if !v.Color.IsCurrentColor {
		return v.Color, nil
	}
	if currentColor.Kind != KindColor || currentColor.Color.IsCurrentColor {
		return value.Color{}, &ResolveError{Kind: InvalidValue, Property: "color"}
	}
	return currentColor.Color, nil
}
