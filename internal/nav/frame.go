package nav

import "strings"

// noCursor marks a frame with nothing to select.
const noCursor = -1

// Frame is one level of the browse stack. items is always derived from
// result, and cursor is noCursor exactly when items is empty.
type Frame struct {
	result ListingResult
	items  []Item
	cursor int
}

// NewFrame builds a frame selecting the first item.
func NewFrame(r ListingResult) Frame {
	f := Frame{result: r, items: r.Items(), cursor: noCursor}
	if len(f.items) > 0 {
		f.cursor = 0
	}
	return f
}

// Result returns the listing the frame was built from.
func (f *Frame) Result() ListingResult { return f.result }

// Scope returns the scope of the frame's listing.
func (f *Frame) Scope() Scope { return f.result.Scope() }

// Items returns the derived items. Callers must not modify the slice.
func (f *Frame) Items() []Item { return f.items }

// Len returns the number of items.
func (f *Frame) Len() int { return len(f.items) }

// Cursor returns the selected index, if any.
func (f *Frame) Cursor() (int, bool) {
	if f.cursor == noCursor {
		return 0, false
	}
	return f.cursor, true
}

// Selected returns the selected item, if any.
func (f *Frame) Selected() (Item, bool) {
	if f.cursor == noCursor {
		return Item{}, false
	}
	return f.items[f.cursor], true
}

// Replace swaps in a fresh listing for the same scope. The previously
// selected item is reselected if it is still listed; otherwise the old index
// is kept, clamped to the new length.
func (f *Frame) Replace(r ListingResult) {
	prev, hadSelection := f.Selected()
	prevIdx := f.cursor

	f.result = r
	f.items = r.Items()

	switch {
	case len(f.items) == 0:
		f.cursor = noCursor
		return
	case !hadSelection:
		f.cursor = 0
		return
	}
	for i, it := range f.items {
		if it.Equal(prev) {
			f.cursor = i
			return
		}
	}
	f.cursor = min(prevIdx, len(f.items)-1)
}

// Next moves the cursor down, wrapping to the top.
func (f *Frame) Next() {
	if f.cursor == noCursor {
		return
	}
	f.cursor = (f.cursor + 1) % len(f.items)
}

// Previous moves the cursor up, wrapping to the bottom.
func (f *Frame) Previous() {
	if f.cursor == noCursor {
		return
	}
	f.cursor = (f.cursor - 1 + len(f.items)) % len(f.items)
}

// First selects the first item.
func (f *Frame) First() {
	if f.cursor != noCursor {
		f.cursor = 0
	}
}

// Last selects the last item.
func (f *Frame) Last() {
	if f.cursor != noCursor {
		f.cursor = len(f.items) - 1
	}
}

// SearchNext selects the first item after the cursor whose name contains
// query, wrapping around to the first match overall. Up never matches. It
// reports whether a match was found; without one the cursor is unchanged.
func (f *Frame) SearchNext(query string) bool {
	if f.cursor == noCursor {
		return false
	}
	n := len(f.items)
	for step := 1; step <= n; step++ {
		i := (f.cursor + step) % n
		it := f.items[i]
		if it.Kind == KindUp {
			continue
		}
		if strings.Contains(it.Name(), query) {
			f.cursor = i
			return true
		}
	}
	return false
}
