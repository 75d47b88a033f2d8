package nav

import "github.com/adrianmross/objnav/pkg/storage"

// Intent records why a listing was requested.
type Intent int

const (
	// IntentDescend opens a child level (or the first level at startup).
	IntentDescend Intent = iota
	// IntentAscend re-reads the level revealed by a pop.
	IntentAscend
	// IntentRefresh re-reads the level currently shown.
	IntentRefresh
)

func (i Intent) String() string {
	switch i {
	case IntentDescend:
		return "descend"
	case IntentAscend:
		return "ascend"
	case IntentRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Request describes one listing fetch and the stack state it was issued
// from. Anchor is the top scope at issue time; Anchored is false when the
// stack was empty.
type Request struct {
	ID       string
	Intent   Intent
	Scope    Scope
	Anchor   Scope
	Anchored bool
}

// Outcome reports what a merge did.
type Outcome int

const (
	OutcomeDropped Outcome = iota
	OutcomePushed
	OutcomeRefreshed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePushed:
		return "pushed"
	case OutcomeRefreshed:
		return "refreshed"
	default:
		return "dropped"
	}
}

// Stack is the root-to-current path of frames. The zero value is an empty,
// uninitialized stack.
type Stack struct {
	frames []Frame
}

// Len returns the number of frames.
func (s *Stack) Len() int { return len(s.frames) }

// Empty reports whether no listing has been merged yet.
func (s *Stack) Empty() bool { return len(s.frames) == 0 }

// Top returns the visible frame.
func (s *Stack) Top() (*Frame, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	return &s.frames[len(s.frames)-1], true
}

// Scope returns the scope of the visible frame.
func (s *Stack) Scope() (Scope, bool) {
	top, ok := s.Top()
	if !ok {
		return Scope{}, false
	}
	return top.Scope(), true
}

// Request builds a request anchored on the current top.
func (s *Stack) Request(intent Intent, scope Scope) Request {
	anchor, anchored := s.Scope()
	return Request{Intent: intent, Scope: scope, Anchor: anchor, Anchored: anchored}
}

// Push appends a frame built from r.
func (s *Stack) Push(r ListingResult) {
	s.frames = append(s.frames, NewFrame(r))
}

// Pop removes and returns the visible frame.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Merge folds a completed fetch into the stack. A result for the visible
// scope refreshes it in place. A descend or ascend result is pushed only if
// the stack top is still the one the request was issued from. Anything else
// is stale and dropped without touching the stack.
func (s *Stack) Merge(req Request, r ListingResult) Outcome {
	scope := r.Scope()
	if top, ok := s.Top(); ok && top.Scope() == scope {
		top.Replace(r)
		return OutcomeRefreshed
	}
	if req.Intent == IntentRefresh {
		return OutcomeDropped
	}
	anchor, anchored := s.Scope()
	if anchored != req.Anchored || anchor != req.Anchor {
		return OutcomeDropped
	}
	s.Push(r)
	return OutcomePushed
}

// Next moves the visible cursor down.
func (s *Stack) Next() {
	if top, ok := s.Top(); ok {
		top.Next()
	}
}

// Previous moves the visible cursor up.
func (s *Stack) Previous() {
	if top, ok := s.Top(); ok {
		top.Previous()
	}
}

// First selects the first visible item.
func (s *Stack) First() {
	if top, ok := s.Top(); ok {
		top.First()
	}
}

// Last selects the last visible item.
func (s *Stack) Last() {
	if top, ok := s.Top(); ok {
		top.Last()
	}
}

// SearchNext runs an incremental search on the visible frame.
func (s *Stack) SearchNext(query string) bool {
	top, ok := s.Top()
	if !ok {
		return false
	}
	return top.SearchNext(query)
}

// Selected returns the selected item of the visible frame.
func (s *Stack) Selected() (Item, bool) {
	top, ok := s.Top()
	if !ok {
		return Item{}, false
	}
	return top.Selected()
}

// SelectedKey returns the container and key addressed by the selection. Up
// addresses the current prefix; a container addresses its root.
func (s *Stack) SelectedKey() (container, key string, ok bool) {
	top, ok := s.Top()
	if !ok {
		return "", "", false
	}
	it, ok := top.Selected()
	if !ok {
		return "", "", false
	}
	scope := top.Scope()
	switch it.Kind {
	case KindContainer:
		return it.Container.ID, "", true
	case KindPrefix:
		return scope.Container, it.Prefix, true
	case KindEntry:
		return scope.Container, it.Entry.Key, true
	case KindUp:
		return scope.Container, scope.Prefix, true
	}
	return "", "", false
}

// AscendScope returns the level to re-read after popping a frame with scope
// popped: the container list when popped was a container root, else the
// parent prefix.
func AscendScope(popped Scope) Scope {
	if popped.Prefix == "" {
		return Scope{}
	}
	return Scope{Container: popped.Container, Prefix: storage.ParentPrefix(popped.Prefix)}
}
