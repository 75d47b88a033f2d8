package nav

import (
	"testing"

	"github.com/adrianmross/objnav/pkg/storage"
)

func containers(ids ...string) ListingResult {
	cs := make([]storage.Container, 0, len(ids))
	for _, id := range ids {
		cs = append(cs, storage.Container{ID: id})
	}
	return ContainersResult(cs)
}

func entries(container, prefix string, prefixes []string, keys ...string) ListingResult {
	es := make([]storage.Entry, 0, len(keys))
	for _, k := range keys {
		es = append(es, storage.Entry{Key: k})
	}
	return EntriesResult(storage.Listing{Container: container, Prefix: prefix, Prefixes: prefixes, Entries: es})
}

// checkInvariants asserts the frame-level invariants on every frame.
func checkInvariants(t *testing.T, s *Stack) {
	t.Helper()
	for i := range s.frames {
		f := &s.frames[i]
		_, hasCursor := f.Cursor()
		if hasCursor == (f.Len() == 0) {
			t.Fatalf("frame %d: cursor presence %v with %d items", i, hasCursor, f.Len())
		}
		if c, ok := f.Cursor(); ok && (c < 0 || c >= f.Len()) {
			t.Fatalf("frame %d: cursor %d out of range [0,%d)", i, c, f.Len())
		}
		derived := f.Result().Items()
		if len(derived) != len(f.Items()) {
			t.Fatalf("frame %d: items diverged from result", i)
		}
		for j := range derived {
			if !derived[j].Equal(f.Items()[j]) {
				t.Fatalf("frame %d item %d: items diverged from result", i, j)
			}
		}
	}
}

func mustCursor(t *testing.T, s *Stack) int {
	t.Helper()
	top, ok := s.Top()
	if !ok {
		t.Fatalf("expected a visible frame")
	}
	c, ok := top.Cursor()
	if !ok {
		t.Fatalf("expected a cursor")
	}
	return c
}

func TestFirstMergePushesWithCursorAtZero(t *testing.T) {
	var s Stack
	req := s.Request(IntentDescend, Scope{})
	if req.Anchored {
		t.Fatalf("expected request on empty stack to be unanchored")
	}
	if got := s.Merge(req, containers("a", "b")); got != OutcomePushed {
		t.Fatalf("expected push, got %s", got)
	}
	if mustCursor(t, &s) != 0 {
		t.Fatalf("expected cursor 0")
	}
	checkInvariants(t, &s)
}

func TestFirstMergeEmptyHasNoCursor(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers())
	top, _ := s.Top()
	if _, ok := top.Cursor(); ok {
		t.Fatalf("expected no cursor on empty frame")
	}
	checkInvariants(t, &s)
}

func TestRefreshClampsOnShrink(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "b", "c"))
	s.Last()
	if mustCursor(t, &s) != 2 {
		t.Fatalf("expected cursor at last item")
	}

	got := s.Merge(s.Request(IntentRefresh, Scope{}), containers("z"))
	if got != OutcomeRefreshed {
		t.Fatalf("expected refresh, got %s", got)
	}
	if c := mustCursor(t, &s); c != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", c)
	}
	checkInvariants(t, &s)
}

func TestRefreshToEmptyClearsCursor(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "b", "c"))
	s.Last()
	s.Merge(s.Request(IntentRefresh, Scope{}), containers())

	top, _ := s.Top()
	if top.Len() != 0 {
		t.Fatalf("expected empty items, got %d", top.Len())
	}
	if _, ok := top.Cursor(); ok {
		t.Fatalf("expected no cursor after empty refresh")
	}
	checkInvariants(t, &s)

	// Growing back selects the first item again.
	s.Merge(s.Request(IntentRefresh, Scope{}), containers("x", "y"))
	if mustCursor(t, &s) != 0 {
		t.Fatalf("expected cursor 0 after refill")
	}
}

func TestRefreshReselectsByIdentity(t *testing.T) {
	var s Stack
	scope := Scope{Container: "b", Prefix: ""}
	s.Merge(s.Request(IntentDescend, scope), entries("b", "", nil, "a", "c", "d"))
	// items: up, a, c, d; select c
	s.Next()
	s.Next()
	if it, _ := s.Selected(); it.ID() != "c" {
		t.Fatalf("expected c selected, got %q", it.ID())
	}

	// A new key sorts before c; the selection follows c.
	s.Merge(s.Request(IntentRefresh, scope), entries("b", "", nil, "a", "b", "c", "d"))
	if it, _ := s.Selected(); it.ID() != "c" {
		t.Fatalf("expected selection to follow c, got %q", it.ID())
	}

	// c disappears; the index is kept.
	s.Merge(s.Request(IntentRefresh, scope), entries("b", "", nil, "a", "b", "d", "e"))
	if c := mustCursor(t, &s); c != 3 {
		t.Fatalf("expected index 3 kept, got %d", c)
	}
	checkInvariants(t, &s)
}

func TestRefreshIdempotent(t *testing.T) {
	var s Stack
	scope := Scope{Container: "b", Prefix: "p/"}
	r := entries("b", "p/", []string{"p/q/"}, "p/1", "p/2")
	s.Merge(s.Request(IntentDescend, scope), r)
	s.Last()
	before := mustCursor(t, &s)
	s.Merge(s.Request(IntentRefresh, scope), r)
	s.Merge(s.Request(IntentRefresh, scope), r)
	if after := mustCursor(t, &s); after != before {
		t.Fatalf("expected cursor %d unchanged, got %d", before, after)
	}
	if s.Len() != 1 {
		t.Fatalf("expected a single frame, got %d", s.Len())
	}
}

func TestWrapLaw(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "b", "c", "d", "e"))
	s.Next()
	s.Next()
	start := mustCursor(t, &s)
	n := 5
	for i := 0; i < n; i++ {
		s.Next()
	}
	if got := mustCursor(t, &s); got != start {
		t.Fatalf("next x%d: want %d, got %d", n, start, got)
	}
	for i := 0; i < n; i++ {
		s.Previous()
	}
	if got := mustCursor(t, &s); got != start {
		t.Fatalf("previous x%d: want %d, got %d", n, start, got)
	}
}

func TestCursorMovementWraps(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "b", "c"))
	s.Previous()
	if c := mustCursor(t, &s); c != 2 {
		t.Fatalf("expected wrap to last, got %d", c)
	}
	s.Next()
	if c := mustCursor(t, &s); c != 0 {
		t.Fatalf("expected wrap to first, got %d", c)
	}
	s.Last()
	s.First()
	if c := mustCursor(t, &s); c != 0 {
		t.Fatalf("expected first, got %d", c)
	}
}

func TestCursorMovementOnEmptyIsNoop(t *testing.T) {
	var s Stack
	s.Next()
	s.Previous()
	s.First()
	s.Last()
	if s.SearchNext("x") {
		t.Fatalf("expected no match on empty stack")
	}

	s.Merge(s.Request(IntentDescend, Scope{}), containers())
	s.Next()
	s.Previous()
	s.First()
	s.Last()
	checkInvariants(t, &s)
}

func TestSearchWraps(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "bb", "abc", "x"))

	steps := []int{1, 2, 1}
	for i, want := range steps {
		if !s.SearchNext("b") {
			t.Fatalf("step %d: expected a match", i)
		}
		if got := mustCursor(t, &s); got != want {
			t.Fatalf("step %d: want cursor %d, got %d", i, want, got)
		}
	}
}

func TestSearchNoMatchLeavesCursor(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "bb", "abc"))
	s.Next()
	if s.SearchNext("zzz") {
		t.Fatalf("expected no match")
	}
	if c := mustCursor(t, &s); c != 1 {
		t.Fatalf("expected cursor unchanged at 1, got %d", c)
	}
}

func TestSearchMatchesDisplayNameOnly(t *testing.T) {
	var s Stack
	scope := Scope{Container: "b", Prefix: "dir/"}
	s.Merge(s.Request(IntentDescend, scope), entries("b", "dir/", []string{"dir/sub/"}, "dir/file.txt"))

	// "dir" is in every full path but in no display name.
	if s.SearchNext("dir") {
		t.Fatalf("expected no match against full paths")
	}
	if !s.SearchNext("file") {
		t.Fatalf("expected match on display name")
	}
	if it, _ := s.Selected(); it.ID() != "dir/file.txt" {
		t.Fatalf("unexpected selection %q", it.ID())
	}
	// Up has an empty name and never matches, even an empty query.
	s.First()
	s.SearchNext("")
	if it, _ := s.Selected(); it.Kind == KindUp {
		t.Fatalf("expected search to skip up")
	}
}

func TestSearchIsCaseSensitive(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("Alpha", "alpha"))
	s.SearchNext("alpha")
	if c := mustCursor(t, &s); c != 1 {
		t.Fatalf("expected lower-case match at 1, got %d", c)
	}
}

func TestStaleResultDropped(t *testing.T) {
	var s Stack
	root := Scope{Container: "bucket1", Prefix: ""}
	s.Merge(s.Request(IntentDescend, root), entries("bucket1", "", []string{"p1/"}))

	// A: refresh of the current level, still in flight.
	reqA := s.Request(IntentRefresh, root)
	// B: descend into p1/, completes first.
	child := Scope{Container: "bucket1", Prefix: "p1/"}
	reqB := s.Request(IntentDescend, child)
	if got := s.Merge(reqB, entries("bucket1", "p1/", nil, "p1/k")); got != OutcomePushed {
		t.Fatalf("expected B pushed, got %s", got)
	}

	if got := s.Merge(reqA, entries("bucket1", "", []string{"p1/", "p2/"})); got != OutcomeDropped {
		t.Fatalf("expected A dropped, got %s", got)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", s.Len())
	}
	if scope, _ := s.Scope(); scope != child {
		t.Fatalf("expected top scope %+v, got %+v", child, scope)
	}
	if got := len(s.frames[0].Items()); got != 2 {
		t.Fatalf("expected lower frame untouched with 2 items, got %d", got)
	}
}

func TestSiblingDescendDropped(t *testing.T) {
	var s Stack
	root := Scope{Container: "b"}
	s.Merge(s.Request(IntentDescend, root), entries("b", "", []string{"p1/", "p2/"}))

	req1 := s.Request(IntentDescend, Scope{Container: "b", Prefix: "p1/"})
	req2 := s.Request(IntentDescend, Scope{Container: "b", Prefix: "p2/"})
	s.Merge(req1, entries("b", "p1/", nil))
	if got := s.Merge(req2, entries("b", "p2/", nil)); got != OutcomeDropped {
		t.Fatalf("expected sibling descend dropped, got %s", got)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", s.Len())
	}
}

func TestAscendDescendRoundTrip(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("b1", "b2"))
	s.Merge(s.Request(IntentDescend, Scope{Container: "b1"}), entries("b1", "", []string{"p1/"}))
	s.Merge(s.Request(IntentDescend, Scope{Container: "b1", Prefix: "p1/"}), entries("b1", "p1/", nil, "p1/x"))

	// First ascend: back to b1 root, re-fetched.
	popped, _ := s.Pop()
	next := AscendScope(popped.Scope())
	if next != (Scope{Container: "b1"}) {
		t.Fatalf("expected b1 root, got %+v", next)
	}
	if got := s.Merge(s.Request(IntentAscend, next), entries("b1", "", []string{"p1/", "p9/"})); got != OutcomeRefreshed {
		t.Fatalf("expected refresh of revealed level, got %s", got)
	}

	// Second ascend: back to the container list, re-fetched.
	popped, _ = s.Pop()
	next = AscendScope(popped.Scope())
	if !next.IsRoot() {
		t.Fatalf("expected container list, got %+v", next)
	}
	if got := s.Merge(s.Request(IntentAscend, next), containers("b1", "b2", "b3")); got != OutcomeRefreshed {
		t.Fatalf("expected refresh of container list, got %s", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 frame, got %d", s.Len())
	}
	top, _ := s.Top()
	if top.Len() != 3 {
		t.Fatalf("expected fresh container list with 3 items, got %d", top.Len())
	}
	checkInvariants(t, &s)
}

func TestAscendFromDeepStartPushesParent(t *testing.T) {
	var s Stack
	start := Scope{Container: "b", Prefix: "p1/p2/"}
	s.Merge(s.Request(IntentDescend, start), entries("b", "p1/p2/", nil, "p1/p2/k"))

	popped, _ := s.Pop()
	next := AscendScope(popped.Scope())
	if next != (Scope{Container: "b", Prefix: "p1/"}) {
		t.Fatalf("unexpected parent %+v", next)
	}
	req := s.Request(IntentAscend, next)
	if req.Anchored {
		t.Fatalf("expected unanchored request after popping the only frame")
	}
	if got := s.Merge(req, entries("b", "p1/", []string{"p1/p2/"})); got != OutcomePushed {
		t.Fatalf("expected push, got %s", got)
	}
}

func TestDeeperFrameCursorRestoredOnPop(t *testing.T) {
	var s Stack
	s.Merge(s.Request(IntentDescend, Scope{}), containers("a", "b", "c"))
	s.Last()
	s.Merge(s.Request(IntentDescend, Scope{Container: "c"}), entries("c", "", nil, "k1", "k2"))
	s.Next()
	s.Pop()
	if c := mustCursor(t, &s); c != 2 {
		t.Fatalf("expected lower cursor 2 restored, got %d", c)
	}
}

func TestSelectedKey(t *testing.T) {
	var s Stack
	if _, _, ok := s.SelectedKey(); ok {
		t.Fatalf("expected no key on empty stack")
	}
	s.Merge(s.Request(IntentDescend, Scope{}), containers("b"))
	if c, k, _ := s.SelectedKey(); c != "b" || k != "" {
		t.Fatalf("container: got (%q,%q)", c, k)
	}

	s.Merge(s.Request(IntentDescend, Scope{Container: "b", Prefix: "p/"}), entries("b", "p/", []string{"p/q/"}, "p/k"))
	want := []string{"p/", "p/q/", "p/k"}
	for i, w := range want {
		c, k, ok := s.SelectedKey()
		if !ok || c != "b" || k != w {
			t.Fatalf("item %d: got (%q,%q,%v), want (b,%q)", i, c, k, ok, w)
		}
		s.Next()
	}
}

func TestRender(t *testing.T) {
	var s Stack
	if rows, _, ok := s.Render(); rows != nil || ok {
		t.Fatalf("expected nothing rendered before first merge")
	}
	s.Merge(s.Request(IntentDescend, Scope{Container: "b"}), entries("b", "", []string{"d/"}, "f"))
	s.Next()
	rows, sel, ok := s.Render()
	if !ok || sel != 1 {
		t.Fatalf("expected selection 1, got %d (%v)", sel, ok)
	}
	want := []Row{{Left: ".."}, {Left: "PRE", Right: "d/"}, {Mid: "0 B", Right: "f"}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: want %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestIntentAndOutcomeStrings(t *testing.T) {
	if IntentAscend.String() != "ascend" || IntentRefresh.String() != "refresh" || IntentDescend.String() != "descend" {
		t.Fatalf("unexpected intent names")
	}
	if OutcomePushed.String() != "pushed" || OutcomeDropped.String() != "dropped" || OutcomeRefreshed.String() != "refreshed" {
		t.Fatalf("unexpected outcome names")
	}
}
