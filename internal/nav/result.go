package nav

import "github.com/adrianmross/objnav/pkg/storage"

// Scope names the level a listing was fetched for. The zero Scope is the
// container list.
type Scope struct {
	Container string
	Prefix    string
}

// IsRoot reports whether s is the container list.
func (s Scope) IsRoot() bool { return s.Container == "" }

// ResultKind tags a ListingResult.
type ResultKind int

const (
	ResultContainers ResultKind = iota
	ResultEntries
)

// ListingResult is the outcome of one fully drained listing call.
type ListingResult struct {
	Kind       ResultKind
	Containers []storage.Container

	Container string
	Prefix    string
	Prefixes  []string
	Entries   []storage.Entry
}

// ContainersResult wraps a container listing.
func ContainersResult(containers []storage.Container) ListingResult {
	return ListingResult{Kind: ResultContainers, Containers: containers}
}

// EntriesResult wraps one level of a prefix listing.
func EntriesResult(l storage.Listing) ListingResult {
	return ListingResult{
		Kind:      ResultEntries,
		Container: l.Container,
		Prefix:    l.Prefix,
		Prefixes:  l.Prefixes,
		Entries:   l.Entries,
	}
}

// Scope returns the merge key of the result.
func (r ListingResult) Scope() Scope {
	if r.Kind == ResultContainers {
		return Scope{}
	}
	return Scope{Container: r.Container, Prefix: r.Prefix}
}

// Items derives the display items. Entries listings always start with Up,
// followed by prefixes and then entries; container listings have no Up.
func (r ListingResult) Items() []Item {
	var items []Item
	switch r.Kind {
	case ResultContainers:
		items = make([]Item, 0, len(r.Containers))
		for _, c := range r.Containers {
			items = append(items, ContainerItem(c))
		}
	case ResultEntries:
		items = make([]Item, 0, 1+len(r.Prefixes)+len(r.Entries))
		items = append(items, UpItem())
		for _, p := range r.Prefixes {
			items = append(items, PrefixItem(p))
		}
		for _, e := range r.Entries {
			items = append(items, EntryItem(e))
		}
	}
	Order(items)
	return items
}
