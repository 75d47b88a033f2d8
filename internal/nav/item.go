// Package nav holds the browse state: listing results, the items derived from
// them, and the stack of frames the user descends through.
package nav

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Kind tags an Item. The declaration order is the display order.
type Kind int

const (
	KindUp Kind = iota
	KindContainer
	KindPrefix
	KindEntry
)

func (k Kind) String() string {
	switch k {
	case KindUp:
		return "up"
	case KindContainer:
		return "container"
	case KindPrefix:
		return "prefix"
	case KindEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Item is one selectable row. Only the field matching Kind is meaningful.
type Item struct {
	Kind      Kind
	Container storage.Container
	Prefix    string
	Entry     storage.Entry
}

// UpItem returns the synthetic ascend marker.
func UpItem() Item { return Item{Kind: KindUp} }

// ContainerItem wraps a container.
func ContainerItem(c storage.Container) Item { return Item{Kind: KindContainer, Container: c} }

// PrefixItem wraps a full prefix such as "logs/2024/".
func PrefixItem(p string) Item { return Item{Kind: KindPrefix, Prefix: p} }

// EntryItem wraps a leaf object.
func EntryItem(e storage.Entry) Item { return Item{Kind: KindEntry, Entry: e} }

// ID returns the identifying string of the item: the container id, the full
// prefix or the entry key. Up has none.
func (i Item) ID() string {
	switch i.Kind {
	case KindContainer:
		return i.Container.ID
	case KindPrefix:
		return i.Prefix
	case KindEntry:
		return i.Entry.Key
	default:
		return ""
	}
}

// Equal reports whether both items have the same kind and identity. Size,
// timestamps and location hints are ignored.
func (i Item) Equal(o Item) bool {
	return i.Kind == o.Kind && i.ID() == o.ID()
}

// Name is the text shown in the name column and matched by search.
func (i Item) Name() string {
	switch i.Kind {
	case KindContainer:
		return i.Container.ID
	case KindPrefix:
		return LastPathComponent(i.Prefix)
	case KindEntry:
		return LastPathComponent(i.Entry.Key)
	default:
		return ""
	}
}

// Row is the three-column rendering of an item.
type Row struct {
	Left  string `json:"left" yaml:"left"`
	Mid   string `json:"mid" yaml:"mid"`
	Right string `json:"right" yaml:"right"`
}

// Row formats the item for display.
func (i Item) Row() Row {
	switch i.Kind {
	case KindUp:
		return Row{Left: ".."}
	case KindContainer:
		loc := i.Container.Location
		if loc == "" {
			loc = "unknown"
		}
		return Row{Mid: loc, Right: i.Container.ID}
	case KindPrefix:
		return Row{Left: "PRE", Right: LastPathComponent(i.Prefix)}
	case KindEntry:
		return Row{
			Left:  FormatTimestamp(i.Entry.LastModified),
			Mid:   FormatBytes(i.Entry.Size),
			Right: LastPathComponent(i.Entry.Key),
		}
	default:
		return Row{}
	}
}

// LastPathComponent returns the final "/"-separated segment of p, keeping a
// trailing separator if p had one: "a/b/" -> "b/", "a/b.txt" -> "b.txt".
func LastPathComponent(p string) string {
	if p == "" {
		return ""
	}
	trailing := strings.HasSuffix(p, storage.Delimiter)
	trimmed := strings.TrimSuffix(p, storage.Delimiter)
	if idx := strings.LastIndex(trimmed, storage.Delimiter); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trailing {
		return trimmed + storage.Delimiter
	}
	return trimmed
}

// FormatTimestamp renders t as RFC 3339 in UTC. The zero time renders empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatBytes renders a size in IEC units ("1.0 KiB").
func FormatBytes(n int64) string {
	if n < 0 {
		return ""
	}
	return humanize.IBytes(uint64(n))
}

// Order sorts items by kind, keeping listing order within a kind.
func Order(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(a.Kind, b.Kind)
	})
}
