package nav

import (
	"testing"
	"time"

	"github.com/adrianmross/objnav/pkg/storage"
)

func TestLastPathComponent(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"a":           "a",
		"a/":          "a/",
		"a/b":         "b",
		"a/b/":        "b/",
		"a/b/c.txt":   "c.txt",
		"/":           "/",
		"deep/er/x/y": "y",
	}
	for in, want := range tests {
		if got := LastPathComponent(in); got != want {
			t.Fatalf("LastPathComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestItemRow(t *testing.T) {
	mod := time.Date(2021, 6, 1, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	tests := []struct {
		name string
		item Item
		want Row
	}{
		{name: "up", item: UpItem(), want: Row{Left: ".."}},
		{name: "prefix", item: PrefixItem("logs/2021/"), want: Row{Left: "PRE", Right: "2021/"}},
		{
			name: "entry",
			item: EntryItem(storage.Entry{Key: "logs/app.log", Size: 1536, LastModified: mod}),
			want: Row{Left: "2021-06-01T07:30:00Z", Mid: "1.5 KiB", Right: "app.log"},
		},
		{name: "entry without time", item: EntryItem(storage.Entry{Key: "k", Size: 0}), want: Row{Mid: "0 B", Right: "k"}},
		{name: "container with location", item: ContainerItem(storage.Container{ID: "b1", Location: "eu-west-1"}), want: Row{Mid: "eu-west-1", Right: "b1"}},
		{name: "container unknown location", item: ContainerItem(storage.Container{ID: "b2"}), want: Row{Mid: "unknown", Right: "b2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Row(); got != tt.want {
				t.Fatalf("row mismatch: want %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestItemEqualIgnoresMetadata(t *testing.T) {
	a := EntryItem(storage.Entry{Key: "k", Size: 1})
	b := EntryItem(storage.Entry{Key: "k", Size: 99, LastModified: time.Now()})
	if !a.Equal(b) {
		t.Fatalf("expected entries with same key to be equal")
	}
	if a.Equal(PrefixItem("k")) {
		t.Fatalf("expected different kinds to differ")
	}
	if !UpItem().Equal(UpItem()) {
		t.Fatalf("expected up markers to be equal")
	}
	c1 := ContainerItem(storage.Container{ID: "b", Location: "x"})
	c2 := ContainerItem(storage.Container{ID: "b", Location: "y"})
	if !c1.Equal(c2) {
		t.Fatalf("expected containers with same id to be equal")
	}
}

func TestOrderGroupsByKindStably(t *testing.T) {
	items := []Item{
		EntryItem(storage.Entry{Key: "e1"}),
		PrefixItem("p1/"),
		UpItem(),
		EntryItem(storage.Entry{Key: "e0"}),
		ContainerItem(storage.Container{ID: "c"}),
		PrefixItem("p0/"),
	}
	Order(items)
	want := []string{"", "c", "p1/", "p0/", "e1", "e0"}
	for i, it := range items {
		if it.ID() != want[i] {
			t.Fatalf("position %d: want %q, got %q (%s)", i, want[i], it.ID(), it.Kind)
		}
	}
}

func TestListingResultItems(t *testing.T) {
	r := EntriesResult(storage.Listing{
		Container: "b",
		Prefix:    "p/",
		Prefixes:  []string{"p/z/", "p/a/"},
		Entries:   []storage.Entry{{Key: "p/2"}, {Key: "p/1"}},
	})
	items := r.Items()
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	if items[0].Kind != KindUp {
		t.Fatalf("expected leading up, got %s", items[0].Kind)
	}
	want := []string{"", "p/z/", "p/a/", "p/2", "p/1"}
	for i, it := range items {
		if it.ID() != want[i] {
			t.Fatalf("position %d: want %q, got %q", i, want[i], it.ID())
		}
	}
	if r.Scope() != (Scope{Container: "b", Prefix: "p/"}) {
		t.Fatalf("unexpected scope %+v", r.Scope())
	}

	c := ContainersResult([]storage.Container{{ID: "x"}, {ID: "y"}})
	citems := c.Items()
	if len(citems) != 2 || citems[0].Kind != KindContainer {
		t.Fatalf("expected two containers without up, got %+v", citems)
	}
	if !c.Scope().IsRoot() {
		t.Fatalf("expected container listing to have root scope")
	}
}

func TestEmptyEntriesStillHasUp(t *testing.T) {
	items := EntriesResult(storage.Listing{Container: "b", Prefix: "empty/"}).Items()
	if len(items) != 1 || items[0].Kind != KindUp {
		t.Fatalf("expected only up, got %+v", items)
	}
}
