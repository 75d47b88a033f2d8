package browse

import (
	"testing"
	"time"

	"github.com/adrianmross/objnav/internal/nav"
)

func TestFetcherRoutesByScope(t *testing.T) {
	svc := newFakeService()
	f := NewFetcher(svc, FetcherOptions{})
	defer f.Close()

	a := f.Submit(nav.Request{Intent: nav.IntentDescend})
	if a.ID == "" {
		t.Fatalf("expected request id")
	}
	got := <-f.Results()
	if got.Err != nil || got.Result.Kind != nav.ResultContainers || len(got.Result.Containers) != 2 {
		t.Fatalf("unexpected container completion %+v", got)
	}
	if got.Request.ID != a.ID {
		t.Fatalf("expected request echoed back")
	}

	f.Submit(nav.Request{Intent: nav.IntentDescend, Scope: nav.Scope{Container: "b1", Prefix: "p1/"}})
	got = <-f.Results()
	if got.Err != nil || got.Result.Scope() != (nav.Scope{Container: "b1", Prefix: "p1/"}) {
		t.Fatalf("unexpected listing completion %+v", got)
	}
	if len(got.Result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Result.Entries))
	}
}

func TestFetcherTimeout(t *testing.T) {
	svc := newFakeService()
	svc.gate(nav.Scope{})
	f := NewFetcher(svc, FetcherOptions{Timeout: 20 * time.Millisecond})
	defer f.Close()

	f.Submit(nav.Request{Intent: nav.IntentDescend})
	select {
	case got := <-f.Results():
		if got.Err == nil {
			t.Fatalf("expected a timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("fetch did not time out")
	}
}

func TestFetcherIDsAreUnique(t *testing.T) {
	f := NewFetcher(newFakeService(), FetcherOptions{RequestsPerSecond: 1000})
	defer f.Close()
	seen := map[string]bool{}
	for range 5 {
		r := f.Submit(nav.Request{Intent: nav.IntentRefresh})
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
	for range 5 {
		<-f.Results()
	}
}
