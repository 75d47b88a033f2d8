package cmd

import (
	"strings"
	"testing"

	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/storage"
)

func TestCurrentOutputs(t *testing.T) {
	cfgPath := writeConfig(t, config.Config{
		Contexts:       []config.Context{{Name: "dev", Backend: storage.BackendS3, Profile: "DEFAULT"}},
		CurrentContext: "dev",
	})

	got, err := run(t, newCurrentCmd(), "current", "--config", cfgPath)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "dev\n" {
		t.Fatalf("want dev, got %q", got)
	}
}

func TestCurrentNoCurrentContext(t *testing.T) {
	cfgPath := writeConfig(t, config.Config{})
	_, err := run(t, newCurrentCmd(), "current", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "no current context set") {
		t.Fatalf("expected error for missing current context, got %v", err)
	}
}

func TestCurrentContextNotFound(t *testing.T) {
	cfgPath := writeConfig(t, config.Config{CurrentContext: "dev"})
	_, err := run(t, newCurrentCmd(), "current", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "context not found") {
		t.Fatalf("expected context not found error, got %v", err)
	}
}

func TestAbbrevOCID(t *testing.T) {
	if got := abbrevOCID("short"); got != "short" {
		t.Fatalf("short ids stay whole, got %q", got)
	}
	if got := abbrevOCID("ocid1.compartment.oc1..abcdef"); got != "ocid1.…abcdef" {
		t.Fatalf("unexpected abbreviation %q", got)
	}
}
