// Package browse drives the navigation stack from key presses and fetch
// completions and renders it as a terminal UI.
package browse

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/adrianmross/objnav/internal/nav"
	"github.com/adrianmross/objnav/pkg/storage"
)

// writeClipboard is a seam so tests never touch the real clipboard.
var writeClipboard = clipboard.WriteAll

// Mode is the input mode of the controller.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "normal"
}

// searchMarker leads every search query and is never erased.
const searchMarker = "/"

// Controller owns the navigation stack. Every method must be called from
// the single goroutine that consumes key events and completions.
type Controller struct {
	stack   nav.Stack
	fetcher *Fetcher
	keys    KeyMap
	log     *zap.Logger

	scheme string
	start  nav.Scope

	mode     Mode
	query    string
	lastKey  string
	inflight int
	started  bool

	status    string
	statusErr bool
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Scheme prefixes the URIs shown and copied. Defaults to the backend's.
	Scheme string
	// Start is the level fetched first. The zero scope is the container list.
	Start  nav.Scope
	Keys   *KeyMap
	Logger *zap.Logger
}

// NewController creates a controller fetching through f.
func NewController(f *Fetcher, opts ControllerOptions) *Controller {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	scheme := opts.Scheme
	if scheme == "" {
		scheme = storage.SchemeFor(f.Backend())
	}
	return &Controller{
		fetcher: f,
		keys:    keys,
		log:     opts.Logger,
		scheme:  scheme,
		start:   opts.Start,
		query:   searchMarker,
	}
}

// Start issues the first fetch.
func (c *Controller) Start() {
	c.started = true
	c.fetch(nav.IntentDescend, c.start)
}

// Load issues the first fetch and merges it before returning. A failed
// start comes back as the error instead of a banner.
func (c *Controller) Load(ctx context.Context) error {
	c.Start()
	select {
	case done := <-c.Completions():
		if done.Err != nil {
			if c.inflight > 0 {
				c.inflight--
			}
			c.log.Error("start failed",
				zap.String("request_id", done.Request.ID),
				zap.String("container", done.Request.Scope.Container),
				zap.String("prefix", done.Request.Scope.Prefix),
				zap.Error(done.Err),
			)
			return done.Err
		}
		c.HandleCompletion(done)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Started reports whether the first fetch has been issued.
func (c *Controller) Started() bool { return c.started }

// Completions is the channel fetch results arrive on.
func (c *Controller) Completions() <-chan Completion {
	return c.fetcher.Results()
}

// Stack exposes the navigation stack for rendering.
func (c *Controller) Stack() *nav.Stack { return &c.stack }

// Mode returns the current input mode.
func (c *Controller) Mode() Mode { return c.mode }

// Query returns the search query including its leading marker.
func (c *Controller) Query() string { return c.query }

// Loading reports whether any fetch is in flight.
func (c *Controller) Loading() bool { return c.inflight > 0 }

// Status returns the transient status line and whether it reports an error.
func (c *Controller) Status() (string, bool) { return c.status, c.statusErr }

// Header names the visible level.
func (c *Controller) Header() string {
	scope, ok := c.stack.Scope()
	if !ok {
		if c.start.IsRoot() {
			return "container selection"
		}
		return storage.FormatURI(c.scheme, c.start.Container, c.start.Prefix)
	}
	if scope.IsRoot() {
		return "container selection"
	}
	return storage.FormatURI(c.scheme, scope.Container, scope.Prefix)
}

// SelectedURI returns the full URI of the selection, or "" with nothing
// selected.
func (c *Controller) SelectedURI() string {
	container, key, ok := c.stack.SelectedKey()
	if !ok {
		return ""
	}
	return storage.FormatURI(c.scheme, container, key)
}

// Tick clears the chord lookback.
func (c *Controller) Tick() {
	c.lastKey = ""
}

// HandleKey applies one key press and reports whether the program should
// quit.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	if key.Matches(msg, c.keys.Interrupt) {
		return true
	}
	if c.mode == ModeSearch {
		c.handleSearchKey(msg)
		return false
	}
	quit := c.handleNormalKey(msg)
	c.lastKey = msg.String()
	return quit
}

func (c *Controller) handleNormalKey(msg tea.KeyMsg) bool {
	c.clearStatus()
	switch {
	case key.Matches(msg, c.keys.Quit):
		return true
	case key.Matches(msg, c.keys.Down):
		c.stack.Next()
	case key.Matches(msg, c.keys.Up):
		c.stack.Previous()
	case key.Matches(msg, c.keys.First):
		c.stack.First()
	case key.Matches(msg, c.keys.Chord):
		if c.lastKey == msg.String() {
			c.stack.First()
		}
	case key.Matches(msg, c.keys.Last):
		c.stack.Last()
	case key.Matches(msg, c.keys.Enter):
		c.activate()
	case key.Matches(msg, c.keys.Ascend):
		c.ascend()
	case key.Matches(msg, c.keys.Refresh):
		c.refresh()
	case key.Matches(msg, c.keys.Search):
		c.mode = ModeSearch
		c.query = searchMarker
	case key.Matches(msg, c.keys.NextHit):
		c.searchNext()
	case key.Matches(msg, c.keys.Copy):
		c.copySelected()
	}
	return false
}

func (c *Controller) handleSearchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		c.mode = ModeNormal
	case tea.KeyBackspace:
		if len(c.query) > len(searchMarker) {
			_, size := utf8.DecodeLastRuneInString(c.query)
			c.query = c.query[:len(c.query)-size]
		}
		c.searchNext()
	case tea.KeySpace:
		c.query += " "
		c.searchNext()
	case tea.KeyRunes:
		c.query += string(msg.Runes)
		c.searchNext()
	}
}

func (c *Controller) searchNext() {
	term := strings.TrimPrefix(c.query, searchMarker)
	if term == "" {
		return
	}
	c.stack.SearchNext(term)
}

// activate descends into the selection or ascends from Up.
func (c *Controller) activate() {
	it, ok := c.stack.Selected()
	if !ok {
		return
	}
	scope, _ := c.stack.Scope()
	switch it.Kind {
	case nav.KindContainer:
		c.fetch(nav.IntentDescend, nav.Scope{Container: it.Container.ID})
	case nav.KindPrefix:
		c.fetch(nav.IntentDescend, nav.Scope{Container: scope.Container, Prefix: it.Prefix})
	case nav.KindUp:
		c.ascend()
	case nav.KindEntry:
	}
}

// ascend pops the visible level and re-reads the one it reveals.
func (c *Controller) ascend() {
	scope, ok := c.stack.Scope()
	if !ok || scope.IsRoot() {
		return
	}
	c.stack.Pop()
	c.fetch(nav.IntentAscend, nav.AscendScope(scope))
}

func (c *Controller) refresh() {
	scope, ok := c.stack.Scope()
	if !ok {
		// Nothing merged yet, so the first fetch failed; try it again.
		c.Start()
		return
	}
	c.fetch(nav.IntentRefresh, scope)
}

func (c *Controller) fetch(intent nav.Intent, scope nav.Scope) {
	c.fetcher.Submit(c.stack.Request(intent, scope))
	c.inflight++
}

func (c *Controller) copySelected() {
	uri := c.SelectedURI()
	if uri == "" {
		return
	}
	if err := writeClipboard(uri); err != nil {
		c.log.Warn("clipboard write failed", zap.String("uri", uri), zap.Error(err))
		c.setError(fmt.Sprintf("copy failed: %v", err))
		return
	}
	c.status, c.statusErr = "copied "+uri, false
}

// HandleCompletion merges a finished fetch. Failures leave the stack as it
// was and raise the error banner.
func (c *Controller) HandleCompletion(done Completion) nav.Outcome {
	if c.inflight > 0 {
		c.inflight--
	}
	req := done.Request
	fields := []zap.Field{
		zap.String("request_id", req.ID),
		zap.String("intent", req.Intent.String()),
		zap.String("container", req.Scope.Container),
		zap.String("prefix", req.Scope.Prefix),
		zap.Duration("elapsed", done.Elapsed),
	}
	if done.Err != nil {
		c.log.Error("fetch failed", append(fields, zap.Error(done.Err))...)
		c.setError(fmt.Sprintf("listing %s failed: %v", storage.FormatURI(c.scheme, req.Scope.Container, req.Scope.Prefix), done.Err))
		return nav.OutcomeDropped
	}

	outcome := c.stack.Merge(req, done.Result)
	fields = append(fields, zap.String("outcome", outcome.String()), zap.Int("items", len(done.Result.Items())))
	if outcome == nav.OutcomeDropped {
		c.log.Debug("stale listing dropped", fields...)
		return outcome
	}
	c.log.Info("listing merged", fields...)
	if c.statusErr {
		c.clearStatus()
	}
	return outcome
}

func (c *Controller) setError(msg string) {
	c.status, c.statusErr = msg, true
}

func (c *Controller) clearStatus() {
	c.status, c.statusErr = "", false
}
