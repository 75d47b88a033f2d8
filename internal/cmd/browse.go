package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adrianmross/objnav/internal/browse"
	"github.com/adrianmross/objnav/internal/nav"
	"github.com/adrianmross/objnav/internal/observability"
)

// session is an opened backend with a controller over it.
type session struct {
	svc     storageService
	fetcher *browse.Fetcher
	ctl     *browse.Controller
	closeFn func() error
}

// openSession starts logging, opens the backend and wires the controller.
func openSession(ctx context.Context, t target) (*session, error) {
	closeLog, err := observability.Init(t.Options.LogFile, t.Options.LogLevel)
	if err != nil {
		return nil, err
	}
	log := observability.CLILogger

	svc, err := openStorage(ctx, t.Context, t.Options)
	if err != nil {
		log.Error("Failed to open storage", zap.String("backend", t.Context.Backend.String()), zap.Error(err))
		_ = closeLog()
		return nil, err
	}
	f := browse.NewFetcher(svc, browse.FetcherOptions{
		Timeout:           t.Options.FetchTimeout,
		RequestsPerSecond: t.Options.RequestsPerSecond,
		Logger:            log,
	})
	ctl := browse.NewController(f, browse.ControllerOptions{
		Scheme: t.Scheme,
		Start:  t.Start,
		Logger: log,
	})
	log.Info("Session started",
		zap.String("context", t.Context.Name),
		zap.String("backend", t.Context.Backend.String()),
		zap.String("container", t.Start.Container),
		zap.String("prefix", t.Start.Prefix),
	)
	return &session{svc: svc, fetcher: f, ctl: ctl, closeFn: closeLog}, nil
}

func (s *session) Close() {
	s.fetcher.Close()
	_ = s.svc.Close()
	_ = s.closeFn()
}

// runBrowser runs the interactive browser until the user quits.
func runBrowser(cmd *cobra.Command, t target) error {
	s, err := openSession(cmd.Context(), t)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctl.Load(cmd.Context()); err != nil {
		return fmt.Errorf("open %s: %w", s.ctl.Header(), err)
	}
	p := tea.NewProgram(
		browse.NewModel(s.ctl, t.Options.TickInterval),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

// listOnce loads the start level and returns its items.
func listOnce(ctx context.Context, ctl *browse.Controller) (nav.Scope, []nav.Item, error) {
	if err := ctl.Load(ctx); err != nil {
		return nav.Scope{}, nil, err
	}
	top, ok := ctl.Stack().Top()
	if !ok {
		return nav.Scope{}, nil, nil
	}
	return top.Scope(), top.Items(), nil
}
