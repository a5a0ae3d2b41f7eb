package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/gv/pkg/store"
	"github.com/Dicklesworthstone/gv/pkg/watcher"
)

// Run opens the browser full-screen and blocks until the user quits. The
// data file is watched and the list reloads when another process changes it.
func Run(s *store.Store, opts ...Option) error {
	m := New(s, opts...)

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	w, err := watcher.New(s.Path(), notify, watcher.WithLogger(m.logger))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		m.logger.Warn("not watching data file", "path", s.Path(), "error", err)
	} else {
		defer w.Stop()
		m.changes = changes
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
