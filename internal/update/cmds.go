package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/state"
)

func waitForEventCmd(ch <-chan state.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AppEventMsg{Event: ev}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	app, ctx, timeout := m.App, m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return RefreshedMsg{Err: app.Refresh(ctx)}
	}
}

// statsCmd reloads the stats the Focus, Finance and Dashboard panels show.
func (m Model) statsCmd() tea.Cmd {
	app, ctx, timeout := m.App, m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return StatsRefreshedMsg{Err: app.RefreshStats(ctx)}
	}
}

// mutate runs fn off the update loop and reports done on success.
func (m Model) mutate(done string, fn func(ctx context.Context) error) tea.Cmd {
	ctx, timeout := m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return MutationMsg{Err: err}
		}
		return MutationMsg{Text: done}
	}
}

func (m Model) focusCmd(fn func(ctx context.Context) (focus.Snapshot, error)) tea.Cmd {
	ctx, timeout := m.ctx, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		snap, err := fn(ctx)
		return FocusUpdatedMsg{Snapshot: snap, Err: err}
	}
}

// track counts an outstanding request so the spinner runs while it is in
// flight.
func (m *Model) track(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.syncSpinner.Tick)
	}
	return cmd
}

func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
}
