package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/model"
)

// handleFocusKey drives the shared focus timer. Ticks arrive as App events,
// so no key schedules its own tick.
func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	app := m.App
	switch msg.String() {
	case " ":
		switch app.Timer().Snapshot().State {
		case focus.StateRunning:
			snap, err := app.Timer().Pause()
			return m.applyFocus(snap, err, "focus paused"), nil
		case focus.StatePaused:
			snap, err := app.Timer().Resume()
			return m.applyFocus(snap, err, "focus resumed"), nil
		default:
			m.Status = StatusBar{Text: "starting focus session"}
			cmd := m.track(m.focusCmd(func(ctx context.Context) (focus.Snapshot, error) {
				return app.StartDefault(ctx, model.FocusTypeFocus)
			}))
			return m, cmd
		}
	case "b":
		m.Status = StatusBar{Text: "starting break"}
		cmd := m.track(m.focusCmd(func(ctx context.Context) (focus.Snapshot, error) {
			return app.StartDefault(ctx, model.FocusTypeBreak)
		}))
		return m, cmd
	case "s":
		if st := app.Timer().Snapshot().State; st != focus.StateRunning && st != focus.StatePaused {
			m.Status = StatusBar{Text: "no focus session to stop"}
			return m, nil
		}
		m.Status = StatusBar{Text: "stopping session"}
		cmd := m.track(m.focusCmd(func(ctx context.Context) (focus.Snapshot, error) {
			return app.Timer().Stop(ctx)
		}))
		return m, cmd
	}
	return m, nil
}

func (m Model) applyFocus(snap focus.Snapshot, err error, done string) Model {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Focus = snap
	m.Status = StatusBar{Text: done}
	return m
}
