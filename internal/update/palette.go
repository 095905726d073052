package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/commands"
	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/state"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	case tea.KeySpace:
		m.commandInput.SetValue(m.commandInput.Value() + " ")
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

// executePaletteCommand runs the parsed command. Index arguments refer to the
// 1-based rows of the tasks and inventory lists as currently filtered.
func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	parsed, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	app := m.App
	var pending tea.Cmd
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			in := model.TaskInput{
				Title:       a.Title,
				Description: a.Description,
				Status:      model.TaskStatusTodo,
				Priority:    a.Priority,
				DueDate:     a.Due,
			}
			pending = m.mutate(fmt.Sprintf("added task: %s", a.Title), func(ctx context.Context) error {
				_, err := app.Tasks.Create(ctx, in)
				return err
			})
			return commands.Result{Message: "adding task: " + a.Title}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			tasks := m.visibleTasks()
			if d.Index > len(tasks) {
				return commands.Result{}, outOfRange("task", d.Index, len(tasks))
			}
			t := tasks[d.Index-1]
			done := model.TaskStatusDone
			pending = m.mutate(fmt.Sprintf("completed task: %s", t.Title), func(ctx context.Context) error {
				_, err := app.Tasks.Update(ctx, t.ID, model.TaskPatch{Status: &done})
				return err
			})
			return commands.Result{Message: "completing task: " + t.Title}, nil
		},
		Start: func(s commands.StartArgs) (commands.Result, error) {
			pending = m.focusCmd(func(ctx context.Context) (focus.Snapshot, error) {
				return app.StartFocus(ctx, s.Minutes, s.Type)
			})
			m.CurrentView = ViewFocus
			return commands.Result{Message: fmt.Sprintf("starting %d minute %s session", s.Minutes, s.Type)}, nil
		},
		Preset: func(p commands.PresetArgs) (commands.Result, error) {
			if p.Action == commands.PresetCreate {
				in := model.FocusPresetInput{Name: p.Name, Duration: p.Minutes, Type: p.Type}
				pending = m.mutate("added preset: "+p.Name, func(ctx context.Context) error {
					_, err := app.Focus.CreatePreset(ctx, in)
					return err
				})
				m.CurrentView = ViewFocus
				return commands.Result{Message: "adding preset: " + p.Name}, nil
			}
			preset, err := app.Focus.FindPreset(p.Name)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if p.Action == commands.PresetDelete {
				pending = m.mutate("removed preset: "+preset.Name, func(ctx context.Context) error {
					return app.Focus.DeletePreset(ctx, preset.ID)
				})
				return commands.Result{Message: "removing preset: " + preset.Name}, nil
			}
			pending = m.focusCmd(func(ctx context.Context) (focus.Snapshot, error) {
				return app.StartPreset(ctx, preset.Name)
			})
			m.CurrentView = ViewFocus
			return commands.Result{Message: "starting preset: " + preset.Name}, nil
		},
		Transaction: func(t commands.TransactionArgs) (commands.Result, error) {
			in := model.TransactionInput{
				Type:        t.Type,
				Amount:      t.Amount,
				Category:    t.Category,
				Description: t.Description,
				Date:        time.Now(),
			}
			pending = m.mutate(fmt.Sprintf("recorded %s of %s", t.Type, formatMoney(t.Amount)), func(ctx context.Context) error {
				if _, err := app.Finance.Create(ctx, in); err != nil {
					return err
				}
				_, err := app.Finance.FetchStats(ctx, state.ThisMonth(time.Now()))
				return err
			})
			return commands.Result{Message: fmt.Sprintf("recording %s", t.Type)}, nil
		},
		Stock: func(s commands.StockArgs) (commands.Result, error) {
			items := m.visibleInventory()
			if s.Index > len(items) {
				return commands.Result{}, outOfRange("item", s.Index, len(items))
			}
			pending = m.adjustStock(items[s.Index-1], s.Delta)
			return commands.Result{Message: fmt.Sprintf("adjusting %s by %+d", items[s.Index-1].Name, s.Delta)}, nil
		},
		Item: func(it commands.ItemArgs) (commands.Result, error) {
			items := m.visibleInventory()
			switch it.Action {
			case commands.ItemCreate:
				in := it.Input
				pending = m.mutate("added item: "+in.Name, func(ctx context.Context) error {
					_, err := app.Inventory.Create(ctx, in)
					return err
				})
				m.CurrentView = ViewInventory
				return commands.Result{Message: "adding item: " + in.Name}, nil
			case commands.ItemEdit:
				if it.Index > len(items) {
					return commands.Result{}, outOfRange("item", it.Index, len(items))
				}
				item, patch := items[it.Index-1], it.Patch
				pending = m.mutate("updated item: "+item.Name, func(ctx context.Context) error {
					_, err := app.Inventory.Update(ctx, item.ID, patch)
					return err
				})
				return commands.Result{Message: "updating item: " + item.Name}, nil
			default:
				ids := make([]string, 0, len(it.Indexes))
				seen := make(map[int]bool, len(it.Indexes))
				for _, n := range it.Indexes {
					if n > len(items) {
						return commands.Result{}, outOfRange("item", n, len(items))
					}
					if !seen[n] {
						seen[n] = true
						ids = append(ids, items[n-1].ID)
					}
				}
				pending = m.mutate(fmt.Sprintf("removed %d item(s)", len(ids)), func(ctx context.Context) error {
					return app.Inventory.DeleteMany(ctx, ids)
				})
				return commands.Result{Message: fmt.Sprintf("removing %d item(s)", len(ids))}, nil
			}
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.TaskFilter.Search = s.Text
			m.InventoryFilter.Search = s.Text
			m.Cursor.Tasks, m.Cursor.Inventory = 0, 0
			if m.CurrentView != ViewInventory {
				m.CurrentView = ViewTasks
			}
			if s.Text == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: "searching: " + s.Text}, nil
		},
		Read: func() (commands.Result, error) {
			app.Notifications.MarkAllAsRead()
			m.Toast = nil
			return commands.Result{Message: "all notifications read"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	if parsed.Type == commands.TypeStock {
		// adjustStock already counted the request.
		return m, pending
	}
	cmd := m.track(pending)
	return m, cmd
}

func outOfRange(what string, index, n int) *commands.CommandError {
	return &commands.CommandError{
		Code:    commands.ErrCodeInvalidArgument,
		Message: fmt.Sprintf("no %s #%d (list has %d)", what, index, n),
	}
}
