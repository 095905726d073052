package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

const (
	dueSoonDays        = 2
	financeCritical    = 0.9
	financeWarning     = 0.75
	largeExpenseShare  = 0.1
	focusEndingMinutes = 5
	hoursPerDay        = 24
)

// TaskRules flags open tasks that are overdue or due within two days.
func TaskRules(tasks []model.Task, now time.Time) []Candidate {
	var out []Candidate
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == model.TaskStatusDone {
			continue
		}
		diff := t.DueDate.Sub(now)
		days := int(math.Ceil(diff.Hours() / hoursPerDay))
		switch {
		case diff < 0:
			out = append(out, Candidate{
				Key:      "task-overdue-" + t.ID,
				Title:    "Task Overdue",
				Message:  fmt.Sprintf("The task %q is overdue by %d days", t.Title, absInt(days)),
				Type:     LevelCritical,
				Category: CategoryTask,
				Link:     "/tasks",
			})
		case days > 0 && days <= dueSoonDays:
			out = append(out, Candidate{
				Key:      "task-due-soon-" + t.ID,
				Title:    "Task Due Soon",
				Message:  fmt.Sprintf("The task %q is due in %d days", t.Title, days),
				Type:     LevelWarning,
				Category: CategoryTask,
				Link:     "/tasks",
			})
		}
	}
	return out
}

// FinanceRules compares this month's expenses with this month's income and
// flags the latest expense above a tenth of that income.
func FinanceRules(txs []model.Transaction, now time.Time) []Candidate {
	year, month := now.Year(), now.Month()
	monthKey := fmt.Sprintf("%d-%d", year, int(month))

	var (
		income, expenses float64
		latest           *model.Transaction
		current          []model.Transaction
	)
	for _, t := range txs {
		d := t.Date.In(now.Location())
		if d.Year() != year || d.Month() != month {
			continue
		}
		current = append(current, t)
		switch t.Type {
		case model.TransactionIncome:
			income += t.Amount
		case model.TransactionExpense:
			expenses += t.Amount
		}
	}

	var out []Candidate
	if income > 0 {
		ratio := expenses / income
		switch {
		case ratio > financeCritical:
			out = append(out, Candidate{
				Key:      "finance-critical-" + monthKey,
				Title:    "Critical Financial Alert",
				Message:  fmt.Sprintf("Your expenses (%.2f) are %.0f%% of your income (%.2f)", expenses, ratio*100, income),
				Type:     LevelCritical,
				Category: CategoryFinance,
				Link:     "/finances",
			})
		case ratio > financeWarning:
			out = append(out, Candidate{
				Key:      "finance-warning-" + monthKey,
				Title:    "Financial Warning",
				Message:  fmt.Sprintf("Your expenses are reaching %.0f%% of your income", ratio*100),
				Type:     LevelWarning,
				Category: CategoryFinance,
				Link:     "/finances",
			})
		}
	}

	for i := range current {
		t := current[i]
		if t.Type != model.TransactionExpense || t.Amount <= income*largeExpenseShare {
			continue
		}
		if latest == nil || !t.Date.Before(latest.Date) {
			latest = &current[i]
		}
	}
	if latest != nil {
		out = append(out, Candidate{
			Key:      "finance-large-expense-" + latest.ID,
			Title:    "Large Expense Added",
			Message:  fmt.Sprintf("A large expense of %.2f was added for %s", latest.Amount, latest.Category),
			Type:     LevelInfo,
			Category: CategoryFinance,
			Link:     "/finances",
		})
	}
	return out
}

// FocusRules warns when the running session has five minutes or less left.
// remaining is the countdown left on the timer, so paused time is not
// counted.
func FocusRules(session *model.FocusSession, remaining time.Duration) []Candidate {
	if session == nil || session.Completed {
		return nil
	}
	minutes := int(math.Round(remaining.Minutes()))
	if minutes <= 0 || minutes > focusEndingMinutes {
		return nil
	}
	return []Candidate{{
		Key:      "focus-ending-" + session.ID,
		Title:    "Focus Time Ending Soon",
		Message:  fmt.Sprintf("Your %s session will end in %d minutes", session.Type, minutes),
		Type:     LevelWarning,
		Category: CategoryFocus,
		Link:     "/focus",
	}}
}

func FocusComplete(session model.FocusSession) Candidate {
	return Candidate{
		Key:      "focus-complete-" + session.ID,
		Title:    "Session Complete",
		Message:  fmt.Sprintf("Your %d minute %s session is complete", session.Duration, session.Type),
		Type:     LevelInfo,
		Category: CategoryFocus,
		Link:     "/focus",
	}
}

func InventoryRules(items []model.InventoryItem) []Candidate {
	var out []Candidate
	for _, it := range items {
		if !it.IsLowStock() {
			continue
		}
		out = append(out, Candidate{
			Key:      "inventory-low-stock-" + it.ID,
			Title:    "Low Stock",
			Message:  fmt.Sprintf("%s is down to %d (minimum %d)", it.Name, it.Quantity, it.MinQuantity),
			Type:     LevelWarning,
			Category: CategoryInventory,
			Link:     "/inventory",
		})
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
