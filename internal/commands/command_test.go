package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"done 2", TypeDone},
		{"/start 25", TypeStart},
		{"/start 5 break", TypeStart},
		{"/preset Deep Work", TypePreset},
		{"/expense 12.50 food lunch with team", TypeExpense},
		{"/income 3000 salary", TypeIncome},
		{"/stock 3 -2", TypeStock},
		{"/item add Printer paper qty:4", TypeItem},
		{"/item rm 1 2", TypeItem},
		{"/preset add Sprint 50", TypePreset},
		{"/search quarterly", TypeSearch},
		{"/READ", TypeRead},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/start 5 Break")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	if cmd.Start.Minutes != 5 || cmd.Start.Type != model.FocusTypeBreak {
		t.Fatalf("unexpected start args %+v", cmd.Start)
	}

	cmd, err = Parse("/start 25")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	if cmd.Start.Type != model.FocusTypeFocus {
		t.Fatalf("expected focus by default, got %s", cmd.Start.Type)
	}

	cmd, err = Parse("/expense 12.50 food lunch with team")
	if err != nil {
		t.Fatalf("parse expense: %v", err)
	}
	tx := cmd.Transaction
	if tx.Type != model.TransactionExpense || tx.Amount != 12.5 || tx.Category != model.CategoryFood || tx.Description != "lunch with team" {
		t.Fatalf("unexpected transaction args %+v", tx)
	}

	cmd, err = Parse("/stock 3 +4")
	if err != nil {
		t.Fatalf("parse stock: %v", err)
	}
	if cmd.Stock.Index != 3 || cmd.Stock.Delta != 4 {
		t.Fatalf("unexpected stock args %+v", cmd.Stock)
	}

	cmd, err = Parse("/search")
	if err != nil {
		t.Fatalf("parse search: %v", err)
	}
	if cmd.Search.Text != "" {
		t.Fatalf("expected empty search to clear, got %q", cmd.Search.Text)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"/add",
		"/done",
		"/done zero",
		"/done 0",
		"/start",
		"/start -5",
		"/start 5 nap",
		"/preset",
		"/expense 10",
		"/expense ten food",
		"/expense 10 salary",
		"/income 10 food",
		"/stock 1",
		"/stock 1 0",
		"/add due:tomorrow",
		"/add report due:2026-13-01",
		"/add report prio:urgent",
		"/preset add Sprint",
		"/preset add Sprint zero",
		"/preset rm",
		"/item",
		"/item buy milk",
		"/item add qty:3",
		"/item add Paper qty:-1",
		"/item add Paper colour:red",
		"/item set 1",
		"/item set x qty:2",
		"/item set 1 qty",
		"/item rm",
		"/item rm 0",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("/add File taxes due:2026-04-15 prio:HIGH desc:gather receipts first")
	if err != nil {
		t.Fatalf("parse add: %v", err)
	}
	a := cmd.Add
	if a.Title != "File taxes" || a.Priority != model.PriorityHigh || a.Description != "gather receipts first" {
		t.Fatalf("unexpected add args %+v", a)
	}
	want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.Local)
	if a.Due == nil || !a.Due.Equal(want) {
		t.Fatalf("due = %v, want %v", a.Due, want)
	}

	cmd, err = Parse("/add call Sam at 10:30")
	if err != nil {
		t.Fatalf("parse add: %v", err)
	}
	if cmd.Add.Title != "call Sam at 10:30" || cmd.Add.Priority != model.PriorityMedium || cmd.Add.Due != nil {
		t.Fatalf("unexpected defaults %+v", cmd.Add)
	}
}

func TestParsePresetActions(t *testing.T) {
	cmd, err := Parse("/preset add Long Read 45 break")
	if err != nil {
		t.Fatalf("parse preset add: %v", err)
	}
	p := cmd.Preset
	if p.Action != PresetCreate || p.Name != "Long Read" || p.Minutes != 45 || p.Type != model.FocusTypeBreak {
		t.Fatalf("unexpected preset add args %+v", p)
	}

	cmd, err = Parse("/preset add Sprint 50")
	if err != nil {
		t.Fatalf("parse preset add: %v", err)
	}
	if cmd.Preset.Type != model.FocusTypeFocus {
		t.Fatalf("expected focus by default, got %s", cmd.Preset.Type)
	}

	cmd, err = Parse("/preset RM Deep Work")
	if err != nil {
		t.Fatalf("parse preset rm: %v", err)
	}
	if cmd.Preset.Action != PresetDelete || cmd.Preset.Name != "Deep Work" {
		t.Fatalf("unexpected preset rm args %+v", cmd.Preset)
	}

	cmd, err = Parse("/preset Deep Work")
	if err != nil {
		t.Fatalf("parse preset: %v", err)
	}
	if cmd.Preset.Action != PresetStart || cmd.Preset.Name != "Deep Work" {
		t.Fatalf("unexpected preset start args %+v", cmd.Preset)
	}
}

func TestParseItemActions(t *testing.T) {
	cmd, err := Parse("/item add Printer paper qty:4 min:10 price:5.5 cat:Office_Supplies loc:Closet desc:A4 reams")
	if err != nil {
		t.Fatalf("parse item add: %v", err)
	}
	in := cmd.Item.Input
	if cmd.Item.Action != ItemCreate || in.Name != "Printer paper" || in.Quantity != 4 || in.MinQuantity != 10 ||
		in.Price != 5.5 || in.Category != "office_supplies" || in.Location != "Closet" || in.Description != "A4 reams" {
		t.Fatalf("unexpected item add args %+v", cmd.Item)
	}

	cmd, err = Parse("/item add Tape")
	if err != nil {
		t.Fatalf("parse item add: %v", err)
	}
	if cmd.Item.Input.Category != string(model.InventoryOther) {
		t.Fatalf("expected other category by default, got %q", cmd.Item.Input.Category)
	}

	cmd, err = Parse("/item set 2 min:3 loc:Garage name:Blue tape")
	if err != nil {
		t.Fatalf("parse item set: %v", err)
	}
	patch := cmd.Item.Patch
	if cmd.Item.Index != 2 || patch.MinQuantity == nil || *patch.MinQuantity != 3 ||
		patch.Location == nil || *patch.Location != "Garage" || patch.Name == nil || *patch.Name != "Blue tape" {
		t.Fatalf("unexpected item set args %+v", cmd.Item)
	}
	if patch.Quantity != nil || patch.Price != nil || patch.Category != nil {
		t.Fatalf("expected untouched fields to stay nil, got %+v", patch)
	}

	cmd, err = Parse("/item rm 3 1")
	if err != nil {
		t.Fatalf("parse item rm: %v", err)
	}
	if cmd.Item.Action != ItemDelete || len(cmd.Item.Indexes) != 2 || cmd.Item.Indexes[0] != 3 || cmd.Item.Indexes[1] != 1 {
		t.Fatalf("unexpected item rm args %+v", cmd.Item)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse("  / ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteTransactionHandlesBothTypes(t *testing.T) {
	var seen []model.TransactionType
	handlers := Handlers{
		Transaction: func(a TransactionArgs) (Result, error) {
			seen = append(seen, a.Type)
			return Result{}, nil
		},
	}
	for _, in := range []string{"/income 10 salary", "/expense 5 food"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	if len(seen) != 2 || seen[0] != model.TransactionIncome || seen[1] != model.TransactionExpense {
		t.Fatalf("unexpected dispatch order %v", seen)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("/read")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
