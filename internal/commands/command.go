package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeStart   Type = "start"
	TypePreset  Type = "preset"
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
	TypeStock   Type = "stock"
	TypeItem    Type = "item"
	TypeSearch  Type = "search"
	TypeRead    Type = "read"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DateLayout is the format of due: dates.
const DateLayout = "2006-01-02"

// AddArgs carries /add. Priority defaults to medium; Due is local midnight
// of the given day.
type AddArgs struct {
	Title       string
	Description string
	Priority    model.TaskPriority
	Due         *time.Time
}

// DoneArgs points at a task by its 1-based position in the visible list.
type DoneArgs struct {
	Index int
}

type StartArgs struct {
	Minutes int
	Type    model.FocusType
}

type PresetAction string

const (
	PresetStart  PresetAction = "start"
	PresetCreate PresetAction = "add"
	PresetDelete PresetAction = "rm"
)

// PresetArgs carries /preset. Minutes and Type are only set for add.
type PresetArgs struct {
	Action  PresetAction
	Name    string
	Minutes int
	Type    model.FocusType
}

// TransactionArgs carries /expense and /income.
type TransactionArgs struct {
	Type        model.TransactionType
	Amount      float64
	Category    model.TransactionCategory
	Description string
}

type StockArgs struct {
	Index int
	Delta int
}

type ItemAction string

const (
	ItemCreate ItemAction = "add"
	ItemEdit   ItemAction = "set"
	ItemDelete ItemAction = "rm"
)

// ItemArgs carries /item. Input is set for add, Index and Patch for set,
// Indexes for rm.
type ItemArgs struct {
	Action  ItemAction
	Input   model.InventoryInput
	Index   int
	Patch   model.InventoryPatch
	Indexes []int
}

type SearchArgs struct {
	Text string
}

type Command struct {
	Type        Type
	Raw         string
	Add         *AddArgs
	Done        *DoneArgs
	Start       *StartArgs
	Preset      *PresetArgs
	Transaction *TransactionArgs
	Stock       *StockArgs
	Item        *ItemArgs
	Search      *SearchArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeStart:
		return parseStart(input, args)
	case TypePreset:
		return parsePreset(input, args)
	case TypeExpense:
		return parseTransaction(input, model.TransactionExpense, args)
	case TypeIncome:
		return parseTransaction(input, model.TransactionIncome, args)
	case TypeStock:
		return parseStock(input, args)
	case TypeItem:
		return parseItem(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Text: strings.Join(args, " ")}}, nil
	case TypeRead:
		return Command{Type: TypeRead, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "/add <title> [due:YYYY-MM-DD] [prio:low|medium|high]
// [desc:<text>]". desc: takes the rest of the line. Other words with a
// colon stay in the title.
func parseAdd(raw string, args []string) (Command, error) {
	add := AddArgs{Priority: model.PriorityMedium}
	var title []string
	for i, arg := range args {
		key, value, ok := option(arg)
		if !ok {
			title = append(title, arg)
			continue
		}
		switch key {
		case "due":
			due, err := time.ParseInLocation(DateLayout, value, time.Local)
			if err != nil {
				return Command{}, invalid(fmt.Sprintf("due date must be YYYY-MM-DD: %s", value))
			}
			add.Due = &due
		case "prio", "priority":
			p := model.TaskPriority(strings.ToUpper(value))
			if !p.IsValid() {
				return Command{}, invalid(fmt.Sprintf("priority must be low, medium or high: %s", value))
			}
			add.Priority = p
		case "desc":
			add.Description = strings.TrimSpace(strings.Join(append([]string{value}, args[i+1:]...), " "))
		default:
			// "call at 10:30" keeps its colon.
			title = append(title, arg)
		}
		if key == "desc" {
			break
		}
	}
	add.Title = strings.Join(title, " ")
	if add.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &add}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("done requires a task number")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Index: n}}, nil
}

func parseStart(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalid("start requires minutes and an optional focus|break")
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes <= 0 {
		return Command{}, invalid(fmt.Sprintf("minutes must be a positive number: %s", args[0]))
	}
	typ := model.FocusTypeFocus
	if len(args) == 2 {
		typ = model.FocusType(strings.ToLower(args[1]))
		if !typ.IsValid() {
			return Command{}, invalid(fmt.Sprintf("session type must be focus or break: %s", args[1]))
		}
	}
	return Command{Type: TypeStart, Raw: raw, Start: &StartArgs{Minutes: minutes, Type: typ}}, nil
}

// parsePreset reads "/preset <name>" to start a preset,
// "/preset add <name> <minutes> [focus|break]" and "/preset rm <name>".
func parsePreset(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("preset requires a name")
	}
	switch PresetAction(strings.ToLower(args[0])) {
	case PresetCreate:
		rest := args[1:]
		typ := model.FocusTypeFocus
		if n := len(rest); n > 0 {
			if t := model.FocusType(strings.ToLower(rest[n-1])); t.IsValid() {
				typ = t
				rest = rest[:n-1]
			}
		}
		if len(rest) < 2 {
			return Command{}, invalid("preset add requires a name and minutes")
		}
		minutes, err := strconv.Atoi(rest[len(rest)-1])
		if err != nil || minutes <= 0 {
			return Command{}, invalid(fmt.Sprintf("minutes must be a positive number: %s", rest[len(rest)-1]))
		}
		name := strings.Join(rest[:len(rest)-1], " ")
		return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Action: PresetCreate, Name: name, Minutes: minutes, Type: typ}}, nil
	case PresetDelete:
		name := strings.Join(args[1:], " ")
		if name == "" {
			return Command{}, invalid("preset rm requires a name")
		}
		return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Action: PresetDelete, Name: name}}, nil
	}
	return Command{Type: TypePreset, Raw: raw, Preset: &PresetArgs{Action: PresetStart, Name: strings.Join(args, " ")}}, nil
}

func parseTransaction(raw string, typ model.TransactionType, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid(fmt.Sprintf("%s requires an amount and a category", typ))
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount < 0 {
		return Command{}, invalid(fmt.Sprintf("amount must be a non-negative number: %s", args[0]))
	}
	category := model.TransactionCategory(strings.ToLower(args[1]))
	if category.Type() != typ {
		return Command{}, invalid(fmt.Sprintf("%s is not an %s category", args[1], typ))
	}
	return Command{Type: Type(typ), Raw: raw, Transaction: &TransactionArgs{
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: strings.Join(args[2:], " "),
	}}, nil
}

func parseStock(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("stock requires an item number and a delta")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	delta, convErr := strconv.Atoi(strings.TrimPrefix(args[1], "+"))
	if convErr != nil || delta == 0 {
		return Command{}, invalid(fmt.Sprintf("delta must be a non-zero number: %s", args[1]))
	}
	return Command{Type: TypeStock, Raw: raw, Stock: &StockArgs{Index: n, Delta: delta}}, nil
}

// parseItem reads "/item add <name> [qty:N] [min:N] [price:X] [cat:C]
// [loc:L] [desc:text]", "/item set <n> <field:value>..." and
// "/item rm <n>...".
func parseItem(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("item requires add, set or rm")
	}
	rest := args[1:]
	switch ItemAction(strings.ToLower(args[0])) {
	case ItemCreate:
		in := model.InventoryInput{Category: string(model.InventoryOther)}
		var name []string
		for i, arg := range rest {
			key, value, ok := option(arg)
			if !ok {
				name = append(name, arg)
				continue
			}
			if key == "desc" {
				in.Description = strings.TrimSpace(strings.Join(append([]string{value}, rest[i+1:]...), " "))
				break
			}
			if err := setItemField(key, value, &in); err != nil {
				return Command{}, err
			}
		}
		in.Name = strings.Join(name, " ")
		if in.Name == "" {
			return Command{}, invalid("item add requires a name")
		}
		return Command{Type: TypeItem, Raw: raw, Item: &ItemArgs{Action: ItemCreate, Input: in}}, nil
	case ItemEdit:
		if len(rest) < 2 {
			return Command{}, invalid("item set requires an item number and field:value pairs")
		}
		n, err := parseIndex(rest[0])
		if err != nil {
			return Command{}, err
		}
		patch, err := parseItemPatch(rest[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeItem, Raw: raw, Item: &ItemArgs{Action: ItemEdit, Index: n, Patch: patch}}, nil
	case ItemDelete:
		if len(rest) == 0 {
			return Command{}, invalid("item rm requires at least one item number")
		}
		indexes := make([]int, 0, len(rest))
		for _, a := range rest {
			n, err := parseIndex(a)
			if err != nil {
				return Command{}, err
			}
			indexes = append(indexes, n)
		}
		return Command{Type: TypeItem, Raw: raw, Item: &ItemArgs{Action: ItemDelete, Indexes: indexes}}, nil
	default:
		return Command{}, invalid(fmt.Sprintf("item action must be add, set or rm: %s", args[0]))
	}
}

func setItemField(key, value string, in *model.InventoryInput) error {
	switch key {
	case "qty", "min":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return invalid(fmt.Sprintf("%s must be a non-negative number: %s", key, value))
		}
		if key == "qty" {
			in.Quantity = n
		} else {
			in.MinQuantity = n
		}
	case "price":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return invalid(fmt.Sprintf("price must be a non-negative number: %s", value))
		}
		in.Price = f
	case "cat":
		in.Category = strings.ToLower(value)
	case "loc":
		in.Location = value
	default:
		return invalid(fmt.Sprintf("unknown item field: %s", key))
	}
	return nil
}

// parseItemPatch maps field:value pairs onto a patch. Only the fields named
// are set. name: and desc: take the rest of the line.
func parseItemPatch(args []string) (model.InventoryPatch, error) {
	var (
		patch model.InventoryPatch
		set   model.InventoryInput
	)
	for i, arg := range args {
		key, value, ok := option(arg)
		if !ok {
			return model.InventoryPatch{}, invalid(fmt.Sprintf("expected field:value, got %s", arg))
		}
		if key == "name" || key == "desc" {
			text := strings.TrimSpace(strings.Join(append([]string{value}, args[i+1:]...), " "))
			if key == "name" {
				patch.Name = &text
			} else {
				patch.Description = &text
			}
			break
		}
		if err := setItemField(key, value, &set); err != nil {
			return model.InventoryPatch{}, err
		}
		switch key {
		case "qty":
			patch.Quantity = &set.Quantity
		case "min":
			patch.MinQuantity = &set.MinQuantity
		case "price":
			patch.Price = &set.Price
		case "cat":
			patch.Category = &set.Category
		case "loc":
			patch.Location = &set.Location
		}
	}
	return patch, nil
}

// option splits "key:value". Plain words and words with an empty key are
// not options.
func option(arg string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(arg, ":")
	if !ok || key == "" {
		return "", "", false
	}
	return strings.ToLower(key), value, true
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, invalid(fmt.Sprintf("expected a list number, got %s", s))
	}
	return n, nil
}

func invalid(msg string) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: msg}
}
