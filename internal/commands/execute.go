package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add         func(AddArgs) (Result, error)
	Done        func(DoneArgs) (Result, error)
	Start       func(StartArgs) (Result, error)
	Preset      func(PresetArgs) (Result, error)
	Transaction func(TransactionArgs) (Result, error)
	Stock       func(StockArgs) (Result, error)
	Item        func(ItemArgs) (Result, error)
	Search      func(SearchArgs) (Result, error)
	Read        func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Start(*cmd.Start)
	case TypePreset:
		if handlers.Preset == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Preset(*cmd.Preset)
	case TypeExpense, TypeIncome:
		if handlers.Transaction == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Transaction(*cmd.Transaction)
	case TypeStock:
		if handlers.Stock == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Stock(*cmd.Stock)
	case TypeItem:
		if handlers.Item == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Item(*cmd.Item)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Search(*cmd.Search)
	case TypeRead:
		if handlers.Read == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Read()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) *CommandError {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
