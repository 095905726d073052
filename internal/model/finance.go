package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
)

var (
	ErrInvalidTransactionType = errors.New("model: invalid transaction type")
	ErrInvalidCategory        = errors.New("model: invalid transaction category")
	ErrCategoryTypeMismatch   = errors.New("model: category does not match transaction type")
)

const TransactionDescriptionMax = 500

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense:
		return true
	default:
		return false
	}
}

type TransactionCategory string

const (
	CategorySalary        TransactionCategory = "salary"
	CategoryInvestment    TransactionCategory = "investment"
	CategoryOtherIncome   TransactionCategory = "other_income"
	CategoryFood          TransactionCategory = "food"
	CategoryTransport     TransactionCategory = "transportation"
	CategoryUtilities     TransactionCategory = "utilities"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryHealthcare    TransactionCategory = "healthcare"
	CategoryOtherExpense  TransactionCategory = "other_expense"
)

var (
	incomeCategories  = []TransactionCategory{CategorySalary, CategoryInvestment, CategoryOtherIncome}
	expenseCategories = []TransactionCategory{
		CategoryFood, CategoryTransport, CategoryUtilities, CategoryEntertainment,
		CategoryShopping, CategoryHealthcare, CategoryOtherExpense,
	}
)

// Type returns the transaction type a category belongs to, or "" for an
// unknown category.
func (c TransactionCategory) Type() TransactionType {
	switch c {
	case CategorySalary, CategoryInvestment, CategoryOtherIncome:
		return TransactionIncome
	case CategoryFood, CategoryTransport, CategoryUtilities, CategoryEntertainment,
		CategoryShopping, CategoryHealthcare, CategoryOtherExpense:
		return TransactionExpense
	default:
		return ""
	}
}

func (c TransactionCategory) IsValid() bool {
	return c.Type() != ""
}

// CategoriesFor lists the categories allowed for a transaction type.
func CategoriesFor(t TransactionType) []TransactionCategory {
	switch t {
	case TransactionIncome:
		return append([]TransactionCategory(nil), incomeCategories...)
	case TransactionExpense:
		return append([]TransactionCategory(nil), expenseCategories...)
	default:
		return nil
	}
}

type Transaction struct {
	ID          string              `json:"id"`
	Type        TransactionType     `json:"type"`
	Amount      float64             `json:"amount"`
	Category    TransactionCategory `json:"category"`
	Description string              `json:"description,omitempty"`
	Date        time.Time           `json:"date"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() float64 {
	if t.Type == TransactionExpense {
		return -t.Amount
	}
	return t.Amount
}

type TransactionInput struct {
	Type        TransactionType     `json:"type"`
	Amount      float64             `json:"amount"`
	Category    TransactionCategory `json:"category"`
	Description string              `json:"description,omitempty"`
	Date        time.Time           `json:"date"`
}

func (in TransactionInput) Validate() error {
	return validateTransaction(Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	})
}

type TransactionPatch struct {
	Type        *TransactionType     `json:"type,omitempty"`
	Amount      *float64             `json:"amount,omitempty"`
	Category    *TransactionCategory `json:"category,omitempty"`
	Description *string              `json:"description,omitempty"`
	Date        *time.Time           `json:"date,omitempty"`
}

func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// ValidateTransaction checks a complete transaction, typically the result of
// applying a patch to a stored one.
func ValidateTransaction(t Transaction) error {
	return validateTransaction(t)
}

func validateTransaction(t Transaction) error {
	var errs criterio.FieldErrorsBuilder
	if !t.Type.IsValid() {
		errs = errs.Append("type", fmt.Errorf("%w: %q", ErrInvalidTransactionType, t.Type))
	}
	errs = appendNonNegativeFloat(errs, "amount", t.Amount)
	switch {
	case !t.Category.IsValid():
		errs = errs.Append("category", fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category))
	case t.Type.IsValid() && t.Category.Type() != t.Type:
		errs = errs.Append("category", fmt.Errorf("%w: %s is not an %s category", ErrCategoryTypeMismatch, t.Category, t.Type))
	}
	errs = appendText(errs, "description", t.Description, 0, TransactionDescriptionMax)
	if t.Date.IsZero() {
		errs = errs.Append("date", ErrRequired)
	}
	return errs.ToError()
}

type FinanceStats struct {
	TotalIncome   float64                         `json:"totalIncome"`
	TotalExpenses float64                         `json:"totalExpenses"`
	Balance       float64                         `json:"balance"`
	ByCategory    map[TransactionCategory]float64 `json:"byCategory"`
}

// SummarizeTransactions totals transactions by type and category.
func SummarizeTransactions(txs []Transaction) FinanceStats {
	out := FinanceStats{ByCategory: make(map[TransactionCategory]float64)}
	for _, tx := range txs {
		switch tx.Type {
		case TransactionIncome:
			out.TotalIncome += tx.Amount
		case TransactionExpense:
			out.TotalExpenses += tx.Amount
		}
		out.ByCategory[tx.Category] += tx.Amount
	}
	out.Balance = out.TotalIncome - out.TotalExpenses
	return out
}
