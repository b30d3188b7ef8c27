package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RemainingKey is the synthetic result entry holding paycheck minus all allocations.
const RemainingKey = "Remaining"

const (
	KindUnknown CategoryKind = iota
	KindPercentage
	KindFixed
)

type (
	// CategoryKind tells how a category value is turned into an amount.
	CategoryKind int

	Category struct {
		Name  string
		Kind  CategoryKind
		Value decimal.Decimal // percentage points or currency amount, depending on Kind
	}

	// Categories keeps categories in the order the user entered them.
	Categories []Category

	BudgetRequest struct {
		Paycheck   Money
		Categories Categories
	}

	Allocation struct {
		Name   string
		Amount Money
	}

	BudgetResult struct {
		Allocations []Allocation
		Remaining   Money
	}
)

var (
	ErrInvalidValue            = errors.New("invalid value")
	ErrUnknownCategoryType     = errors.New("unknown category type")
	ErrMalformedRequest        = errors.New("malformed request")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// ValidationError carries a user-facing message naming the offending field.
// Err is one of the sentinel errors above.
type ValidationError struct {
	Err   error
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(kind error, field, format string, args ...any) error {
	return &ValidationError{Err: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

var kindSynonyms = map[string]CategoryKind{
	"percent":     KindPercentage,
	"percentage":  KindPercentage,
	"pct":         KindPercentage,
	"fixed":       KindFixed,
	"fixedamount": KindFixed,
	"amount":      KindFixed,
}

// NormalizeKind lower-cases s and strips all whitespace, so "Fixed Amount"
// becomes "fixedamount".
func NormalizeKind(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

// ParseCategoryKind resolves a type string, accepting the usual synonyms.
func ParseCategoryKind(s string) (CategoryKind, bool) {
	k, ok := kindSynonyms[NormalizeKind(s)]
	return k, ok
}

func (k CategoryKind) String() string {
	switch k {
	case KindPercentage:
		return "percentage"
	case KindFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Amount computes the allocation for this category out of paycheck.
// Percentages are applied to the already rounded paycheck; every amount is
// rounded half-to-even to the cent.
func (c Category) Amount(paycheck Money) (Money, error) {
	var raw decimal.Decimal
	switch c.Kind {
	case KindPercentage:
		raw = paycheck.Decimal().Mul(c.Value).Shift(-2)
	case KindFixed:
		raw = c.Value
	default:
		return Money{}, newValidationError(ErrUnknownCategoryType, c.Name,
			"unknown type for category '%s'", c.Name)
	}
	m, err := MoneyFromDecimal(raw)
	if err != nil {
		return Money{}, newValidationError(ErrInvalidValue, c.Name,
			"amount for category '%s' is out of range", c.Name)
	}
	return m, nil
}

// Get returns the category with the given name.
func (cs Categories) Get(name string) (Category, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Set replaces an existing category in place or appends a new one.
func (cs *Categories) Set(c Category) {
	for i := range *cs {
		if (*cs)[i].Name == c.Name {
			(*cs)[i] = c
			return
		}
	}
	*cs = append(*cs, c)
}

// Delete removes the named category and reports whether it existed.
func (cs *Categories) Delete(name string) bool {
	for i := range *cs {
		if (*cs)[i].Name == name {
			*cs = append((*cs)[:i], (*cs)[i+1:]...)
			return true
		}
	}
	return false
}

func (r BudgetRequest) Validate() error {
	if r.Paycheck.IsNegative() {
		return newValidationError(ErrInvalidValue, "paycheck",
			"invalid 'paycheck' value; must be non-negative number")
	}
	seen := make(map[string]struct{}, len(r.Categories))
	for _, c := range r.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return newValidationError(ErrMalformedRequest, "categories", "category name cannot be empty")
		}
		if c.Name == RemainingKey {
			return newValidationError(ErrMalformedRequest, c.Name,
				"category name '%s' is reserved", RemainingKey)
		}
		if _, dup := seen[c.Name]; dup {
			return newValidationError(ErrMalformedRequest, c.Name, "duplicate category '%s'", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Amount looks up an allocation by name; RemainingKey returns the remaining balance.
func (r BudgetResult) Amount(name string) (Money, bool) {
	if name == RemainingKey {
		return r.Remaining, true
	}
	for _, a := range r.Allocations {
		if a.Name == name {
			return a.Amount, true
		}
	}
	return Money{}, false
}

// Spent is the sum of all allocations.
func (r BudgetResult) Spent() Money {
	var total Money
	for _, a := range r.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}
