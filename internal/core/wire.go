package core

// This file holds the JSON wire format for budget requests and results.
// Objects are walked token by token so category order survives decoding.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errNotObject = errors.New("not a JSON object")

// DecodeBudgetRequest parses a /budget body of the form
//
//	{"paycheck": 3000, "categories": {"Rent": {"type": "fixed", "value": 1200}}}
//
// Category types are resolved once here; the first problem in document order
// is reported as a *ValidationError.
func DecodeBudgetRequest(data []byte) (BudgetRequest, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return BudgetRequest{}, newValidationError(ErrMalformedRequest, "", "invalid JSON payload")
	}

	var req BudgetRequest
	paycheck, err := decodePaycheck(body["paycheck"])
	if err != nil {
		return BudgetRequest{}, err
	}
	req.Paycheck = paycheck

	if raw, ok := body["categories"]; ok && !isNull(raw) {
		cats, err := decodeCategories(raw)
		if err != nil {
			return BudgetRequest{}, err
		}
		req.Categories = cats
	}

	if err := req.Validate(); err != nil {
		return BudgetRequest{}, err
	}
	return req, nil
}

func decodePaycheck(raw json.RawMessage) (Money, error) {
	invalid := newValidationError(ErrInvalidValue, "paycheck",
		"invalid 'paycheck' value; must be non-negative number")
	d, err := ParseJSONNumber(raw)
	if err != nil || d.IsNegative() {
		return Money{}, invalid
	}
	m, err := MoneyFromDecimal(d)
	if err != nil {
		return Money{}, invalid
	}
	return m, nil
}

func decodeCategories(raw json.RawMessage) (Categories, error) {
	cats := Categories{}
	err := walkObject(raw, func(name string, value json.RawMessage) error {
		c, err := decodeCategory(name, value)
		if err != nil {
			return err
		}
		cats.Set(c)
		return nil
	})
	if errors.Is(err, errNotObject) {
		return nil, newValidationError(ErrMalformedRequest, "categories", "'categories' must be an object")
	}
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func decodeCategory(name string, raw json.RawMessage) (Category, error) {
	var info map[string]json.RawMessage
	if err := json.Unmarshal(raw, &info); err != nil || info == nil {
		return Category{}, newValidationError(ErrMalformedRequest, name, "invalid category format for '%s'", name)
	}

	typ := typeString(info["type"])
	kind, ok := ParseCategoryKind(typ)
	if !ok {
		return Category{}, newValidationError(ErrUnknownCategoryType, name,
			"unknown type for category '%s': %s", name, NormalizeKind(typ))
	}

	value := decimal.Zero
	if rawValue, present := info["value"]; present {
		v, err := ParseJSONNumber(rawValue)
		if err != nil {
			if kind == KindPercentage {
				return Category{}, newValidationError(ErrInvalidValue, name, "invalid percentage for '%s'", name)
			}
			return Category{}, newValidationError(ErrInvalidValue, name, "invalid fixed amount for '%s'", name)
		}
		value = v
	}
	return Category{Name: name, Kind: kind, Value: value}, nil
}

// typeString returns the "type" member as text; non-string values are
// rendered as their raw JSON so they show up in the error message.
func typeString(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// walkObject calls fn for every member of a JSON object, in document order.
func walkObject(raw []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return errNotObject
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("read value for %q: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read object end: %w", err)
	}
	return nil
}

type member struct {
	key   string
	value []byte
}

func writeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type categoryJSON struct {
	Type  string      `json:"type"`
	Value json.Number `json:"value"`
}

// MarshalJSON writes {"type": "percentage"|"fixed", "value": n}.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(categoryJSON{Type: c.Kind.String(), Value: json.Number(c.Value.String())})
}

// MarshalJSON writes the categories as one JSON object keyed by name.
func (cs Categories) MarshalJSON() ([]byte, error) {
	members := make([]member, 0, len(cs))
	for _, c := range cs {
		v, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		members = append(members, member{key: c.Name, value: v})
	}
	return writeObject(members)
}

func (cs *Categories) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*cs = nil
		return nil
	}
	cats, err := decodeCategories(data)
	if err != nil {
		return err
	}
	*cs = cats
	return nil
}

// MarshalJSON writes every allocation followed by the Remaining entry.
func (r BudgetResult) MarshalJSON() ([]byte, error) {
	members := make([]member, 0, len(r.Allocations)+1)
	for _, a := range r.Allocations {
		v, err := a.Amount.MarshalJSON()
		if err != nil {
			return nil, err
		}
		members = append(members, member{key: a.Name, value: v})
	}
	v, err := r.Remaining.MarshalJSON()
	if err != nil {
		return nil, err
	}
	members = append(members, member{key: RemainingKey, value: v})
	return writeObject(members)
}

func (r *BudgetResult) UnmarshalJSON(data []byte) error {
	var out BudgetResult
	err := walkObject(data, func(key string, value json.RawMessage) error {
		var m Money
		if err := m.UnmarshalJSON(value); err != nil {
			return fmt.Errorf("result entry %q: %w", key, err)
		}
		if key == RemainingKey {
			out.Remaining = m
			return nil
		}
		out.Allocations = append(out.Allocations, Allocation{Name: key, Amount: m})
		return nil
	})
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// String renders a result on one line, e.g. "Rent=1200.00 Remaining=1800.00".
func (r BudgetResult) String() string {
	parts := make([]string, 0, len(r.Allocations)+1)
	for _, a := range r.Allocations {
		parts = append(parts, a.Name+"="+a.Amount.String())
	}
	parts = append(parts, RemainingKey+"="+r.Remaining.String())
	return strings.Join(parts, " ")
}
