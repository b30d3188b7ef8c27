package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"$1,200", "1200", true},
		{"2e3", "2000", true},
		{"-15", "-15", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"$", "", false},
		{"1e99999999", "", false},
		{"1e-99999999", "", false},
		{"1e21", "", false},
		{"12345678901234567890123456789012345678901", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseJSONNumber(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{`40`, "40", true},
		{`12.5`, "12.5", true},
		{`"40"`, "40", true},
		{`" 7.25 "`, "7.25", true},
		{`1e2`, "100", true},
		{`null`, "", false},
		{`true`, "", false},
		{`"abc"`, "", false},
		{`""`, "", false},
		{`{}`, "", false},
		{`[1]`, "", false},
		{``, "", false},
		{`1e99999999`, "", false},
		{`1e-99999999`, "", false},
		{`"1e40000000"`, "", false},
		{`1e-21`, "", false},
		{`1e20`, "100000000000000000000", true},
	}
	for _, tc := range cases {
		got, err := ParseJSONNumber(json.RawMessage(tc.in))
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%s expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%s expected error", tc.in)
		}
	}
}

func TestMoneyFromDecimalRoundsHalfEven(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"0.125", 12},
		{"0.135", 14},
		{"0.126", 13},
		{"1.005", 100},
		{"1.015", 102},
		{"-0.125", -12},
		{"1200", 120000},
		{"33.333", 3333},
	}
	for _, tc := range cases {
		m, err := MoneyFromDecimal(decimal.RequireFromString(tc.in))
		if err != nil || m.Cents != tc.cents {
			t.Fatalf("%s expected %d cents, got %d (err=%v)", tc.in, tc.cents, m.Cents, err)
		}
	}
}

func TestMoneyFromDecimalRejectsHugeAmounts(t *testing.T) {
	if _, err := MoneyFromDecimal(decimal.RequireFromString("1e20")); err == nil {
		t.Fatalf("expected error for out-of-range amount")
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Money{Cents: 120000}, "1200"},
		{Money{Cents: 1250}, "12.5"},
		{Money{Cents: 1}, "0.01"},
		{Money{Cents: -5000}, "-50"},
		{Money{}, "0"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.m)
		if err != nil || string(b) != tc.want {
			t.Fatalf("marshal %d: got %s, want %s (err=%v)", tc.m.Cents, b, tc.want, err)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`12.345`), &m); err != nil || m.Cents != 1234 {
		t.Fatalf("unmarshal: got %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"x"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric money")
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 120050}).String(); got != "1200.50" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -7}).String(); got != "-0.07" {
		t.Fatalf("got %q", got)
	}
}
