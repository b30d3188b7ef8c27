package history

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"budgeter/internal/core"

	"github.com/shopspring/decimal"
)

func sampleRequest(paycheckCents int64) (core.Money, core.Categories, core.BudgetResult) {
	cats := core.Categories{{Name: "Rent", Kind: core.KindFixed, Value: decimal.NewFromInt(10)}}
	res, err := core.Allocate(core.BudgetRequest{Paycheck: core.Money{Cents: paycheckCents}, Categories: cats})
	if err != nil {
		panic(err)
	}
	return core.Money{Cents: paycheckCents}, cats, res
}

func TestLogAppendAndList(t *testing.T) {
	l := NewLog()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	if got := l.List(); len(got) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(got))
	}

	for i := int64(1); i <= 3; i++ {
		p, c, r := sampleRequest(i * 10000)
		e := l.Append(p, c, r)
		if e.Sequence != int(i) || !e.CreatedAt.Equal(fixed) {
			t.Fatalf("entry %d: sequence=%d created=%v", i, e.Sequence, e.CreatedAt)
		}
	}

	entries := l.List()
	if len(entries) != 3 || l.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Paycheck.Cents != int64(i+1)*10000 {
			t.Fatalf("entry %d out of order: paycheck %s", i, e.Paycheck)
		}
	}
}

func TestLogListIsACopy(t *testing.T) {
	l := NewLog()
	l.Append(sampleRequest(5000))

	entries := l.List()
	entries[0].Paycheck = core.Money{Cents: 1}
	entries[0].Result.Allocations[0].Name = "Hacked"

	again := l.List()
	if again[0].Paycheck.Cents != 5000 || again[0].Result.Allocations[0].Name != "Rent" {
		t.Fatalf("log was mutated through List: %+v", again[0])
	}
}

func TestLogAppendCopiesInputs(t *testing.T) {
	l := NewLog()
	p, cats, res := sampleRequest(5000)
	l.Append(p, cats, res)

	cats[0].Name = "Changed"
	res.Allocations[0].Name = "Changed"

	e := l.List()[0]
	if e.Categories[0].Name != "Rent" || e.Result.Allocations[0].Name != "Rent" {
		t.Fatalf("log shares memory with caller: %+v", e)
	}
}

func TestLogConcurrentAppends(t *testing.T) {
	l := NewLog()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(sampleRequest(100))
			_ = l.List()
		}()
	}
	wg.Wait()

	entries := l.List()
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(entries))
	}
	for i, e := range entries {
		if e.Sequence != i+1 {
			t.Fatalf("entry %d has sequence %d", i, e.Sequence)
		}
	}
}

func TestEntryJSON(t *testing.T) {
	l := NewLog()
	e := l.Append(sampleRequest(300000))

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"paycheck":3000`,
		`"categories":{"Rent":{"type":"fixed","value":10}}`,
		`"result":{"Rent":10,"Remaining":2990}`,
		`"sequence":1`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("%s missing %s", s, want)
		}
	}
}
