package resolve

import (
	"testing"

	"github.com/quara-dev/fw-decoder/internal/dict"
)

func testTable(t *testing.T) *dict.Table {
	t.Helper()
	table, err := dict.New([]dict.Entry{
		{Offset: 0, Module: "A", Template: "first"},
		{Offset: 10, Module: "B", Template: "second"},
		{Offset: 20, Module: "C", Template: "third"},
	})
	if err != nil {
		t.Fatalf("dict.New failed: %v", err)
	}
	return table
}

func TestExactResolution(t *testing.T) {
	table := testTable(t)

	e, kind := Default().Resolve(10, table)
	if kind != Exact {
		t.Fatalf("Kind = %v, want Exact", kind)
	}
	if e.Module != "B" {
		t.Errorf("Resolved wrong entry: %+v", e)
	}
}

func TestModuloFallback(t *testing.T) {
	table := testTable(t)

	// 23 has no exact match; 23 mod 3 = 2, the entry at offset 20.
	e, kind := Default().Resolve(23, table)
	if kind != Fallback {
		t.Fatalf("Kind = %v, want Fallback", kind)
	}
	if e.Offset != 20 || e.Module != "C" {
		t.Errorf("Fallback picked %+v, want entry at offset 20", e)
	}
}

func TestStrictMiss(t *testing.T) {
	table := testTable(t)

	e, kind := Strict().Resolve(23, table)
	if kind != Unresolved || e != nil {
		t.Errorf("Strict miss: kind=%v entry=%+v, want Unresolved/nil", kind, e)
	}
}

// nearestBelow resolves to the entry with the largest offset not above the
// reference, standing in for the alternative heuristics the strategy
// interface exists to allow.
type nearestBelow struct{}

func (nearestBelow) Resolve(offsetRef uint32, t *dict.Table) (*dict.Entry, bool) {
	for i := t.Len() - 1; i >= 0; i-- {
		if t.At(i).Offset <= offsetRef {
			return t.At(i), true
		}
	}
	return nil, false
}

func TestPluggableFallbackStrategy(t *testing.T) {
	table := testTable(t)

	e, kind := New(nearestBelow{}).Resolve(14, table)
	if kind != Fallback {
		t.Fatalf("Kind = %v, want Fallback", kind)
	}
	if e.Offset != 10 {
		t.Errorf("Custom strategy picked offset %d, want 10", e.Offset)
	}
}
