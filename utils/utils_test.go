package utils

import (
	"strings"
	"testing"
)

func TestGeneratedIDFormats(t *testing.T) {
	cases := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"traceability", GenerateTraceabilityID, "CC-"},
		{"crop", GenerateCropID, "CROP-"},
		{"collection", GenerateCollectionID, "AGG-"},
		{"batch", GenerateBatchNumber, "BATCH-"},
		{"order", GenerateOrderID, "ORD-"},
		{"transaction", GenerateTransactionID, "TXN-"},
	}

	for _, tc := range cases {
		id := tc.gen()
		if !strings.HasPrefix(id, tc.prefix) {
			t.Errorf("%s: expected prefix %q, got %q", tc.name, tc.prefix, id)
		}
		if id != strings.ToUpper(id) {
			t.Errorf("%s: id not uppercased: %q", tc.name, id)
		}
		if strings.Count(id, "-") != 2 {
			t.Errorf("%s: expected two separators in %q", tc.name, id)
		}
	}
}

func TestGeneratedIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateCollectionID()
		if seen[id] {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = true
	}
}

func TestParseHelpers(t *testing.T) {
	if got := ParseFloat(" 42.5 "); got != 42.5 {
		t.Errorf("ParseFloat: got %v", got)
	}
	if got := ParseFloat("bogus"); got != 0 {
		t.Errorf("ParseFloat bogus: got %v", got)
	}
	if got := ParseInt("17"); got != 17 {
		t.Errorf("ParseInt: got %v", got)
	}
	if d := ParseDate("2026-01-15"); d == nil || d.Year() != 2026 {
		t.Errorf("ParseDate: got %v", d)
	}
	if d := ParseDate("not-a-date"); d != nil {
		t.Errorf("ParseDate invalid: got %v", d)
	}
}

func TestPaginate(t *testing.T) {
	p := Paginate(QueryOptions{Page: 2, Limit: 10}, 25)
	if p.Pages != 3 || p.Total != 25 || p.Current != 2 {
		t.Errorf("unexpected pagination: %+v", p)
	}
	p = Paginate(QueryOptions{Page: 1, Limit: 10}, 30)
	if p.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", p.Pages)
	}
}
