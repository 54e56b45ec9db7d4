package ranking

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	e := NewExtractor(nil)
	tests := []struct {
		in, want string
	}{
		{"What is annual leave?", "What is annual leave"},
		{"  spaced out.  ", "spaced out"},
		{"日本語の質問です。", "日本語の質問です"},
		{"mixed?! ？．", "mixed"},
		{"no trailing punctuation", "no trailing punctuation"},
		{"", ""},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := e.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractOrderAndHalves(t *testing.T) {
	e := NewExtractor(nil)
	qc := e.Extract("annual leave?")

	if qc.Normalized != "annual leave" {
		t.Fatalf("Normalized = %q, want %q", qc.Normalized, "annual leave")
	}
	want := []string{"annual leave", "annual", "ann", "ual", "leave", "le", "ave"}
	if !reflect.DeepEqual(qc.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", qc.Keywords, want)
	}
}

func TestExtractStopWordsAndDedup(t *testing.T) {
	e := NewExtractor(nil)
	qc := e.Extract("the leave leave")

	for _, kw := range qc.Keywords {
		if kw == "the" {
			t.Error("stop word 'the' should not be extracted")
		}
	}
	count := 0
	for _, kw := range qc.Keywords {
		if kw == "leave" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("keyword 'leave' extracted %d times, want 1", count)
	}
}

func TestExtractEmptyQuery(t *testing.T) {
	e := NewExtractor(nil)
	if qc := e.Extract("   "); len(qc.Keywords) != 0 {
		t.Errorf("Extract(blank) keywords = %v, want none", qc.Keywords)
	}
	if qc := e.Extract("?!。"); len(qc.Keywords) != 0 {
		t.Errorf("Extract(punctuation only) keywords = %v, want none", qc.Keywords)
	}
}

func TestExtractSeparators(t *testing.T) {
	e := NewExtractor(nil)
	qc := e.Extract("vacation、policy（company）")
	has := func(kw string) bool {
		for _, k := range qc.Keywords {
			if k == kw {
				return true
			}
		}
		return false
	}
	for _, kw := range []string{"vacation", "policy", "company"} {
		if !has(kw) {
			t.Errorf("Keywords missing %q: %v", kw, qc.Keywords)
		}
	}
}

func TestPriority(t *testing.T) {
	e := NewExtractor(nil)
	tests := []struct {
		kw   string
		want float64
	}{
		{"ab", 0.5},          // short
		{"abc", 1.0},         // default
		{"abcd", 1.5},        // long
		{"how", 0.7},         // generic
		{"procedure", 0.7},   // generic wins over long
		{"What", 0.7},        // generic is case-insensitive
		{"休暇", 0.5},          // two runes, short
		{"有給休暇", 1.5},        // four runes, long
	}
	for _, tt := range tests {
		if got := e.Priority(tt.kw); got != tt.want {
			t.Errorf("Priority(%q) = %v, want %v", tt.kw, got, tt.want)
		}
	}
}
