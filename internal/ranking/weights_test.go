package ranking

import "testing"

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	w := &Weights{}
	w.ApplyDefaults()
	d := DefaultWeights()
	if *w != *d {
		t.Errorf("empty weights after ApplyDefaults = %+v, want defaults %+v", w, d)
	}
}

func TestApplyDefaultsKeepsSetValues(t *testing.T) {
	w := &Weights{FilenameKeywordWeight: 3, QAPairBonus: 1}
	w.ApplyDefaults()
	if w.FilenameKeywordWeight != 3 {
		t.Errorf("FilenameKeywordWeight = %v, want 3", w.FilenameKeywordWeight)
	}
	if w.QAPairBonus != 1 {
		t.Errorf("QAPairBonus = %v, want 1", w.QAPairBonus)
	}
	if w.LexicalTotalCap != 80 {
		t.Errorf("LexicalTotalCap = %v, want default 80", w.LexicalTotalCap)
	}
}

// Zero doubles as unset, so an explicit 0 is restored to the default.
func TestApplyDefaultsTreatsZeroAsUnset(t *testing.T) {
	w := DefaultWeights()
	w.QAPairBonus = 0
	w.ApplyDefaults()
	if w.QAPairBonus != 5 {
		t.Errorf("QAPairBonus = %v, want 5 (zero means unset)", w.QAPairBonus)
	}
}
