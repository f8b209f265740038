package data

import (
	"testing"

	"github.com/scttfrdmn/boptimize/bo/surrogate"
)

func TestCloneSharesNoBackingArrayWithOriginal(t *testing.T) {
	d := New([][]float64{{1, 2}}, [][]float64{{3}})
	clone := d.Clone()

	clone.X[0][0] = 99
	clone.Append([]float64{4, 5}, []float64{6})

	if d.X[0][0] != 1 {
		t.Errorf("expected original X untouched by mutating the clone, got %v", d.X[0][0])
	}
	if d.Columns() != 1 {
		t.Errorf("expected original dataset to keep 1 column after cloning and appending, got %d", d.Columns())
	}
	if clone.Columns() != 2 {
		t.Errorf("expected clone to have 2 columns after appending, got %d", clone.Columns())
	}
}

func TestAppendKeepsXAndYInLockstep(t *testing.T) {
	d := New(nil, nil)
	d.Append([]float64{1}, []float64{2})
	d.Append([]float64{3}, []float64{4})

	if d.Columns() != 2 {
		t.Fatalf("expected 2 columns, got %d", d.Columns())
	}
	if d.X[1][0] != 3 || d.Y[1][0] != 4 {
		t.Errorf("expected second column (3)->(4), got %v->%v", d.X[1], d.Y[1])
	}
}

func TestParamStateIsBIDistinguishesModeByPopulatedField(t *testing.T) {
	mle := ParamState{MLE: &surrogate.Params{Theta: []float64{1}}}
	if mle.IsBI() {
		t.Error("expected an MLE-populated state to report IsBI() == false")
	}

	bi := ParamState{Samples: []surrogate.Params{{Theta: []float64{1}}, {Theta: []float64{2}}}}
	if !bi.IsBI() {
		t.Error("expected a Samples-populated state to report IsBI() == true")
	}
}
