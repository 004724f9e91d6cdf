package loop

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/gc"
	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

func newEvaluator() (*eval.Evaluator, *value.Arena, *symbol.Table) {
	a := value.NewArena(pool.New(false))
	tbl := symbol.New(16)
	ev := eval.New(a, tbl, gc.New(a))
	ev.Root = a.NewFrame(value.FramePersistent, true)
	return ev, a, tbl
}

func TestForIntegerReturnsLastIterationValue(t *testing.T) {
	ev, a, tbl := newEvaluator()
	i := tbl.Intern("i")

	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, i))

	result, err := ForInteger(ev, a, tbl, i, 1, 3, 1, body, false)
	if err != nil {
		t.Fatalf("ForInteger failed: %v", err)
	}
	if result.Kind() != value.TypeInteger || result.IntValue() != 3 {
		t.Errorf("expected last value 3, got %+v", result)
	}
}

func TestForIntegerCountsDown(t *testing.T) {
	ev, a, tbl := newEvaluator()
	i := tbl.Intern("i")

	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, i))

	result, err := ForInteger(ev, a, tbl, i, 3, 1, -1, body, false)
	if err != nil {
		t.Fatalf("ForInteger failed: %v", err)
	}
	if result.IntValue() != 1 {
		t.Errorf("expected descending loop's last value 1, got %+v", result)
	}
}

func TestForIntegerRejectsZeroStep(t *testing.T) {
	ev, a, tbl := newEvaluator()
	i := tbl.Intern("i")
	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, i))

	if _, err := ForInteger(ev, a, tbl, i, 1, 3, 0, body, false); err == nil || err.Kind != value.ErrRange {
		t.Errorf("expected Range error for zero step, got %v", err)
	}
}

func TestForEachBindsElementsInOrder(t *testing.T) {
	ev, a, tbl := newEvaluator()
	x := tbl.Intern("x")

	series := a.NewArray(3, 0)
	_ = a.AppendArray(series, value.Integer(5))
	_ = a.AppendArray(series, value.Integer(6))
	_ = a.AppendArray(series, value.Integer(7))

	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, x))

	result, err := ForEach(ev, a, tbl, []symbol.ID{x}, series, body, false)
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if result.Kind() != value.TypeInteger || result.IntValue() != 7 {
		t.Errorf("expected last element 7 as loop result, got %+v", result)
	}
}

func TestRemoveEachCompactsSeries(t *testing.T) {
	ev, a, tbl := newEvaluator()
	x := tbl.Intern("x")
	series := a.NewArray(4, 0)
	_ = a.AppendArray(series, value.Integer(1))
	_ = a.AppendArray(series, value.Integer(2))
	_ = a.AppendArray(series, value.Integer(3))
	_ = a.AppendArray(series, value.Integer(4))

	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, x))

	// body is just `x`; every integer is truthy, so all four elements
	// are removed and the series is left empty.
	removed, err := RemoveEach(ev, a, tbl, []symbol.ID{x}, series, body)
	if err != nil {
		t.Fatalf("RemoveEach failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected all 4 truthy elements removed, got %d", removed)
	}
	if series.Len() != 0 {
		t.Errorf("expected series emptied, got len %d", series.Len())
	}
}
