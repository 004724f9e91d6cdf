package eval

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/frame"
	"github.com/rebolcore/rebolcore/engine/gc"
	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

func newEvaluator() (*Evaluator, *value.Arena, *symbol.Table) {
	a := value.NewArena(pool.New(false))
	tbl := symbol.New(32)
	ev := New(a, tbl, gc.New(a))
	ev.Root = a.NewFrame(value.FramePersistent, true)
	return ev, a, tbl
}

func nativeWith(a *value.Arena, tbl *symbol.Table, params []string, fn value.NativeFunc) value.Cell {
	args := a.NewFrame(value.FrameStackRelative, false)
	for _, name := range params {
		a.Extend(args, tbl.Intern(name), 0)
	}
	return value.FunctionValue(&value.FuncDef{Args: args, Native: fn})
}

func defineWord(a *value.Arena, root *value.Frame, tbl *symbol.Table, name string, v value.Cell) {
	idx := a.Extend(root, tbl.Intern(name), 0)
	_ = root.SetSlot(idx, v)
}

func TestWordCallsNativeFunction(t *testing.T) {
	ev, a, tbl := newEvaluator()
	add := nativeWith(a, tbl, []string{"a", "b"}, func(args []value.Cell) (value.Cell, *value.Error) {
		return value.Integer(args[0].IntValue() + args[1].IntValue()), nil
	})
	defineWord(a, ev.Root, tbl, "add", add)

	block := a.NewArray(4, 0)
	_ = a.AppendArray(block, value.Word(value.TypeWord, tbl.Intern("add")))
	_ = a.AppendArray(block, value.Integer(1))
	_ = a.AppendArray(block, value.Integer(2))
	frame.Bind(a, ev.Root, tbl, block, false, false)

	result, _, err := ev.Do(block, 0, false, true)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result.Kind() != value.TypeInteger || result.IntValue() != 3 {
		t.Errorf("expected 3, got %+v", result)
	}
}

func TestSetWordAssignsAndReturnsValue(t *testing.T) {
	ev, a, tbl := newEvaluator()
	xSym := tbl.Intern("x")
	idx := a.Extend(ev.Root, xSym, 0)

	block := a.NewArray(2, 0)
	_ = a.AppendArray(block, value.Word(value.TypeSetWord, xSym))
	_ = a.AppendArray(block, value.Integer(99))
	frame.Bind(a, ev.Root, tbl, block, false, false)

	result, _, err := ev.Do(block, 0, false, true)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result.IntValue() != 99 {
		t.Errorf("expected set-word to return 99, got %+v", result)
	}
	if got := ev.Root.SlotValue(idx); got.IntValue() != 99 {
		t.Errorf("expected slot updated to 99, got %+v", got)
	}
}

func TestInfixLookaheadConsumesOperator(t *testing.T) {
	ev, a, tbl := newEvaluator()
	plus := nativeWith(a, tbl, []string{"a", "b"}, func(args []value.Cell) (value.Cell, *value.Error) {
		return value.Integer(args[0].IntValue() + args[1].IntValue()), nil
	}).SetInfix(true)
	defineWord(a, ev.Root, tbl, "plus", plus)

	block := a.NewArray(3, 0)
	_ = a.AppendArray(block, value.Integer(1))
	_ = a.AppendArray(block, value.Word(value.TypeWord, tbl.Intern("plus")))
	_ = a.AppendArray(block, value.Integer(2))
	frame.Bind(a, ev.Root, tbl, block, false, false)

	result, _, err := ev.Do(block, 0, false, true)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result.IntValue() != 3 {
		t.Errorf("expected infix 1 plus 2 = 3, got %+v", result)
	}
}

func TestPathIndexingIntoBlock(t *testing.T) {
	ev, a, tbl := newEvaluator()
	inner := a.NewArray(3, 0)
	_ = a.AppendArray(inner, value.Integer(10))
	_ = a.AppendArray(inner, value.Integer(20))
	_ = a.AppendArray(inner, value.Integer(30))
	defineWord(a, ev.Root, tbl, "v", value.SeriesValue(value.TypeBlock, inner, 0))

	pathSeries := a.NewArray(2, 0)
	_ = a.AppendArray(pathSeries, value.Word(value.TypeWord, tbl.Intern("v")))
	_ = a.AppendArray(pathSeries, value.Integer(2))

	block := a.NewArray(1, 0)
	_ = a.AppendArray(block, value.SeriesValue(value.TypePath, pathSeries, 0))
	frame.Bind(a, ev.Root, tbl, block, true, false)

	result, _, err := ev.Do(block, 0, false, true)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result.IntValue() != 20 {
		t.Errorf("expected path index 2 to yield 20, got %+v", result)
	}
}

func TestTypedArgumentRejectsWrongType(t *testing.T) {
	ev, a, tbl := newEvaluator()
	args := a.NewFrame(value.FrameStackRelative, false)
	idx := a.Extend(args, tbl.Intern("n"), 0)
	_ = args.Words.Put(idx, value.TypedWordMode(tbl.Intern("n"), 1<<value.TypeInteger, value.ParamPlain))
	onlyInt := value.FunctionValue(&value.FuncDef{Args: args, Native: func(a []value.Cell) (value.Cell, *value.Error) {
		return a[0], nil
	}})
	defineWord(a, ev.Root, tbl, "onlyint", onlyInt)

	block := a.NewArray(2, 0)
	_ = a.AppendArray(block, value.Word(value.TypeWord, tbl.Intern("onlyint")))
	_ = a.AppendArray(block, value.SeriesValue(value.TypeString, a.NewByteString(0, 0), 0))
	frame.Bind(a, ev.Root, tbl, block, false, false)

	_, _, err := ev.Do(block, 0, false, true)
	if err == nil || err.Kind != value.ErrExpectArg {
		t.Errorf("expected ExpectArg typecheck failure, got %v", err)
	}
}

func TestHaltSignalStopsEvaluation(t *testing.T) {
	ev, a, tbl := newEvaluator()
	block := a.NewArray(1, 0)
	_ = a.AppendArray(block, value.Integer(1))
	_ = tbl

	ev.RequestEscape()
	_, _, err := ev.Do(block, 0, false, true)
	if err == nil || err.Kind != value.ErrHalt {
		t.Errorf("expected Halt error, got %v", err)
	}
}
