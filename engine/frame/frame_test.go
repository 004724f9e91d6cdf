package frame

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

func newArena() *value.Arena { return value.NewArena(pool.New(false)) }

func TestGetSetVarAbsolute(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	f := a.NewFrame(value.FramePersistent, true)
	xSym := tbl.Intern("x")
	idx := a.Extend(f, xSym, 0)
	_ = f.SetSlot(idx, value.Integer(41))

	word := value.Word(value.TypeWord, xSym).Bind(f, int32(idx))

	got, errv := GetVar(word, nil)
	if errv != nil {
		t.Fatalf("GetVar failed: %v", errv)
	}
	if got.Kind() != value.TypeInteger || got.Symbol() != symbol.None {
		t.Fatalf("unexpected value kind %v", got.Kind())
	}

	if errv := SetVar(word, value.Integer(42), nil); errv != nil {
		t.Fatalf("SetVar failed: %v", errv)
	}
	got, _ = GetVar(word, nil)
	if v := f.SlotValue(idx); v.Kind() != value.TypeInteger {
		t.Fatalf("slot not updated")
	}
	_ = got
}

func TestSetVarSelfProtected(t *testing.T) {
	a := newArena()
	f := a.NewFrame(value.FramePersistent, true)
	self := value.Word(value.TypeWord, value.SelfSymbol).Bind(f, 0)
	if errv := SetVar(self, value.Integer(1), nil); errv == nil || errv.Kind != value.ErrSelfProtected {
		t.Errorf("expected SelfProtected, got %v", errv)
	}
}

func TestRelativeLookupRequiresReadyCall(t *testing.T) {
	a := newArena()
	args := a.NewFrame(value.FrameStackRelative, false)
	sym := symbol.ID(7)
	idx := a.Extend(args, sym, 0)
	word := value.Word(value.TypeWord, sym).Bind(args, -int32(idx))

	if _, errv := GetVar(word, nil); errv == nil || errv.Kind != value.ErrNoRelative {
		t.Errorf("expected NoRelative with no call chain, got %v", errv)
	}

	cf := &value.CallFrame{Args: args, Ready: true}
	_ = args.SetSlot(idx, value.Integer(9))
	got, errv := GetVar(word, cf)
	if errv != nil {
		t.Fatalf("GetVar failed: %v", errv)
	}
	if got.Kind() != value.TypeInteger {
		t.Errorf("expected integer, got %v", got.Kind())
	}

	notReady := &value.CallFrame{Args: args, Ready: false}
	if _, errv := GetVar(word, notReady); errv == nil {
		t.Errorf("expected failure when owning call is not ready")
	}
}

func TestBindRewritesWordsInBlock(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	f := a.NewFrame(value.FramePersistent, true)
	xSym := tbl.Intern("x")
	idx := a.Extend(f, xSym, 0)

	block := a.NewArray(2, 0)
	_ = a.AppendArray(block, value.Word(value.TypeWord, xSym))

	n := Bind(a, f, tbl, block, false, false)
	if n != 1 {
		t.Fatalf("expected 1 word bound, got %d", n)
	}
	w := block.Get(0)
	if !w.Bound() || w.BindFrame() != f || int(w.BindIndex()) != idx {
		t.Errorf("word not bound to expected slot: %+v", w)
	}
}

func TestBindDeepRecursesIntoNestedBlocks(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	f := a.NewFrame(value.FramePersistent, true)
	ySym := tbl.Intern("y")
	idx := a.Extend(f, ySym, 0)

	inner := a.NewArray(1, 0)
	_ = a.AppendArray(inner, value.Word(value.TypeWord, ySym))
	outer := a.NewArray(1, 0)
	_ = a.AppendArray(outer, value.SeriesValue(value.TypeBlock, inner, 0))

	n := Bind(a, f, tbl, outer, true, false)
	if n != 1 {
		t.Fatalf("expected 1 word bound deep, got %d", n)
	}
	w := inner.Get(0)
	if !w.Bound() || int(w.BindIndex()) != idx {
		t.Errorf("nested word not bound: %+v", w)
	}
}

func TestBindExtendsFrameForSetWords(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	f := a.NewFrame(value.FramePersistent, true)
	zSym := tbl.Intern("z")

	block := a.NewArray(1, 0)
	_ = a.AppendArray(block, value.Word(value.TypeSetWord, zSym))

	before := f.Len()
	n := Bind(a, f, tbl, block, false, true)
	if n != 1 {
		t.Fatalf("expected 1 word bound, got %d", n)
	}
	if f.Len() != before+1 {
		t.Fatalf("expected frame extended by 1 slot, got len %d", f.Len())
	}
	w := block.Get(0)
	if !w.Bound() || w.BindFrame() != f {
		t.Errorf("set-word not bound after extend: %+v", w)
	}
}

func TestBindRelativeUsesNegativeIndices(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	args := a.NewFrame(value.FrameStackRelative, false)
	pSym := tbl.Intern("p")
	idx := a.Extend(args, pSym, 0)

	body := a.NewArray(1, 0)
	_ = a.AppendArray(body, value.Word(value.TypeWord, pSym))

	n := BindRelative(a, args, tbl, body, false)
	if n != 1 {
		t.Fatalf("expected 1 word bound, got %d", n)
	}
	w := body.Get(0)
	if w.BindIndex() != -int32(idx) {
		t.Errorf("expected negated index %d, got %d", -idx, w.BindIndex())
	}
}

func TestCollectWordsNoDuplicates(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	block := a.NewArray(2, 0)
	sym := tbl.Intern("a")
	_ = a.AppendArray(block, value.Word(value.TypeSetWord, sym))
	_ = a.AppendArray(block, value.Word(value.TypeWord, sym))

	f, err := CollectWords(a, tbl, nil, []*value.Series{block}, CollectAll, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("expected self + 1 word, got %d slots", f.Len())
	}
}

func TestCollectWordsRejectsDuplicateSetWords(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	block := a.NewArray(2, 0)
	sym := tbl.Intern("a")
	_ = a.AppendArray(block, value.Word(value.TypeSetWord, sym))
	_ = a.AppendArray(block, value.Word(value.TypeSetWord, sym))

	_, err := CollectWords(a, tbl, nil, []*value.Series{block}, CollectAll, false, true)
	if err == nil {
		t.Fatalf("expected DupVars error")
	}
}

func TestCollectWordsReturnsPriorUnchangedWhenNothingNew(t *testing.T) {
	a := newArena()
	tbl := symbol.New(8)
	prior := a.NewFrame(value.FramePersistent, true)
	sym := tbl.Intern("a")
	_ = a.Extend(prior, sym, 0)

	block := a.NewArray(1, 0)
	_ = a.AppendArray(block, value.Word(value.TypeWord, sym))

	got, err := CollectWords(a, tbl, prior, []*value.Series{block}, CollectAll, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != prior {
		t.Errorf("expected prior frame returned unchanged")
	}
}
