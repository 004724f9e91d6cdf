package value

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/pool"
)

func newArena() *Arena { return NewArena(pool.New(false)) }

func TestEndSentinelInvariant(t *testing.T) {
	a := newArena()
	s := a.NewArray(2, 0)
	if !s.Get(0).IsEnd() {
		t.Fatalf("fresh series should read End at slot 0 (tail=0)")
	}
	_ = a.AppendArray(s, Integer(1))
	_ = a.AppendArray(s, Integer(2))
	if s.Len() != 2 {
		t.Fatalf("expected tail 2, got %d", s.Len())
	}
	if !s.Get(2).IsEnd() {
		t.Errorf("P3 violated: slot at length %d should be End", s.Len())
	}
	if s.Get(0).Kind() != TypeInteger || s.Get(1).Kind() != TypeInteger {
		t.Errorf("unexpected contents after append")
	}
}

func TestInsertAtHeadUsesHeadBias(t *testing.T) {
	a := newArena()
	s := a.NewArray(4, 0)
	_ = a.AppendArray(s, Integer(2))
	_ = a.AppendArray(s, Integer(3))
	if err := a.InsertArray(s, 0, []Cell{Integer(1)}); err != nil {
		t.Fatalf("insert at head failed: %v", err)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if got := s.Get(i); got.Kind() != TypeInteger || got.i != w {
			t.Errorf("slot %d: want %d, got %+v", i, w, got)
		}
	}
	if !s.Get(3).IsEnd() {
		t.Errorf("P3 violated after head insert")
	}
}

func TestRemoveArrayPreservesEnd(t *testing.T) {
	a := newArena()
	s := a.NewArray(4, 0)
	for i := int64(1); i <= 4; i++ {
		_ = a.AppendArray(s, Integer(i))
	}
	if err := a.RemoveArray(s, 1, 2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected tail 2, got %d", s.Len())
	}
	if s.Get(0).i != 1 || s.Get(1).i != 4 {
		t.Errorf("unexpected contents after remove: %v %v", s.Get(0), s.Get(1))
	}
	if !s.Get(2).IsEnd() {
		t.Errorf("P3 violated after remove")
	}
}

func TestExpandGrowsBeyondCapacity(t *testing.T) {
	a := newArena()
	s := a.NewArray(1, 0)
	for i := int64(0); i < 50; i++ {
		if err := a.AppendArray(s, Integer(i)); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}
	if s.Len() != 50 {
		t.Fatalf("expected tail 50, got %d", s.Len())
	}
	if !s.Get(50).IsEnd() {
		t.Errorf("P3 violated after growth past initial capacity")
	}
}

func TestProtectedRejectsMutation(t *testing.T) {
	a := newArena()
	s := a.NewArray(2, FlagProtected)
	if err := a.AppendArray(s, Integer(1)); err != ErrProtected {
		t.Errorf("expected ErrProtected, got %v", err)
	}
}

func TestLockedRejectsReallocation(t *testing.T) {
	a := newArena()
	s := a.NewArray(1, FlagLocked)
	if err := a.AppendArray(s, Integer(1)); err != ErrLocked {
		t.Errorf("expected ErrLocked, got %v", err)
	}
}

func TestManualThenManagedHandoff(t *testing.T) {
	a := newArena()
	s := a.NewArray(1, 0)
	if !s.Manual() || s.Managed() {
		t.Fatalf("fresh series should be manual, not managed")
	}
	a.Manage(s)
	if s.Manual() || !s.Managed() {
		t.Fatalf("after Manage, series should be managed, not manual")
	}
	if err := a.FreeSeries(s); err != ErrManaged {
		t.Errorf("expected ErrManaged freeing a managed series, got %v", err)
	}
}

func TestFreeSeriesUnlinksManuals(t *testing.T) {
	a := newArena()
	s1 := a.NewArray(1, 0)
	s2 := a.NewArray(1, 0)
	_ = a.FreeSeries(s1)
	found := false
	for p := a.ManualsHead(); p != nil; p = p.manualNext {
		if p == s1 {
			found = true
		}
	}
	if found {
		t.Errorf("I7 violated: freed series still on manuals list")
	}
	if a.ManualsHead() != s2 {
		t.Errorf("expected s2 to remain head of manuals list")
	}
}

func TestCellBitCopyIsIndependent(t *testing.T) {
	a := newArena()
	s := a.NewArray(2, 0)
	_ = a.AppendArray(s, Integer(7))
	c := s.Get(0)
	c2 := c
	c2 = Integer(99)
	if s.Get(0).i != 7 {
		t.Errorf("P5 violated: mutating a copy affected the original slot")
	}
	_ = c2
}

func TestByteStringRoundTrip(t *testing.T) {
	a := newArena()
	s := a.NewByteString(8, 0)
	s.tail = 3
	_ = s.PutByte(0, 'a')
	_ = s.PutByte(1, 'b')
	_ = s.PutByte(2, 'c')
	if s.GetByte(0) != 'a' || s.GetByte(2) != 'c' {
		t.Errorf("byte string round trip failed")
	}
}

func TestWidenStringCopiesCodepoints(t *testing.T) {
	a := newArena()
	s := a.NewByteString(3, 0)
	s.tail = 3
	_ = s.PutByte(0, 'x')
	_ = s.PutByte(1, 'y')
	_ = s.PutByte(2, 'z')
	w := a.WidenString(s)
	if w.Kind() != KindWide || w.Len() != 3 {
		t.Fatalf("widen produced wrong shape: kind=%v len=%d", w.Kind(), w.Len())
	}
	if w.GetWide(0) != 'x' || w.GetWide(2) != 'z' {
		t.Errorf("widen did not preserve codepoints")
	}
}
