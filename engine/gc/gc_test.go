package gc

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/value"
)

func newArena() *value.Arena { return value.NewArena(pool.New(false)) }

func TestCollectFreesUnreachable(t *testing.T) {
	a := newArena()
	g := New(a)

	kept := a.NewArray(2, 0)
	a.Manage(kept)
	_ = a.AppendArray(kept, value.Integer(1))

	garbage := a.NewArray(2, 0)
	a.Manage(garbage)
	_ = a.AppendArray(garbage, value.Integer(2))

	root := a.NewFrame(value.FramePersistent, true)
	idx := a.Extend(root, 0, 0)
	_ = root.SetSlot(idx, value.SeriesValue(value.TypeBlock, kept, 0))

	freed := g.Collect(Roots{RootFrame: root})
	if freed != 1 {
		t.Errorf("expected 1 series freed, got %d", freed)
	}

	found := false
	for s := a.ManagedHead(); s != nil; s = s.ManagedNext() {
		if s == garbage {
			found = true
		}
	}
	if found {
		t.Errorf("garbage series still present in managed list after sweep")
	}

	found = false
	for s := a.ManagedHead(); s != nil; s = s.ManagedNext() {
		if s == kept {
			found = true
		}
	}
	if !found {
		t.Errorf("kept series was incorrectly swept")
	}
}

func TestCollectSkipsWhileSuspended(t *testing.T) {
	a := newArena()
	g := New(a)
	g.Suspend()

	garbage := a.NewArray(1, 0)
	a.Manage(garbage)

	freed := g.Collect(Roots{})
	if freed != 0 {
		t.Errorf("expected no-op collect while suspended, freed=%d", freed)
	}
	g.Resume()
	freed = g.Collect(Roots{})
	if freed != 1 {
		t.Errorf("expected collect to run after resume, freed=%d", freed)
	}
}

func TestCollectKeptSeriesSurvives(t *testing.T) {
	a := newArena()
	g := New(a)

	s := a.NewArray(1, 0)
	a.Manage(s)
	s.SetKept(true)

	freed := g.Collect(Roots{})
	if freed != 0 {
		t.Errorf("kept series should not be freed, freed=%d", freed)
	}
}

func TestMarkWalksCallChain(t *testing.T) {
	a := newArena()
	g := New(a)

	block := a.NewArray(1, 0)
	a.Manage(block)

	args := a.NewFrame(value.FrameStackRelative, false)
	cf := &value.CallFrame{Block: block, Args: args}

	freed := g.Collect(Roots{CallChain: cf})
	if freed != 0 {
		t.Errorf("block reachable via call chain should survive, freed=%d", freed)
	}
}
