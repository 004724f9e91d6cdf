package host

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/boot"
)

func TestEngineEvalRoundTrips(t *testing.T) {
	e, err := New(boot.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Shutdown()

	v, derr := e.Eval("2 + 2")
	if derr != nil {
		t.Fatalf("Eval failed: %v", derr)
	}
	if v.IntValue() != 4 {
		t.Errorf("expected 4, got %+v", v)
	}
}

func TestEngineCallSymbol(t *testing.T) {
	e, err := New(boot.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Shutdown()

	if _, derr := e.Eval("double: func [n] [n * 2]"); derr != nil {
		t.Fatalf("defining double failed: %v", derr)
	}

	argBlock, lerr := e.Eval("[21]")
	if lerr != nil {
		t.Fatalf("building args failed: %v", lerr)
	}

	v, derr := e.CallSymbol("double", argBlock.SeriesRef(), true)
	if derr != nil {
		t.Fatalf("CallSymbol failed: %v", derr)
	}
	if v.IntValue() != 42 {
		t.Errorf("expected 42, got %+v", v)
	}
}

func TestEngineWordNamesGrowsWithDefinitions(t *testing.T) {
	e, err := New(boot.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Shutdown()

	before := len(e.WordNames())
	if _, derr := e.Eval("a-brand-new-word: 1"); derr != nil {
		t.Fatalf("defining word failed: %v", derr)
	}
	after := e.WordNames()
	found := false
	for _, name := range after {
		if name == "a-brand-new-word" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a-brand-new-word among %d word names", len(after))
	}
	if len(after) <= before {
		t.Errorf("expected word count to grow, before=%d after=%d", before, len(after))
	}
}
