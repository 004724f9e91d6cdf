package boot

import (
	"strings"
	"testing"

	"github.com/rebolcore/rebolcore/engine/value"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestParseConfigAppliesKeys(t *testing.T) {
	src := "# a comment\ncycle-limit 100\nlog-level debug\nalways-malloc true\n"
	cfg, err := ParseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.CycleLimit != 100 || cfg.LogLevel != "debug" || !cfg.AlwaysMalloc {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParseConfigRejectsUnknownKey(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader("bogus-key 1\n")); err == nil {
		t.Errorf("expected error for unknown config key")
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(DefaultConfig())
}

func TestEngineEvaluatesArithmetic(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("1 + 2 * 3")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 9 {
		t.Errorf("expected 9, got %+v", v)
	}
}

func TestEngineSetWordDefinesGlobal(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("x: 10 x")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 10 {
		t.Errorf("expected 10, got %+v", v)
	}
}

func TestEngineIfNative(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("if true [42]")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 42 {
		t.Errorf("expected 42, got %+v", v)
	}
}

func TestEngineForLoopSums(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("total: 0 for i 1 3 1 [total: total + i] total")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 6 {
		t.Errorf("expected 6, got %+v", v)
	}
}

func TestEngineFuncDefinitionAndCall(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("double: func [n] [n * 2] double 21")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 42 {
		t.Errorf("expected 42, got %+v", v)
	}
}

func TestEngineFuncRecursion(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load(
		"fact: func [n] [either n <= 1 [1] [n * fact n - 1]] fact 5")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 120 {
		t.Errorf("expected 120, got %+v", v)
	}
}

func TestEngineQuitWithCarriesExitCode(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("quit-with 7")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, _, derr := e.Eval.Do(block, 0, false, true)
	if derr == nil || derr.Kind != value.ErrQuit {
		t.Fatalf("expected Quit error, got %v", derr)
	}
	if derr.ExitCode != 7 {
		t.Errorf("expected exit code 7, got %d", derr.ExitCode)
	}
}

func TestEngineForeachSumsSeries(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("total: 0 foreach i [1 2 3] [total: total + i] total")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 6 {
		t.Errorf("expected 6, got %+v", v)
	}
}

func TestEngineMakeObjectResolvesFieldReference(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("o: make object! [a: 1 b: a + 1] o")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.Kind() != value.TypeFrame {
		t.Fatalf("expected a frame! value, got %+v", v)
	}
	f := v.AsFrame()
	var bVal value.Cell
	found := false
	for i := 1; i < f.Len(); i++ {
		if e.Symbols.Name(f.SlotWord(i).Symbol()) == "b" {
			bVal = f.SlotValue(i)
			found = true
		}
	}
	if !found {
		t.Fatalf("expected object to carry field b")
	}
	if bVal.IntValue() != 2 {
		t.Errorf("expected b to be 2, got %+v", bVal)
	}
}

func TestEngineRemoveEachCompactsSeries(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("s: [1 2 3 4 5 6] remove-each n s [n > 3] s")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	s := v.SeriesRef()
	if s.Len() != 3 {
		t.Fatalf("expected 3 elements left, got %d", s.Len())
	}
	for i, want := range []int64{1, 2, 3} {
		if s.Get(i).IntValue() != want {
			t.Errorf("element %d: expected %d, got %+v", i, want, s.Get(i))
		}
	}
}

func TestEngineMapEachAccumulatesResults(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("map-each n [1 2 3] [n * 2]")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	s := v.SeriesRef()
	if s.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", s.Len())
	}
	for i, want := range []int64{2, 4, 6} {
		if s.Get(i).IntValue() != want {
			t.Errorf("element %d: expected %d, got %+v", i, want, s.Get(i))
		}
	}
}

func TestEngineClosureCapturesOwnFrame(t *testing.T) {
	e := newTestEngine(t)
	block, err := e.Load("adder: closure [n] [n + 1] adder 9")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, _, derr := e.Eval.Do(block, 0, false, true)
	if derr != nil {
		t.Fatalf("Do failed: %v", derr)
	}
	if v.IntValue() != 10 {
		t.Errorf("expected 10, got %+v", v)
	}
}
