package task

import (
	"testing"
	"time"

	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/gc"
	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

func newTestTask(t *testing.T) *Task {
	a := value.NewArena(pool.New(false))
	tbl := symbol.New(16)
	ev := eval.New(a, tbl, gc.New(a))
	ev.Root = a.NewFrame(value.FramePersistent, true)

	load := func(source string) (*value.Series, *value.Error) {
		block := a.NewArray(1, 0)
		_ = a.AppendArray(block, value.Integer(int64(len(source))))
		return block, nil
	}
	return New(ev, load)
}

func TestTaskEvalSourceRoundTrips(t *testing.T) {
	tsk := newTestTask(t)
	go tsk.Run()
	defer tsk.Stop()

	v, err := tsk.EvalSource("abcd")
	if err != nil {
		t.Fatalf("EvalSource failed: %v", err)
	}
	if v.IntValue() != 4 {
		t.Errorf("expected 4, got %+v", v)
	}
}

func TestTaskStopIsPrompt(t *testing.T) {
	tsk := newTestTask(t)
	go tsk.Run()

	done := make(chan struct{})
	go func() {
		tsk.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("Stop did not return promptly")
	}
}
