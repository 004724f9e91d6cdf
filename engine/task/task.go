/*
 * rebolcore - Cooperative task runner
 *
 * Copyright 2026, rebolcore contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package task implements the single-threaded cooperative scheduling
// model of §5: one goroutine runs the evaluator, suspension happens
// only at signal checks, and the host talks to it exclusively through
// a Packet channel -- the same goroutine+channel shape emu/core.go
// uses to run its CPU loop alongside the telnet listeners.
package task

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/value"
)

// MsgKind enumerates the packets a host can post to a running task.
type MsgKind uint8

const (
	MsgEvalSource MsgKind = iota // Data holds a source string to Do
	MsgEscape                    // request halt at the next signal check
	MsgShutdown
)

// Packet is one unit of work posted to a task's channel, mirroring
// the teacher's master.Packet shape (a kind tag plus a free-form
// payload) rather than one channel type per message.
type Packet struct {
	Kind   MsgKind
	Source string
	Reply  chan Result
}

// Result is what a MsgEvalSource packet's Reply channel receives.
type Result struct {
	Value value.Cell
	Err   *value.Error
}

// Task owns one Evaluator and runs it on a dedicated goroutine. All
// engine state is task-local; per §5 there is no cross-task pointer
// sharing, only value copies made at task creation.
type Task struct {
	Eval    *eval.Evaluator
	Load    func(source string) (*value.Series, *value.Error) // supplied by engine/boot

	wg      sync.WaitGroup
	done    chan struct{}
	inbox   chan Packet
	running bool
}

// New creates a task wired to ev. load compiles a source string into
// a block ready for ev.Do; engine/boot supplies the real
// implementation so this package never depends on a scanner.
func New(ev *eval.Evaluator, load func(string) (*value.Series, *value.Error)) *Task {
	return &Task{
		Eval:  ev,
		Load:  load,
		done:  make(chan struct{}),
		inbox: make(chan Packet, 8),
	}
}

// Post enqueues a packet for the task's goroutine. It never blocks
// the caller beyond the channel's buffer.
func (t *Task) Post(p Packet) { t.inbox <- p }

// Run is the task's main loop; call it via `go t.Run()`. It exits
// when a MsgShutdown packet arrives or Stop is called.
func (t *Task) Run() {
	t.wg.Add(1)
	defer t.wg.Done()
	t.running = true
	for t.running {
		select {
		case <-t.done:
			return
		case p := <-t.inbox:
			t.process(p)
		}
	}
}

func (t *Task) process(p Packet) {
	switch p.Kind {
	case MsgEscape:
		t.Eval.RequestEscape()

	case MsgShutdown:
		t.running = false

	case MsgEvalSource:
		block, err := t.Load(p.Source)
		var result Result
		if err != nil {
			result = Result{Err: err}
		} else {
			v, _, derr := t.Eval.Do(block, 0, false, true)
			result = Result{Value: v, Err: derr}
		}
		if p.Reply != nil {
			p.Reply <- result
		}
	}
}

// Stop signals the goroutine to exit and waits briefly for it,
// logging and giving up after a timeout rather than blocking forever
// on a wedged evaluation.
func (t *Task) Stop() {
	close(t.done)
	finished := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		slog.Warn("task did not stop within timeout")
	}
}

// EvalSource posts a source string and blocks for its result -- a
// synchronous convenience over Post for hosts that don't need the
// async packet interface.
func (t *Task) EvalSource(source string) (value.Cell, *value.Error) {
	reply := make(chan Result, 1)
	t.Post(Packet{Kind: MsgEvalSource, Source: source, Reply: reply})
	r := <-reply
	return r.Value, r.Err
}
