/*
 * rebolcore - Expression evaluator
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

// Package eval implements the stack-machine expression evaluator
// (spec §4.7): the per-step dispatch loop, infix lookahead, argument
// binding (Do_Args), path traversal and Apply. It is the one package
// that ties engine/value, engine/frame and engine/gc together into a
// runnable interpreter, the way emu/cpu.go's fetch/execute loop ties
// together memory, channels and the opcode tables.
package eval

import (
	"github.com/rebolcore/rebolcore/engine/frame"
	"github.com/rebolcore/rebolcore/engine/gc"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// Evaluator holds everything one cooperative task needs to run code:
// the memory arena, the symbol table, the collector, the native
// registry and the live call/data stacks.
type Evaluator struct {
	Arena   *value.Arena
	Symbols *symbol.Table
	GC      *gc.GC
	Natives map[symbol.ID]*value.FuncDef

	Root *value.Frame
	Task *value.Frame
	Call *value.CallFrame
	Stack []value.Cell

	budget     int
	budgetInit int
	cycles     int
	cycleLimit int

	signalRecycle bool
	signalEscape  bool
	Bootstrap     bool
}

const defaultBudget = 10000

// New builds an Evaluator over an already-initialised arena, symbol
// table and collector. Root and Task are typically built by
// engine/boot at startup.
func New(a *value.Arena, tbl *symbol.Table, g *gc.GC) *Evaluator {
	return &Evaluator{
		Arena:      a,
		Symbols:    tbl,
		GC:         g,
		Natives:    make(map[symbol.ID]*value.FuncDef),
		budget:     defaultBudget,
		budgetInit: defaultBudget,
	}
}

// SetCycleLimit installs an optional policy cap on the number of
// signal-check refills before Escape fires; zero disables it.
func (ev *Evaluator) SetCycleLimit(n int) { ev.cycleLimit = n }

// RequestEscape raises the halt signal bit for the next poll, as a
// Ctrl-C handler or a watchdog would.
func (ev *Evaluator) RequestEscape() { ev.signalEscape = true }

func (ev *Evaluator) roots() gc.Roots {
	return gc.Roots{
		RootFrame: ev.Root,
		TaskFrame: ev.Task,
		CallChain: ev.Call,
		Stack:     ev.Stack,
	}
}

// pollSignals implements step 1 of §4.7: decrement the budget and
// service a pending recycle or escape signal. The GC must never run
// mid-bind; binding passes in engine/frame never evaluate, so they
// never reach this poll.
func (ev *Evaluator) pollSignals() *value.Error {
	ev.budget--
	if ev.budget <= 0 {
		ev.budget = ev.budgetInit
		ev.cycles++
		if ev.Arena.NeedsCollection() {
			ev.signalRecycle = true
		}
		if ev.cycleLimit > 0 && ev.cycles >= ev.cycleLimit {
			ev.signalEscape = true
		}
	}
	if ev.signalRecycle {
		ev.signalRecycle = false
		ev.GC.Collect(ev.roots())
	}
	if ev.signalEscape {
		ev.signalEscape = false
		if !ev.Bootstrap {
			return value.NewError(value.ErrHalt, "evaluation halted")
		}
	}
	return nil
}

// Do runs the state machine from index until either a single
// expression completes (onlyOne) or the block is exhausted. lookahead
// enables infix consumption after each step; callers evaluating an
// infix function's own arguments MUST pass false, preserving
// left-to-right associativity at a single precedence.
func (ev *Evaluator) Do(block *value.Series, index int, onlyOne, lookahead bool) (value.Cell, int, *value.Error) {
	var out value.Cell
	for {
		if err := ev.pollSignals(); err != nil {
			return value.Cell{}, index, err
		}
		if index >= block.Len() {
			return value.Unset, index, nil
		}
		c := block.Get(index)

		var err *value.Error
		out, index, err = ev.step(block, index, c)
		if err != nil {
			return value.Cell{}, index, err
		}
		if out.Thrown() {
			return out, index, nil
		}

		if lookahead {
			out, index, err = ev.infixLookahead(block, index, out)
			if err != nil {
				return value.Cell{}, index, err
			}
			if out.Thrown() {
				return out, index, nil
			}
		}

		if onlyOne || index >= block.Len() {
			return out, index, nil
		}
	}
}

// step dispatches a single fetched value and returns the value
// produced plus the index to resume at.
func (ev *Evaluator) step(block *value.Series, index int, c value.Cell) (value.Cell, int, *value.Error) {
	switch c.Kind() {
	case value.TypeEnd:
		return value.Unset, index, nil

	case value.TypeWord:
		v, err := frame.GetVar(c, ev.Call)
		if err != nil {
			return value.Cell{}, index, err
		}
		if v.IsFunction() {
			return ev.call(v, c.Symbol(), block, index+1, nil, nil)
		}
		return v, index + 1, nil

	case value.TypeSetWord:
		v, next, err := ev.Do(block, index+1, true, true)
		if err != nil {
			return value.Cell{}, next, err
		}
		if v.Thrown() {
			return v, next, nil
		}
		if v.IsUnset() {
			return value.Cell{}, next, value.NewError(value.ErrNeedValue, "set-word needs a value")
		}
		if err := frame.SetVar(c, v, ev.Call); err != nil {
			return value.Cell{}, next, err
		}
		return v, next, nil

	case value.TypeGetWord:
		v, err := frame.GetVar(c, ev.Call)
		return v, index + 1, err

	case value.TypeLitWord:
		return value.Word(value.TypeWord, c.Symbol()).Bind(c.BindFrame(), c.BindIndex()), index + 1, nil

	case value.TypeLitPath:
		return value.SeriesValue(value.TypePath, c.SeriesRef(), c.Index()), index + 1, nil

	case value.TypeFunction, value.TypeNative, value.TypeClosure:
		if c.Infix() {
			return value.Cell{}, index, value.NewError(value.ErrNoArg, "infix function has no left argument")
		}
		return ev.call(c, symbol.None, block, index+1, nil, nil)

	case value.TypePath:
		return ev.doPath(c, block, index+1, nil)

	case value.TypeGetPath:
		v, _, err := ev.resolvePathValue(c)
		return v, index + 1, err

	case value.TypeSetPath:
		v, next, err := ev.Do(block, index+1, true, true)
		if err != nil {
			return value.Cell{}, next, err
		}
		if v.Thrown() {
			return v, next, nil
		}
		if err := ev.setPathValue(c, v); err != nil {
			return value.Cell{}, next, err
		}
		return v, next, nil

	case value.TypeParen:
		v, _, err := ev.Do(c.SeriesRef(), 0, false, true)
		return v, index + 1, err

	default:
		return c, index + 1, nil
	}
}

// infixLookahead consumes a run of infix operators at precedence
// level zero (§4.7 step 4): word-bound or literal infix function
// values following the just-produced output.
func (ev *Evaluator) infixLookahead(block *value.Series, index int, out value.Cell) (value.Cell, int, *value.Error) {
	for {
		if index >= block.Len() {
			return out, index, nil
		}
		fn, label, ok := ev.peekInfix(block.Get(index))
		if !ok {
			return out, index, nil
		}
		res, next, err := ev.call(fn, label, block, index+1, &out, nil)
		if err != nil {
			return value.Cell{}, next, err
		}
		out, index = res, next
		if out.Thrown() {
			return out, index, nil
		}
	}
}

func (ev *Evaluator) peekInfix(c value.Cell) (fn value.Cell, label symbol.ID, ok bool) {
	switch c.Kind() {
	case value.TypeWord:
		v, err := frame.GetVar(c, ev.Call)
		if err != nil || !v.IsFunction() || !v.Infix() {
			return value.Cell{}, symbol.None, false
		}
		return v, c.Symbol(), true
	case value.TypeFunction, value.TypeNative, value.TypeClosure:
		if !c.Infix() {
			return value.Cell{}, symbol.None, false
		}
		return c, symbol.None, true
	default:
		return value.Cell{}, symbol.None, false
	}
}
