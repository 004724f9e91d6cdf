/*
 * rebolcore - Engine bring-up
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

package boot

import (
	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/frame"
	"github.com/rebolcore/rebolcore/engine/gc"
	"github.com/rebolcore/rebolcore/engine/pool"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// Engine bundles everything one task needs to run: the arena, symbol
// table and evaluator, plus the loader closure engine/task posts
// source strings through.
type Engine struct {
	Arena   *value.Arena
	Symbols *symbol.Table
	GC      *gc.GC
	Eval    *eval.Evaluator
	Root    *value.Frame
	Load    func(string) (*value.Series, *value.Error)
	Config  *Config
}

// New assembles a fresh engine from cfg: allocator, arena, symbol
// table, root context, native vocabulary, and the scanner/binder
// loader. The GC is suspended for the whole bring-up sequence,
// mirroring emu/core.go's habit of bringing devices up before the CPU
// goroutine ever starts running instructions.
func New(cfg *Config) *Engine {
	alloc := pool.New(cfg.AlwaysMalloc)
	a := value.NewArena(alloc)
	tbl := symbol.New(512)

	value.SelfSymbol = tbl.Intern("self")
	value.NoNameSymbol = tbl.Intern("")

	collector := gc.New(a)
	collector.Suspend()
	defer collector.Resume()

	ev := eval.New(a, tbl, collector)
	ev.Bootstrap = true
	if cfg.CycleLimit > 0 {
		ev.SetCycleLimit(cfg.CycleLimit)
	}

	root := a.NewFrame(value.FramePersistent, true)
	ev.Root = root
	ev.Task = a.NewFrame(value.FramePersistent, true)

	installConstants(a, tbl, root)
	RegisterNatives(ev, a, tbl, root)
	ev.Bootstrap = false

	load := NewLoader(a, tbl, root)

	return &Engine{
		Arena:   a,
		Symbols: tbl,
		GC:      collector,
		Eval:    ev,
		Root:    root,
		Load:    load,
		Config:  cfg,
	}
}

// installConstants binds the handful of self-evaluating words every
// script expects to already exist: none, true, false, and the object!
// datatype used by `make`.
func installConstants(a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	set := func(name string, v value.Cell) {
		sym := tbl.Intern(name)
		idx := a.Extend(root, sym, 0)
		_ = root.SetSlot(idx, v)
	}
	set("none", value.None)
	set("true", value.Logic(true))
	set("false", value.Logic(false))
	set("object!", value.DatatypeValue(value.TypeFrame))
}

// NewLoader returns the source-to-block compiler a Task posts strings
// through: scan the text into a block, then bind every word in it
// against root (nested blocks included), extending root with any new
// set-words found at any depth --
// the same "user context grows as you go" behaviour the teacher's own
// REPL loop relies on for command history variables.
func NewLoader(a *value.Arena, tbl *symbol.Table, root *value.Frame) func(string) (*value.Series, *value.Error) {
	return func(source string) (*value.Series, *value.Error) {
		block, err := Load(a, tbl, source)
		if err != nil {
			return nil, err
		}
		frame.Bind(a, root, tbl, block, true, true)
		return block, nil
	}
}
