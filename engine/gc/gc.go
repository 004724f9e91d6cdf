/*
 * rebolcore - Mark-sweep garbage collector
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

// Package gc implements the stop-the-world mark-sweep collector over
// series (spec §4.3). It is a pure consumer of engine/value -- it
// never allocates a series itself, only marks and reclaims them --
// so it can sit on top of the value package without creating an
// import cycle.
package gc

import "github.com/rebolcore/rebolcore/engine/value"

// Roots lists every root set the mark phase must walk (§4.3): the
// fixed root context, the per-task context, the live call-frame
// chain, and the data stack. The symbol table and bind table are
// deliberately absent -- they are either process-lifetime immutable
// or hold opaque integers, never series references.
type Roots struct {
	RootFrame *value.Frame
	TaskFrame *value.Frame
	CallChain *value.CallFrame
	Stack     []value.Cell
}

// GC owns the collection policy: enabled/disabled gating (bootstrap
// and in-progress binding passes must never trigger a collection, per
// §4.3) and a running cycle count for diagnostics.
type GC struct {
	Arena     *value.Arena
	Cycles    int
	Suspended int // >0 inside a Suspend/Resume bracket (engine/boot holds one during bring-up)
}

func New(arena *value.Arena) *GC { return &GC{Arena: arena} }

// Suspend/Resume bracket regions where collection must not run, such
// as the bootstrap sequence. Binding passes need no bracket: they
// never evaluate, so they never reach the evaluator's signal poll.
func (g *GC) Suspend() { g.Suspended++ }
func (g *GC) Resume() {
	if g.Suspended > 0 {
		g.Suspended--
	}
}

// Collect runs one full mark-sweep cycle and recharges the ballast.
// It is a no-op while suspended.
func (g *GC) Collect(roots Roots) (freed int) {
	if g.Suspended > 0 {
		return 0
	}
	g.mark(roots)
	freed = g.sweep()
	g.Arena.Recharge()
	g.Cycles++
	return freed
}

func (g *GC) mark(roots Roots) {
	markFrame(roots.RootFrame)
	markFrame(roots.TaskFrame)
	for cf := roots.CallChain; cf != nil; cf = cf.Prior {
		markCell(cf.Func)
		if cf.Out != nil {
			markCell(*cf.Out)
		}
		markSeries(cf.Block)
		markFrame(cf.Args)
	}
	for _, c := range roots.Stack {
		markCell(c)
	}
}

func markSeries(s *value.Series) {
	if s == nil || s.Marked() {
		return
	}
	s.SetMarked(true)
	if s.Kind() != value.KindArray {
		return
	}
	for i := 0; i < s.Len(); i++ {
		markCell(s.Get(i))
	}
}

func markFrame(f *value.Frame) {
	if f == nil {
		return
	}
	markSeries(f.Words)
	markSeries(f.Values)
}

func markCell(c value.Cell) {
	if c.IsSeries() {
		markSeries(c.SeriesRef())
	}
	if c.IsFunction() {
		if def := c.FuncDef(); def != nil {
			markSeries(def.Spec)
			markFrame(def.Args)
			markSeries(def.Body)
		}
	}
	if c.Kind() == value.TypeFrame {
		markFrame(c.AsFrame())
	}
	if c.IsWord() && c.Bound() {
		markFrame(c.BindFrame())
	}
}

// sweep walks every managed series; anything left unmarked (and not
// kept) is reclaimed. External series have only their header
// reclaimed -- the payload belongs to the caller (§4.3).
func (g *GC) sweep() int {
	freed := 0
	s := g.Arena.ManagedHead()
	for s != nil {
		next := s.ManagedNext()
		switch {
		case s.Kept():
			// never swept
		case s.Marked():
			s.SetMarked(false)
		default:
			g.Arena.UnlinkManaged(s)
			g.Arena.ReclaimPayload(s)
			freed++
		}
		s = next
	}
	return freed
}
