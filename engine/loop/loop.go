/*
 * rebolcore - Loop constructs
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

// Package loop implements the iteration constructs of §4.8: each one
// makes a per-iteration frame holding the loop variable(s), binds a
// (deep-copied, for closure bodies) body to it, and re-evaluates the
// body once per step, classifying a thrown break/continue word as a
// loop-control signal rather than letting it escape.
package loop

import (
	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/frame"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// Signal classifies the outcome of one body evaluation.
type Signal uint8

const (
	SignalContinue Signal = iota // ordinary value, keep looping
	SignalBreak                  // stop the loop now
	SignalReturnOut               // propagate a real thrown value (return/quit/error)
)

// BreakSymbol/ContinueSymbol name the two loop-control natives; they
// are interned once by engine/boot and shared here so classify can
// recognise them without a package-level cyclic import.
var (
	BreakSymbol    symbol.ID
	ContinueSymbol symbol.ID
)

// classify inspects a thrown cell and decides whether it is this
// loop's own break/continue signal or a real escape that must keep
// propagating outward.
func classify(c value.Cell) Signal {
	if !c.Thrown() {
		return SignalContinue
	}
	if c.IsWord() {
		switch c.Symbol() {
		case BreakSymbol:
			return SignalBreak
		case ContinueSymbol:
			return SignalContinue
		}
	}
	return SignalReturnOut
}

// runBody evaluates body (freshly bound to iterFrame) once, returning
// the loop classification and, for SignalReturnOut, the value to
// propagate. The loop variable is bound stack-relative, so a live
// CallFrame whose Args points at iterFrame must sit atop ev.Call while
// the body runs — otherwise GetVar's relative lookup has no frame to
// find, exactly as a function call pushes one around its own body in
// engine/eval's call().
func runBody(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, iterFrame *value.Frame, bodyTemplate *value.Series, closure bool) (value.Cell, Signal, *value.Error) {
	body := bodyTemplate
	if closure {
		body = a.DeepCopy(bodyTemplate, true)
	}
	frame.BindRelative(a, iterFrame, tbl, body, true)

	cf := &value.CallFrame{Args: iterFrame, Ready: true, Prior: ev.Call}
	ev.Call = cf
	result, _, err := ev.Do(body, 0, false, true)
	ev.Call = cf.Prior

	if err != nil {
		return value.Cell{}, SignalReturnOut, err
	}
	return result, classify(result), nil
}

// singleVarFrame builds a one-slot stack-relative frame for a loop
// variable, the shape every counted/series loop below needs.
func singleVarFrame(a *value.Arena, sym symbol.ID) (*value.Frame, int) {
	f := a.NewFrame(value.FrameStackRelative, false)
	idx := a.Extend(f, sym, 0)
	return f, idx
}

// ForInteger implements the `for`/`to`/`step` counted loop: iterate
// the loop variable from start to stop by step (any sign), evaluating
// body once per value.
func ForInteger(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, varSym symbol.ID, start, stop, step int64, body *value.Series, closure bool) (value.Cell, *value.Error) {
	if step == 0 {
		return value.Cell{}, value.NewError(value.ErrRange, "for loop step must be non-zero")
	}
	f, idx := singleVarFrame(a, varSym)
	var result value.Cell = value.Unset
	for n := start; (step > 0 && n <= stop) || (step < 0 && n >= stop); n += step {
		_ = f.SetSlot(idx, value.Integer(n))
		out, sig, err := runBody(ev, a, tbl, f, body, closure)
		if err != nil {
			return value.Cell{}, err
		}
		switch sig {
		case SignalBreak:
			return out, nil
		case SignalReturnOut:
			return out, nil
		}
		result = out
	}
	return result, nil
}

// ForEach walks series' elements (or key/value pairs, when a second
// variable symbol is supplied) binding each to the per-iteration
// frame and evaluating body.
func ForEach(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, varSyms []symbol.ID, series *value.Series, body *value.Series, closure bool) (value.Cell, *value.Error) {
	f := a.NewFrame(value.FrameStackRelative, false)
	idxs := make([]int, len(varSyms))
	for i, sym := range varSyms {
		idxs[i] = a.Extend(f, sym, 0)
	}
	width := len(varSyms)
	if width == 0 {
		width = 1
	}
	var result value.Cell = value.Unset
	for pos := 0; pos+width <= series.Len(); pos += width {
		for i := 0; i < width && i < len(idxs); i++ {
			_ = f.SetSlot(idxs[i], series.Get(pos+i))
		}
		out, sig, err := runBody(ev, a, tbl, f, body, closure)
		if err != nil {
			return value.Cell{}, err
		}
		if sig == SignalBreak || sig == SignalReturnOut {
			return out, nil
		}
		result = out
	}
	return result, nil
}

// While evaluates cond before every iteration and stops once it is
// falsy; Until evaluates body first and stops once it is truthy.
func While(ev *eval.Evaluator, cond, body *value.Series) (value.Cell, *value.Error) {
	var result value.Cell = value.Unset
	for {
		c, _, err := ev.Do(cond, 0, false, true)
		if err != nil {
			return value.Cell{}, err
		}
		if c.Thrown() {
			return c, nil
		}
		if !c.Truthy() {
			return result, nil
		}
		out, _, err := ev.Do(body, 0, false, true)
		if err != nil {
			return value.Cell{}, err
		}
		if classify(out) == SignalBreak {
			return out, nil
		}
		if out.Thrown() {
			return out, nil
		}
		result = out
	}
}

func Until(ev *eval.Evaluator, body *value.Series) (value.Cell, *value.Error) {
	var result value.Cell = value.Unset
	for {
		out, _, err := ev.Do(body, 0, false, true)
		if err != nil {
			return value.Cell{}, err
		}
		sig := classify(out)
		if sig == SignalBreak {
			return out, nil
		}
		if out.Thrown() {
			return out, nil
		}
		result = out
		if out.Truthy() {
			return result, nil
		}
	}
}

// Forever repeats body until a break (or an outer thrown value)
// interrupts it; there is no loop variable.
func Forever(ev *eval.Evaluator, body *value.Series) (value.Cell, *value.Error) {
	for {
		out, _, err := ev.Do(body, 0, false, true)
		if err != nil {
			return value.Cell{}, err
		}
		sig := classify(out)
		if sig == SignalBreak || sig == SignalReturnOut {
			return out, nil
		}
	}
}

// Loop repeats body exactly count times with no loop variable.
func Loop(ev *eval.Evaluator, body *value.Series, count int64) (value.Cell, *value.Error) {
	var result value.Cell = value.Unset
	for n := int64(0); n < count; n++ {
		out, _, err := ev.Do(body, 0, false, true)
		if err != nil {
			return value.Cell{}, err
		}
		sig := classify(out)
		if sig == SignalBreak || sig == SignalReturnOut {
			return out, nil
		}
		result = out
	}
	return result, nil
}

// RemoveEach conditionally compacts series in place, removing each
// element (or width-sized group) for which body evaluates truthy.
func RemoveEach(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, varSyms []symbol.ID, series *value.Series, body *value.Series) (int, *value.Error) {
	f := a.NewFrame(value.FrameStackRelative, false)
	idxs := make([]int, len(varSyms))
	for i, sym := range varSyms {
		idxs[i] = a.Extend(f, sym, 0)
	}
	width := len(varSyms)
	if width == 0 {
		width = 1
	}
	removed := 0
	pos := 0
	for pos+width <= series.Len() {
		for i := 0; i < width; i++ {
			_ = f.SetSlot(idxs[i], series.Get(pos+i))
		}
		out, sig, err := runBody(ev, a, tbl, f, body, false)
		if err != nil {
			return removed, err
		}
		if sig == SignalReturnOut {
			return removed, nil
		}
		if out.Truthy() {
			if err := a.RemoveArray(series, pos, width); err != nil {
				return removed, value.NewError(value.ErrRange, "%v", err)
			}
			removed += width
			continue
		}
		pos += width
	}
	return removed, nil
}

// MapEach accumulates every non-unset, non-thrown body result into a
// fresh block, one entry per source element.
func MapEach(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, varSym symbol.ID, series *value.Series, body *value.Series) (*value.Series, *value.Error) {
	f, idx := singleVarFrame(a, varSym)
	out := a.NewArray(series.Len(), 0)
	for pos := 0; pos < series.Len(); pos++ {
		_ = f.SetSlot(idx, series.Get(pos))
		v, sig, err := runBody(ev, a, tbl, f, body, false)
		if err != nil {
			return nil, err
		}
		if sig == SignalReturnOut {
			return out, nil
		}
		if sig == SignalBreak {
			return out, nil
		}
		if !v.IsUnset() {
			_ = a.AppendArray(out, v)
		}
	}
	return out, nil
}
