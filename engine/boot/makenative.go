/*
 * rebolcore - `make` native
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
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// registerMakeNative installs `make` (§4.9): given a datatype or an
// existing object and a spec block, it builds a frame! value the way
// `func`/`closure` build a function's argument frame -- collect the
// spec's set-words, bind the spec to them absolutely, then evaluate
// it once so each set-word fills in its own slot and later
// expressions in the same spec can already see earlier ones.
func registerMakeNative(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	register(ev, a, tbl, root, "make", false, []paramSpec{
		plain("prototype"),
		plain("spec", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return makeObject(ev, a, tbl, args[0], args[1])
	})
}

func makeObject(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, prototype, spec value.Cell) (value.Cell, *value.Error) {
	var prior *value.Frame
	switch prototype.Kind() {
	case value.TypeDatatype:
		if prototype.DatatypeKind() != value.TypeFrame {
			return value.Cell{}, value.NewError(value.ErrNoArg, "make does not support this datatype")
		}
	case value.TypeFrame:
		prior = prototype.AsFrame()
	default:
		return value.Cell{}, value.NewError(value.ErrNoArg, "make's prototype must be object! or an existing object")
	}

	body := a.DeepCopy(spec.SeriesRef(), true)

	out := a.NewFrame(value.FramePersistent, true)
	seen := map[symbol.ID]bool{}
	if prior != nil {
		for i := 1; i < prior.Len(); i++ {
			w := prior.SlotWord(i)
			idx := a.Extend(out, w.Symbol(), w.Typeset())
			_ = out.SetSlot(idx, prior.SlotValue(i))
			seen[tbl.Canonical(w.Symbol())] = true
		}
	}

	fields, err := frame.CollectWords(a, tbl, nil, []*value.Series{body}, frame.CollectSetWordsOnly, true, false)
	if err != nil {
		return value.Cell{}, value.NewError(value.ErrDupVars, "%v", err)
	}
	for i := 1; i < fields.Len(); i++ {
		sym := fields.SlotWord(i).Symbol()
		canon := tbl.Canonical(sym)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		a.Extend(out, sym, 0)
	}

	frame.Bind(a, out, tbl, body, true, false)
	if _, _, derr := ev.Do(body, 0, false, true); derr != nil {
		return value.Cell{}, derr
	}
	return value.FrameValue(out), nil
}
