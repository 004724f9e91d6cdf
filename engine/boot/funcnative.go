/*
 * rebolcore - `func`/`closure` natives
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

// buildArgsFrame reads a function spec block and produces the
// stack-relative word-list frame Do_Args binds against. Docstrings
// (string! entries) are skipped; a word's leading punctuation selects
// its parameter mode the same way the scanner reads it from source:
// plain word -> ParamPlain, :word -> ParamGetWord, 'word ->
// ParamLitWord, /word -> ParamRefinement.
func buildArgsFrame(a *value.Arena, tbl *symbol.Table, spec *value.Series) *value.Frame {
	f := a.NewFrame(value.FrameStackRelative, true)
	for i := 0; i < spec.Len(); i++ {
		c := spec.Get(i)
		if !c.IsWord() {
			continue // docstring or other annotation, not a parameter
		}
		mode := value.ParamPlain
		switch c.Kind() {
		case value.TypeGetWord:
			mode = value.ParamGetWord
		case value.TypeLitWord:
			mode = value.ParamLitWord
		case value.TypeRefinement:
			mode = value.ParamRefinement
		}
		a.ExtendMode(f, c.Symbol(), 0, mode)
	}
	return f
}

// registerFuncNatives installs the function-constructor natives:
// `func` binds its body once, at definition time, so every call
// shares one body and one set of relatively-bound words (cheap, but
// unsafe to nest the same call recursively while holding onto an
// inner closure over a loop variable); `closure` defers binding to
// call time via a fresh deep copy, trading that cost for a body that
// can safely outlive its defining call (e.g. returned from a loop).
func registerFuncNatives(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	register(ev, a, tbl, root, "func", false, []paramSpec{
		plain("spec", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		specSeries := args[0].SeriesRef()
		bodySeries := args[1].SeriesRef()
		argsFrame := buildArgsFrame(a, tbl, specSeries)
		frame.BindRelative(a, argsFrame, tbl, bodySeries, true)
		def := &value.FuncDef{Spec: specSeries, Args: argsFrame, Body: bodySeries}
		return value.FunctionValue(def), nil
	})

	register(ev, a, tbl, root, "closure", false, []paramSpec{
		plain("spec", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		specSeries := args[0].SeriesRef()
		bodySeries := args[1].SeriesRef()
		argsFrame := buildArgsFrame(a, tbl, specSeries)
		def := &value.FuncDef{Spec: specSeries, Args: argsFrame, Body: bodySeries, Closure: true}
		return value.FunctionValue(def), nil
	})

	register(ev, a, tbl, root, "does", false, []paramSpec{
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		bodySeries := args[0].SeriesRef()
		argsFrame := a.NewFrame(value.FrameStackRelative, true)
		def := &value.FuncDef{Args: argsFrame, Body: bodySeries, Closure: true}
		return value.FunctionValue(def), nil
	})
}
