/*
 * rebolcore - Function invocation and argument binding
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

package eval

import (
	"github.com/rebolcore/rebolcore/engine/frame"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// call builds a fresh call frame for fn, binds its arguments starting
// at index, runs the body (native, closure, or plain), and returns the
// result plus the index just past the consumed arguments. firstArg, if
// non-nil, is the already-evaluated left operand of an infix call;
// refinements, if non-nil, were collected from a path invocation.
func (ev *Evaluator) call(fn value.Cell, label symbol.ID, block *value.Series, index int, firstArg *value.Cell, refinements map[symbol.ID]bool) (value.Cell, int, *value.Error) {
	def := fn.FuncDef()
	if def == nil {
		return value.Cell{}, index, value.NewError(value.ErrNoArg, "value is not callable")
	}

	args := &value.Frame{Kind: def.Args.Kind, Words: def.Args.Words}
	args.Values = ev.Arena.NewArray(def.Args.Len(), 0)
	for i := 0; i < def.Args.Len(); i++ {
		_ = ev.Arena.AppendArray(args.Values, value.Unset)
	}

	cf := &value.CallFrame{Func: fn, Label: label, Block: block, BlockIndex: index, Args: args, ArgCount: def.Args.Len() - 1}

	thrown, hasThrown, next, err := ev.doArgs(cf, block, index, firstArg, refinements, fn.Infix())
	if err != nil {
		return value.Cell{}, next, err
	}
	if hasThrown {
		return thrown, next, nil
	}

	cf.Ready = true
	cf.Prior = ev.Call
	ev.Call = cf
	result, rerr := ev.runBody(def, args)
	ev.Call = cf.Prior

	if rerr != nil {
		return value.Cell{}, next, rerr
	}
	return result, next, nil
}

func (ev *Evaluator) runBody(def *value.FuncDef, args *value.Frame) (value.Cell, *value.Error) {
	switch {
	case def.Native != nil:
		argv := make([]value.Cell, args.Len()-1)
		for i := 1; i < args.Len(); i++ {
			argv[i-1] = args.SlotValue(i)
		}
		return def.Native(argv)

	case def.Closure:
		body := ev.Arena.DeepCopy(def.Body, true)
		frame.BindRelative(ev.Arena, args, ev.Symbols, body, true)
		v, _, err := ev.Do(body, 0, false, true)
		return v, err

	default:
		v, _, err := ev.Do(def.Body, 0, false, true)
		return v, err
	}
}

// doArgs implements Do_Args (§4.7.2): walks def's parameter list,
// consuming and typechecking one argument per parameter, handling the
// plain/lit-word/get-word/refinement modes. It reports a thrown
// escape value separately from a hard error: a thrown argument stops
// binding immediately and the call frame is never made Ready. infix
// is true when fn itself is an infix function; per §4.7 step 4, an
// infix function's own argument evaluation MUST suppress lookahead so
// a trailing infix operator binds to the outer expression instead of
// being pulled into this call's argument, preserving left-to-right
// associativity at a single precedence level.
func (ev *Evaluator) doArgs(cf *value.CallFrame, block *value.Series, index int, firstArg *value.Cell, refinements map[symbol.ID]bool, infix bool) (thrown value.Cell, hasThrown bool, next int, err *value.Error) {
	lookahead := !infix
	args := cf.Args
	i := 1
	if firstArg != nil {
		if e := checkType(args.SlotWord(i), *firstArg); e != nil {
			return value.Cell{}, false, index, e
		}
		_ = args.SetSlot(i, *firstArg)
		i++
	}

	for ; i < args.Len(); i++ {
		w := args.SlotWord(i)
		switch w.Mode() {
		case value.ParamRefinement:
			active := refinements != nil && refinements[w.Symbol()]
			_ = args.SetSlot(i, value.Logic(active))
			if !active {
				i++
				for i < args.Len() && args.SlotWord(i).Mode() != value.ParamRefinement {
					_ = args.SetSlot(i, value.None)
					i++
				}
				i--
			}

		case value.ParamGetWord:
			if index >= block.Len() {
				_ = args.SetSlot(i, value.Unset)
				continue
			}
			_ = args.SetSlot(i, block.Get(index))
			index++

		case value.ParamLitWord:
			if index >= block.Len() {
				return value.Cell{}, false, index, value.NewError(value.ErrNoArg, "missing argument")
			}
			v := block.Get(index)
			switch v.Kind() {
			case value.TypeParen, value.TypeGetWord, value.TypeGetPath:
				res, nidx, e := ev.Do(block, index, true, lookahead)
				if e != nil {
					return value.Cell{}, false, nidx, e
				}
				if res.Thrown() {
					return res, true, nidx, nil
				}
				_ = args.SetSlot(i, res)
				index = nidx
			default:
				_ = args.SetSlot(i, v)
				index++
			}

		case value.ParamSetWord:
			return value.Cell{}, false, index, value.NewError(value.ErrExpectArg, "set-word parameters are reserved")

		default: // ParamPlain
			if index >= block.Len() {
				return value.Cell{}, false, index, value.NewError(value.ErrNoArg, "missing argument")
			}
			res, nidx, e := ev.Do(block, index, true, lookahead)
			if e != nil {
				return value.Cell{}, false, nidx, e
			}
			index = nidx
			if res.Thrown() {
				return res, true, index, nil
			}
			if e := checkType(w, res); e != nil {
				return value.Cell{}, false, index, e
			}
			_ = args.SetSlot(i, res)
		}
	}
	return value.Cell{}, false, index, nil
}

// checkType enforces a typed-word parameter's accepted typeset. A
// zero typeset means unconstrained.
func checkType(w, v value.Cell) *value.Error {
	if w.Typeset() == 0 {
		return nil
	}
	if v.IsUnset() {
		if w.Accepts(value.TypeUnset) {
			return nil
		}
		return value.NewError(value.ErrExpectArg, "argument is unset")
	}
	if !w.Accepts(v.Kind()) {
		return value.NewError(value.ErrExpectArg, "argument does not match expected type")
	}
	return nil
}

// Apply builds a call frame directly from a block of arguments,
// evaluating them one by one when reduce is true (§4.7 Apply). Excess
// values after the whole reduction completes are an arity error.
func (ev *Evaluator) Apply(fn value.Cell, argBlock *value.Series, reduce bool) (value.Cell, *value.Error) {
	def := fn.FuncDef()
	if def == nil {
		return value.Cell{}, value.NewError(value.ErrNoArg, "value is not callable")
	}

	var values []value.Cell
	if reduce {
		idx := 0
		for idx < argBlock.Len() {
			v, next, err := ev.Do(argBlock, idx, true, true)
			if err != nil {
				return value.Cell{}, err
			}
			if v.Thrown() {
				return v, nil
			}
			values = append(values, v)
			idx = next
		}
	} else {
		for i := 0; i < argBlock.Len(); i++ {
			values = append(values, argBlock.Get(i))
		}
	}

	args := &value.Frame{Kind: def.Args.Kind, Words: def.Args.Words}
	args.Values = ev.Arena.NewArray(def.Args.Len(), 0)
	for i := 0; i < def.Args.Len(); i++ {
		_ = ev.Arena.AppendArray(args.Values, value.Unset)
	}

	vi := 0
	refineActive := true
	for i := 1; i < args.Len(); i++ {
		w := args.SlotWord(i)
		if w.Mode() == value.ParamRefinement {
			refineActive = vi < len(values) && values[vi].Truthy()
			_ = args.SetSlot(i, value.Logic(refineActive))
			vi++
			continue
		}
		if !refineActive {
			_ = args.SetSlot(i, value.None)
			continue
		}
		if vi >= len(values) {
			return value.Cell{}, value.NewError(value.ErrNoArg, "not enough arguments for apply")
		}
		if err := checkType(w, values[vi]); err != nil {
			return value.Cell{}, err
		}
		_ = args.SetSlot(i, values[vi])
		vi++
	}
	if vi < len(values) {
		return value.Cell{}, value.NewError(value.ErrExpectArg, "too many arguments for apply")
	}

	cf := &value.CallFrame{Func: fn, Args: args, ArgCount: def.Args.Len() - 1, Ready: true, Prior: ev.Call}
	ev.Call = cf
	result, err := ev.runBody(def, args)
	ev.Call = cf.Prior
	return result, err
}
