/*
 * rebolcore - Native function registry
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
	"bufio"
	"fmt"
	"os"

	"github.com/rebolcore/rebolcore/engine/eval"
	"github.com/rebolcore/rebolcore/engine/loop"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// paramSpec describes one parameter slot of a native, by name, typeset
// membership, and binding mode (§4.9's native signatures double as
// Do_Args templates exactly like Rebol-bodied functions).
type paramSpec struct {
	name  string
	types uint64
	mode  value.ParamMode
}

func plain(name string, types ...value.Type) paramSpec {
	return paramSpec{name: name, types: bits(types), mode: value.ParamPlain}
}

func litArg(name string) paramSpec { return paramSpec{name: name, mode: value.ParamLitWord} }
func getArg(name string) paramSpec { return paramSpec{name: name, mode: value.ParamGetWord} }
func refine(name string) paramSpec { return paramSpec{name: name, mode: value.ParamRefinement} }

func bits(types []value.Type) uint64 {
	var b uint64
	for _, t := range types {
		if t < 64 {
			b |= 1 << uint(t)
		}
	}
	return b
}

// register builds one native FuncDef from its parameter list and Go
// implementation, interns its name, and installs it both into the
// evaluator's native table and as a bound function value in root.
func register(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame, name string, infix bool, params []paramSpec, fn value.NativeFunc) {
	args := a.NewFrame(value.FrameStackRelative, true)
	for _, p := range params {
		sym := tbl.Intern(p.name)
		a.ExtendMode(args, sym, p.types, p.mode)
	}
	def := &value.FuncDef{Args: args, Native: fn}
	sym := tbl.Intern(name)
	ev.Natives[sym] = def
	fnVal := value.FunctionValue(def).SetInfix(infix)
	idx := a.Extend(root, sym, 0)
	_ = root.SetSlot(idx, fnVal)
}

// RegisterNatives populates root with the base language's native
// vocabulary (§4.9): arithmetic, comparisons, series access, control
// flow and the loop constructs engine/loop implements. It is the
// rebolcore analogue of the teacher's device-table bring-up in
// emu/core.go -- one place that wires every built-in into the running
// engine before any user source is ever loaded.
func RegisterNatives(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	loop.BreakSymbol = tbl.Intern("break")
	loop.ContinueSymbol = tbl.Intern("continue")

	registerArithmetic(ev, a, tbl, root)
	registerComparisons(ev, a, tbl, root)
	registerSeries(ev, a, tbl, root)
	registerControl(ev, a, tbl, root)
	registerLoops(ev, a, tbl, root)
	registerIO(ev, a, tbl, root)
	registerFuncNatives(ev, a, tbl, root)
	registerMakeNative(ev, a, tbl, root)
}

func numArg(c value.Cell) (float64, bool) {
	switch c.Kind() {
	case value.TypeInteger:
		return float64(c.IntValue()), true
	case value.TypeDecimal, value.TypePercent:
		return c.FloatValue(), true
	}
	return 0, false
}

func bothInt(a, b value.Cell) bool {
	return a.Kind() == value.TypeInteger && b.Kind() == value.TypeInteger
}

func registerArithmetic(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	arith := func(name string, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) {
		register(ev, a, tbl, root, name, true, []paramSpec{
			plain("value1", value.TypeInteger, value.TypeDecimal, value.TypePercent),
			plain("value2", value.TypeInteger, value.TypeDecimal, value.TypePercent),
		}, func(args []value.Cell) (value.Cell, *value.Error) {
			if bothInt(args[0], args[1]) {
				return value.Integer(intOp(args[0].IntValue(), args[1].IntValue())), nil
			}
			x, _ := numArg(args[0])
			y, _ := numArg(args[1])
			return value.Decimal(floatOp(x, y)), nil
		})
	}
	arith("+", func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	arith("-", func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	arith("*", func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })

	register(ev, a, tbl, root, "/", true, []paramSpec{
		plain("value1", value.TypeInteger, value.TypeDecimal, value.TypePercent),
		plain("value2", value.TypeInteger, value.TypeDecimal, value.TypePercent),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		y, _ := numArg(args[1])
		if y == 0 {
			return value.Cell{}, value.NewError(value.ErrRange, "attempt to divide by zero")
		}
		if bothInt(args[0], args[1]) && args[0].IntValue()%args[1].IntValue() == 0 {
			return value.Integer(args[0].IntValue() / args[1].IntValue()), nil
		}
		x, _ := numArg(args[0])
		return value.Decimal(x / y), nil
	})

	register(ev, a, tbl, root, "negate", false, []paramSpec{
		plain("value", value.TypeInteger, value.TypeDecimal, value.TypePercent),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		if args[0].Kind() == value.TypeInteger {
			return value.Integer(-args[0].IntValue()), nil
		}
		return value.Decimal(-args[0].FloatValue()), nil
	})
}

func registerComparisons(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	cmp := func(name string, f func(x, y float64) bool, eqOK bool) {
		register(ev, a, tbl, root, name, true, []paramSpec{
			plain("value1"),
			plain("value2"),
		}, func(args []value.Cell) (value.Cell, *value.Error) {
			x, xok := numArg(args[0])
			y, yok := numArg(args[1])
			if xok && yok {
				return value.Logic(f(x, y)), nil
			}
			if !eqOK {
				return value.Cell{}, value.NewError(value.ErrExpectArg, "comparison requires numeric arguments")
			}
			return value.Logic(cellEqual(args[0], args[1])), nil
		})
	}
	cmp("=", func(x, y float64) bool { return x == y }, true)
	cmp("<>", func(x, y float64) bool { return x != y }, true)
	cmp("<", func(x, y float64) bool { return x < y }, false)
	cmp(">", func(x, y float64) bool { return x > y }, false)
	cmp("<=", func(x, y float64) bool { return x <= y }, false)
	cmp(">=", func(x, y float64) bool { return x >= y }, false)

	register(ev, a, tbl, root, "equal?", false, []paramSpec{plain("value1"), plain("value2")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Logic(cellEqual(args[0], args[1])), nil })
}

func cellEqual(x, y value.Cell) bool {
	if x.Kind() != y.Kind() {
		xn, xok := numArg(x)
		yn, yok := numArg(y)
		return xok && yok && xn == yn
	}
	switch x.Kind() {
	case value.TypeInteger, value.TypeChar, value.TypeLogic:
		return x.IntValue() == y.IntValue()
	case value.TypeDecimal, value.TypePercent:
		return x.FloatValue() == y.FloatValue()
	case value.TypeNone:
		return true
	case value.TypeWord, value.TypeSetWord, value.TypeGetWord, value.TypeLitWord, value.TypeRefinement:
		return x.Symbol() == y.Symbol()
	case value.TypeString:
		return stringText(x) == stringText(y)
	default:
		return x.SeriesRef() == y.SeriesRef() && x.Index() == y.Index()
	}
}

func stringText(c value.Cell) string {
	s := c.SeriesRef()
	if s == nil {
		return ""
	}
	buf := make([]byte, 0, s.Len())
	for i := c.Index(); i < s.Len(); i++ {
		buf = append(buf, s.GetByte(i))
	}
	return string(buf)
}

func registerSeries(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	register(ev, a, tbl, root, "first", false, []paramSpec{plain("series", value.TypeBlock, value.TypeString, value.TypeParen)},
		func(args []value.Cell) (value.Cell, *value.Error) { return seriesAt(args[0], 0) })

	register(ev, a, tbl, root, "second", false, []paramSpec{plain("series", value.TypeBlock, value.TypeString, value.TypeParen)},
		func(args []value.Cell) (value.Cell, *value.Error) { return seriesAt(args[0], 1) })

	register(ev, a, tbl, root, "last", false, []paramSpec{plain("series", value.TypeBlock, value.TypeString, value.TypeParen)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			s := args[0].SeriesRef()
			n := s.Len() - 1 - args[0].Index()
			return seriesAt(args[0], n)
		})

	register(ev, a, tbl, root, "length?", false, []paramSpec{plain("series", value.TypeBlock, value.TypeString, value.TypeParen, value.TypeBinary)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			s := args[0].SeriesRef()
			return value.Integer(int64(s.Len() - args[0].Index())), nil
		})

	register(ev, a, tbl, root, "pick", false, []paramSpec{
		plain("series", value.TypeBlock, value.TypeString, value.TypeParen),
		plain("index", value.TypeInteger),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return seriesAt(args[0], int(args[1].IntValue())-1)
	})

	register(ev, a, tbl, root, "append", false, []paramSpec{
		plain("series", value.TypeBlock, value.TypeParen),
		plain("value"),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		s := args[0].SeriesRef()
		if err := a.AppendArray(s, args[1]); err != nil {
			return value.Cell{}, value.NewError(value.ErrRange, "%v", err)
		}
		return args[0], nil
	})

	register(ev, a, tbl, root, "copy", false, []paramSpec{plain("value", value.TypeBlock, value.TypeParen, value.TypeString)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			cp := a.DeepCopy(args[0].SeriesRef(), false)
			return value.SeriesValue(args[0].Kind(), cp, 0), nil
		})

	register(ev, a, tbl, root, "reverse", false, []paramSpec{plain("series", value.TypeBlock, value.TypeParen)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			s := args[0].SeriesRef()
			start := args[0].Index()
			for i, j := start, s.Len()-1; i < j; i, j = i+1, j-1 {
				vi, vj := s.Get(i), s.Get(j)
				_ = s.Put(i, vj)
				_ = s.Put(j, vi)
			}
			return args[0], nil
		})
}

func seriesAt(c value.Cell, offset int) (value.Cell, *value.Error) {
	s := c.SeriesRef()
	idx := c.Index() + offset
	if idx < 0 || idx >= s.Len() {
		return value.Cell{}, value.NewError(value.ErrRange, "index out of range")
	}
	if c.Kind() == value.TypeString {
		return value.Char(rune(s.GetByte(idx))), nil
	}
	return s.Get(idx), nil
}

func registerControl(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	doBlock := func(c value.Cell) (value.Cell, *value.Error) {
		switch c.Kind() {
		case value.TypeBlock, value.TypeParen:
			if c.SeriesRef() == nil {
				return value.Unset, nil
			}
			v, _, err := ev.Do(c.SeriesRef(), c.Index(), false, true)
			return v, err
		default:
			return c, nil
		}
	}

	register(ev, a, tbl, root, "if", false, []paramSpec{
		plain("condition"),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		if !args[0].Truthy() {
			return value.Unset, nil
		}
		return doBlock(args[1])
	})

	register(ev, a, tbl, root, "either", false, []paramSpec{
		plain("condition"),
		plain("true-body", value.TypeBlock),
		plain("false-body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		if args[0].Truthy() {
			return doBlock(args[1])
		}
		return doBlock(args[2])
	})

	register(ev, a, tbl, root, "not", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Logic(!args[0].Truthy()), nil })

	register(ev, a, tbl, root, "and", true, []paramSpec{plain("value1"), plain("value2")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Logic(args[0].Truthy() && args[1].Truthy()), nil })

	register(ev, a, tbl, root, "or", true, []paramSpec{plain("value1"), plain("value2")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Logic(args[0].Truthy() || args[1].Truthy()), nil })

	register(ev, a, tbl, root, "do", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) { return doBlock(args[0]) })

	register(ev, a, tbl, root, "reduce", false, []paramSpec{plain("block", value.TypeBlock)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			src := args[0].SeriesRef()
			out := a.NewArray(src.Len(), 0)
			idx := args[0].Index()
			for idx < src.Len() {
				v, next, err := ev.Do(src, idx, true, true)
				if err != nil {
					return value.Cell{}, err
				}
				if v.Thrown() {
					return v, nil
				}
				_ = a.AppendArray(out, v)
				idx = next
			}
			return value.SeriesValue(value.TypeBlock, out, 0), nil
		})

	register(ev, a, tbl, root, "compose", false, []paramSpec{plain("block", value.TypeBlock)},
		func(args []value.Cell) (value.Cell, *value.Error) {
			src := args[0].SeriesRef()
			out := a.NewArray(src.Len(), 0)
			for i := args[0].Index(); i < src.Len(); i++ {
				c := src.Get(i)
				if c.Kind() == value.TypeParen {
					v, _, err := ev.Do(c.SeriesRef(), 0, false, true)
					if err != nil {
						return value.Cell{}, err
					}
					if v.Kind() == value.TypeBlock {
						sub := v.SeriesRef()
						for j := v.Index(); j < sub.Len(); j++ {
							_ = a.AppendArray(out, sub.Get(j))
						}
						continue
					}
					_ = a.AppendArray(out, v)
					continue
				}
				_ = a.AppendArray(out, c)
			}
			return value.SeriesValue(value.TypeBlock, out, 0), nil
		})

	register(ev, a, tbl, root, "type?", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Integer(int64(args[0].Kind())), nil })

	register(ev, a, tbl, root, "quit", false, nil,
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Cell{}, value.NewQuit(0) })

	register(ev, a, tbl, root, "quit-with", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) { return value.Cell{}, value.NewQuit(exitCodeOf(args[0])) })
}

// exitCodeOf maps a quit value to a process exit status the way the
// host's shell layer expects: none or true is success, false is
// failure, an integer above 255 becomes 255 and a negative one becomes
// 1, and any other value is success.
func exitCodeOf(c value.Cell) int {
	switch c.Kind() {
	case value.TypeNone:
		return 0
	case value.TypeLogic:
		if c.Truthy() {
			return 0
		}
		return 1
	case value.TypeInteger:
		n := c.IntValue()
		if n < 0 {
			n = 1
		}
		if n > 255 {
			n = 255
		}
		return int(n)
	default:
		return 0
	}
}

func registerLoops(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	register(ev, a, tbl, root, "break", false, nil, func(args []value.Cell) (value.Cell, *value.Error) {
		return value.Word(value.TypeWord, loop.BreakSymbol).SetThrown(true), nil
	})
	register(ev, a, tbl, root, "continue", false, nil, func(args []value.Cell) (value.Cell, *value.Error) {
		return value.Word(value.TypeWord, loop.ContinueSymbol).SetThrown(true), nil
	})

	register(ev, a, tbl, root, "repeat", false, []paramSpec{
		litArg("word"),
		plain("count", value.TypeInteger),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return loop.ForInteger(ev, a, tbl, args[0].Symbol(), 1, args[1].IntValue(), 1, args[2].SeriesRef(), false)
	})

	register(ev, a, tbl, root, "for", false, []paramSpec{
		litArg("word"),
		plain("start", value.TypeInteger),
		plain("stop", value.TypeInteger),
		plain("step", value.TypeInteger),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return loop.ForInteger(ev, a, tbl, args[0].Symbol(), args[1].IntValue(), args[2].IntValue(), args[3].IntValue(), args[4].SeriesRef(), false)
	})

	register(ev, a, tbl, root, "foreach", false, []paramSpec{
		litArg("word"),
		plain("series", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return loop.ForEach(ev, a, tbl, []symbol.ID{args[0].Symbol()}, args[1].SeriesRef(), args[2].SeriesRef(), false)
	})

	register(ev, a, tbl, root, "while", false, []paramSpec{
		plain("condition", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return loop.While(ev, args[0].SeriesRef(), args[1].SeriesRef())
	})

	register(ev, a, tbl, root, "until", false, []paramSpec{plain("body", value.TypeBlock)},
		func(args []value.Cell) (value.Cell, *value.Error) { return loop.Until(ev, args[0].SeriesRef()) })

	register(ev, a, tbl, root, "forever", false, []paramSpec{plain("body", value.TypeBlock)},
		func(args []value.Cell) (value.Cell, *value.Error) { return loop.Forever(ev, args[0].SeriesRef()) })

	register(ev, a, tbl, root, "loop", false, []paramSpec{
		plain("count", value.TypeInteger),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		return loop.Loop(ev, args[1].SeriesRef(), args[0].IntValue())
	})

	register(ev, a, tbl, root, "remove-each", false, []paramSpec{
		litArg("word"),
		plain("series", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		removed, err := loop.RemoveEach(ev, a, tbl, []symbol.ID{args[0].Symbol()}, args[1].SeriesRef(), args[2].SeriesRef())
		if err != nil {
			return value.Cell{}, err
		}
		return value.Integer(int64(removed)), nil
	})

	register(ev, a, tbl, root, "map-each", false, []paramSpec{
		litArg("word"),
		plain("series", value.TypeBlock),
		plain("body", value.TypeBlock),
	}, func(args []value.Cell) (value.Cell, *value.Error) {
		out, err := loop.MapEach(ev, a, tbl, args[0].Symbol(), args[1].SeriesRef(), args[2].SeriesRef())
		if err != nil {
			return value.Cell{}, err
		}
		return value.SeriesValue(value.TypeBlock, out, 0), nil
	})
}

func registerIO(ev *eval.Evaluator, a *value.Arena, tbl *symbol.Table, root *value.Frame) {
	out := bufio.NewWriter(os.Stdout)

	register(ev, a, tbl, root, "print", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) {
			fmt.Fprintln(out, formatCell(tbl, args[0]))
			out.Flush()
			return value.Unset, nil
		})

	register(ev, a, tbl, root, "probe", false, []paramSpec{plain("value")},
		func(args []value.Cell) (value.Cell, *value.Error) {
			fmt.Fprintln(out, formatCell(tbl, args[0]))
			out.Flush()
			return args[0], nil
		})
}

// FormatCell renders c the way print/probe do, for hosts that need
// the same textual form outside of a native call (e.g. a console
// printing a result value).
func FormatCell(tbl *symbol.Table, c value.Cell) string {
	return formatCell(tbl, c)
}

func formatCell(tbl *symbol.Table, c value.Cell) string {
	switch c.Kind() {
	case value.TypeInteger:
		return fmt.Sprintf("%d", c.IntValue())
	case value.TypeDecimal, value.TypePercent:
		return fmt.Sprintf("%g", c.FloatValue())
	case value.TypeString:
		return stringText(c)
	case value.TypeLogic:
		return fmt.Sprintf("%t", c.Truthy())
	case value.TypeNone:
		return "none"
	case value.TypeWord, value.TypeSetWord, value.TypeGetWord, value.TypeLitWord, value.TypeRefinement:
		return tbl.Name(c.Symbol())
	case value.TypeUnset:
		return ""
	case value.TypeBlock, value.TypeParen:
		s := c.SeriesRef()
		text := "["
		for i := c.Index(); i < s.Len(); i++ {
			if i > c.Index() {
				text += " "
			}
			text += formatCell(tbl, s.Get(i))
		}
		return text + "]"
	default:
		return fmt.Sprintf("<%d>", c.Kind())
	}
}
