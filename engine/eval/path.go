/*
 * rebolcore - Path traversal
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

// doPath evaluates a path! at block[index-1] and, if it bottoms out at
// a function, invokes it with any trailing word segments treated as
// refinements (§4.7 "path traversal" / "when traversal ends at a
// function value with remaining segments").
func (ev *Evaluator) doPath(pathCell value.Cell, block *value.Series, index int, setValue *value.Cell) (value.Cell, int, *value.Error) {
	v, refineSegs, err := ev.walkPath(pathCell, setValue)
	if err != nil {
		return value.Cell{}, index, err
	}
	if !v.IsFunction() {
		return v, index, nil
	}
	refinements := make(map[symbol.ID]bool, len(refineSegs))
	for _, s := range refineSegs {
		refinements[s] = true
	}
	label := pathCell.SeriesRef().Get(pathCell.Index()).Symbol()
	return ev.call(v, label, block, index, nil, refinements)
}

// resolvePathValue implements get-path: traversal without invocation.
func (ev *Evaluator) resolvePathValue(pathCell value.Cell) (value.Cell, []symbol.ID, *value.Error) {
	return ev.walkPath(pathCell, nil)
}

// setPathValue implements set-path: traverse to the final segment and
// store v there.
func (ev *Evaluator) setPathValue(pathCell value.Cell, v value.Cell) *value.Error {
	_, _, err := ev.walkPath(pathCell, &v)
	return err
}

// walkPath resolves every segment of a path up to either the end or a
// function value, at which point any remaining word segments are
// returned as refinement names rather than resolved further.
func (ev *Evaluator) walkPath(pathCell value.Cell, setValue *value.Cell) (value.Cell, []symbol.ID, *value.Error) {
	segs := pathCell.SeriesRef()
	start := pathCell.Index()
	if segs == nil || start >= segs.Len() {
		return value.Cell{}, nil, value.NewError(value.ErrBadPath, "empty path")
	}

	head := segs.Get(start)
	cur, err := ev.resolveHead(head)
	if err != nil {
		return value.Cell{}, nil, err
	}

	for i := start + 1; i < segs.Len(); i++ {
		if cur.IsFunction() {
			var refs []symbol.ID
			for j := i; j < segs.Len(); j++ {
				seg := segs.Get(j)
				if !seg.IsWord() {
					return value.Cell{}, nil, value.NewError(value.ErrBadPath, "refinement segment must be a word")
				}
				refs = append(refs, seg.Symbol())
			}
			return cur, refs, nil
		}

		seg := segs.Get(i)
		selector, err := ev.resolveSelector(seg)
		if err != nil {
			return value.Cell{}, nil, err
		}
		last := i == segs.Len()-1
		var sv *value.Cell
		if last {
			sv = setValue
		}
		cur, err = ev.indexInto(cur, selector, sv)
		if err != nil {
			return value.Cell{}, nil, err
		}
	}
	return cur, nil, nil
}

// resolveHead resolves a path's first segment: a word is looked up as
// an ordinary variable; anything else is used as a literal value (so
// a path can legally start on an already-reduced block/object cell).
func (ev *Evaluator) resolveHead(c value.Cell) (value.Cell, *value.Error) {
	if c.IsWord() {
		return frame.GetVar(c, ev.Call)
	}
	return c, nil
}

// resolveSelector turns one path segment into a selector value: a
// get-word dereferences, a paren evaluates, anything else is literal.
func (ev *Evaluator) resolveSelector(c value.Cell) (value.Cell, *value.Error) {
	switch c.Kind() {
	case value.TypeGetWord:
		return frame.GetVar(c, ev.Call)
	case value.TypeParen:
		v, _, err := ev.Do(c.SeriesRef(), 0, false, true)
		return v, err
	default:
		return c, nil
	}
}

// indexInto resolves one non-function path segment: integer indexing
// into series-class values, or word-keyed field access into frame!
// values. When sv is non-nil the segment is the path's final one and
// a set operation is performed instead of a get.
func (ev *Evaluator) indexInto(cur, selector value.Cell, sv *value.Cell) (value.Cell, *value.Error) {
	switch cur.Kind() {
	case value.TypeBlock, value.TypeParen:
		s := cur.SeriesRef()
		if selector.Kind() != value.TypeInteger {
			return value.Cell{}, value.NewError(value.ErrBadPath, "expected integer selector")
		}
		idx := cur.Index() + int(selector.IntValue()) - 1
		if sv != nil {
			if idx < 0 || idx >= s.Len() {
				return value.Cell{}, value.NewError(value.ErrRange, "path index out of range")
			}
			if err := s.Put(idx, *sv); err != nil {
				return value.Cell{}, value.NewError(value.ErrBadPath, "%v", err)
			}
			return *sv, nil
		}
		if idx < 0 || idx >= s.Len() {
			return value.None, nil
		}
		return s.Get(idx), nil

	case value.TypeString:
		s := cur.SeriesRef()
		if selector.Kind() != value.TypeInteger {
			return value.Cell{}, value.NewError(value.ErrBadPath, "expected integer selector")
		}
		idx := cur.Index() + int(selector.IntValue()) - 1
		if idx < 0 || idx >= s.Len() {
			if sv != nil {
				return value.Cell{}, value.NewError(value.ErrRange, "path index out of range")
			}
			return value.None, nil
		}
		if sv != nil {
			if sv.Kind() != value.TypeChar {
				return value.Cell{}, value.NewError(value.ErrBadPath, "expected char! for string path set")
			}
			_ = s.PutByte(idx, byte(sv.IntValue()))
			return *sv, nil
		}
		return value.Char(rune(s.GetByte(idx))), nil

	case value.TypeFrame:
		f := cur.AsFrame()
		if !selector.IsWord() {
			return value.Cell{}, value.NewError(value.ErrBadPath, "expected word selector for object")
		}
		slot := findSlot(ev.Symbols, f, selector.Symbol())
		if slot < 0 {
			return value.Cell{}, value.NewError(value.ErrBadPath, "word not found in object: %s", ev.Symbols.Name(selector.Symbol()))
		}
		if sv != nil {
			if f.SlotWord(slot).Locked() {
				return value.Cell{}, value.NewError(value.ErrLockedWord, "object field is locked")
			}
			_ = f.SetSlot(slot, *sv)
			return *sv, nil
		}
		return f.SlotValue(slot), nil

	default:
		return value.Cell{}, value.NewError(value.ErrBadPath, "value does not support path selection")
	}
}

func findSlot(tbl *symbol.Table, f *value.Frame, sym symbol.ID) int {
	canon := tbl.Canonical(sym)
	for i := 1; i < f.Len(); i++ {
		if tbl.Canonical(f.SlotWord(i).Symbol()) == canon {
			return i
		}
	}
	return -1
}
