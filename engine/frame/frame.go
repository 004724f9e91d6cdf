/*
 * rebolcore - Variable lookup and binding passes
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

// Package frame implements variable resolution and the binding passes
// that attach words to frame slots (spec §4.6): GetVar/SetVar lookup,
// the preload/walk/restore binding algorithm (both absolute and
// function-relative), and word collection for spec/body scanning.
package frame

import (
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// GetVar resolves word's binding and returns its current value.
// Slot-index sign selects the resolution strategy (§4.6):
//
//	> 0 : direct slot in word.BindFrame's value series
//	< 0 : stack-relative, resolved against the live call chain
//	= 0 : the self reference, which has no direct value
func GetVar(word value.Cell, chain *value.CallFrame) (value.Cell, *value.Error) {
	bf := word.BindFrame()
	if bf == nil {
		return value.Cell{}, value.NewError(value.ErrNotDefined, "word is not bound")
	}
	idx := word.BindIndex()
	switch {
	case idx > 0:
		return bf.SlotValue(int(idx)), nil
	case idx < 0:
		cf := findRelativeCall(bf, chain)
		if cf == nil {
			return value.Cell{}, value.NewError(value.ErrNoRelative, "no live call owns this argument")
		}
		return cf.Args.SlotValue(int(-idx)), nil
	default:
		return value.Cell{}, value.NewError(value.ErrNotDefined, "self reference has no direct value")
	}
}

// SetVar resolves word's binding and overwrites the slot with v.
func SetVar(word value.Cell, v value.Cell, chain *value.CallFrame) *value.Error {
	bf := word.BindFrame()
	if bf == nil {
		return value.NewError(value.ErrNotDefined, "word is not bound")
	}
	idx := word.BindIndex()
	if idx == 0 {
		return value.NewError(value.ErrSelfProtected, "cannot set self reference")
	}
	if idx > 0 {
		if bf.SlotWord(int(idx)).Locked() {
			return value.NewError(value.ErrLockedWord, "word is locked")
		}
		if err := bf.SetSlot(int(idx), v); err != nil {
			return value.NewError(value.ErrLockedWord, "%v", err)
		}
		return nil
	}
	cf := findRelativeCall(bf, chain)
	if cf == nil {
		return value.NewError(value.ErrNoRelative, "no live call owns this argument")
	}
	slot := int(-idx)
	if cf.Args.SlotWord(slot).Locked() {
		return value.NewError(value.ErrLockedWord, "word is locked")
	}
	if err := cf.Args.SetSlot(slot, v); err != nil {
		return value.NewError(value.ErrLockedWord, "%v", err)
	}
	return nil
}

// findRelativeCall walks the live call chain from the innermost call
// looking for the live call whose arguments are ready and whose
// word-list series is the same one bf's body was bound against. Each
// invocation gets a fresh Args frame (fresh Values, recursion-safe)
// but all share the one persistent Words series recorded on the
// function at definition time, so identity of Words -- not of the
// whole Frame -- is what "the same word list" means here.
func findRelativeCall(bf *value.Frame, chain *value.CallFrame) *value.CallFrame {
	for cf := chain; cf != nil; cf = cf.Prior {
		if cf.Args != nil && cf.Args.Words == bf.Words && cf.Ready {
			return cf
		}
	}
	return nil
}

// bindTable is the transient scratch space used during a binding pass
// (§4.6 step 1-3). Bind and BindRelative each make a fresh table for
// their own pass and clear it on every exit path (via defer), so no
// table holds entries outside an active pass.
type bindTable struct {
	entries map[symbol.ID]int32
}

func newBindTable() *bindTable { return &bindTable{entries: make(map[symbol.ID]int32)} }

// Bind attaches words in values (optionally recursing into nested
// blocks, and optionally extending f with new set-words) to slots of
// f, using positive (absolute) slot indices. It returns the number of
// words rewritten.
func Bind(a *value.Arena, f *value.Frame, tbl *symbol.Table, values *value.Series, deep, extendSet bool) int {
	bt := newBindTable()
	preload(f, tbl, bt, 1)
	defer restore(f, tbl, bt)

	return walk(a, f, tbl, bt, values, deep, extendSet, 1)
}

// BindRelative is Bind's counterpart for function bodies: slot indices
// are written negated, per §4.6's "relative binding" rule, so a bound
// word in the body resolves against whichever live call currently owns
// args, rather than a single persistent frame.
func BindRelative(a *value.Arena, args *value.Frame, tbl *symbol.Table, body *value.Series, deep bool) int {
	bt := newBindTable()
	preload(args, tbl, bt, -1)
	defer restore(args, tbl, bt)

	return walk(a, args, tbl, bt, body, deep, false, -1)
}

// preload fills bt with each of f's slot words, skipping the
// self-descriptor at slot 0. sign is +1 for absolute binding, -1 for
// relative (function-body) binding.
func preload(f *value.Frame, tbl *symbol.Table, bt *bindTable, sign int32) {
	for i := 1; i < f.Len(); i++ {
		sym := f.SlotWord(i).Symbol()
		canon := tbl.Canonical(sym)
		if canon == symbol.None {
			continue
		}
		bt.entries[canon] = sign * int32(i)
	}
}

// restore clears bt's entries so the invariant "bind table is
// all-zero outside a binding pass" holds on every exit path.
func restore(f *value.Frame, tbl *symbol.Table, bt *bindTable) {
	for k := range bt.entries {
		delete(bt.entries, k)
	}
}

func walk(a *value.Arena, f *value.Frame, tbl *symbol.Table, bt *bindTable, values *value.Series, deep, extendSet bool, sign int32) int {
	count := 0
	for i := 0; i < values.Len(); i++ {
		c := values.Get(i)
		if c.IsWord() {
			canon := tbl.Canonical(c.Symbol())
			idx, ok := bt.entries[canon]
			if !ok && extendSet && c.Kind() == value.TypeSetWord {
				newIdx := a.Extend(f, c.Symbol(), 0)
				idx = sign * int32(newIdx)
				bt.entries[canon] = idx
				ok = true
			}
			if ok {
				_ = values.Put(i, c.Bind(f, idx))
				count++
			}
			continue
		}
		if deep && c.IsSeries() && c.Kind() != value.TypeString && c.Kind() != value.TypeBinary {
			if sub := c.SeriesRef(); sub != nil {
				count += walk(a, f, tbl, bt, sub, deep, extendSet, sign)
			}
		}
	}
	return count
}

// CollectMode selects which words CollectWords gathers from a value
// sequence (§4.6).
type CollectMode uint8

const (
	CollectAll CollectMode = iota
	CollectSetWordsOnly
)

// collectScratch is the single process-wide scratch buffer
// CollectWords grows into; reentrancy MUST be rejected, since two
// concurrent collections would corrupt each other's in-progress list.
var collectScratch struct {
	busy  bool
	names map[symbol.ID]bool
}

// CollectWords scans one or more value sequences and produces a word
// list frame. If no new words appear beyond prior, prior is returned
// unchanged; otherwise a fresh frame is built. addSelf controls
// whether slot 0 is the self descriptor (true) or the anonymous
// no-name marker (false).
func CollectWords(a *value.Arena, tbl *symbol.Table, prior *value.Frame, sequences []*value.Series, mode CollectMode, deep, addSelf bool) (*value.Frame, error) {
	if collectScratch.busy {
		panic("frame: nested CollectWords call")
	}
	collectScratch.busy = true
	collectScratch.names = make(map[symbol.ID]bool)
	defer func() { collectScratch.busy = false }()

	if prior != nil {
		for i := 1; i < prior.Len(); i++ {
			collectScratch.names[tbl.Canonical(prior.SlotWord(i).Symbol())] = true
		}
	}

	var order []symbol.ID
	seen := map[symbol.ID]bool{}
	seenSet := map[symbol.ID]bool{}
	var scan func(s *value.Series) error
	scan = func(s *value.Series) error {
		for i := 0; i < s.Len(); i++ {
			c := s.Get(i)
			if c.IsWord() {
				if mode == CollectSetWordsOnly && c.Kind() != value.TypeSetWord {
					continue
				}
				canon := tbl.Canonical(c.Symbol())
				if c.Kind() == value.TypeSetWord {
					if seenSet[canon] {
						return value.NewError(value.ErrDupVars, "duplicate variable: %s", tbl.Name(c.Symbol()))
					}
					seenSet[canon] = true
				}
				if seen[canon] {
					continue
				}
				seen[canon] = true
				if !collectScratch.names[canon] {
					order = append(order, c.Symbol())
				}
				continue
			}
			if deep && c.IsSeries() && c.Kind() != value.TypeString && c.Kind() != value.TypeBinary {
				if sub := c.SeriesRef(); sub != nil {
					if err := scan(sub); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	for _, s := range sequences {
		if s == nil {
			continue
		}
		if err := scan(s); err != nil {
			return nil, err
		}
	}

	if len(order) == 0 {
		if prior != nil {
			return prior, nil
		}
		return a.NewFrame(value.FramePersistent, addSelf), nil
	}

	out := a.NewFrame(value.FramePersistent, addSelf)
	if prior != nil {
		for i := 1; i < prior.Len(); i++ {
			_ = a.Extend(out, prior.SlotWord(i).Symbol(), prior.SlotWord(i).Typeset())
		}
	}
	for _, sym := range order {
		_ = a.Extend(out, sym, 0)
	}
	return out, nil
}
