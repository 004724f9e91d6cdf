/*
 * rebolcore - Series memory subsystem
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

package value

import (
	"errors"
	"fmt"

	"github.com/rebolcore/rebolcore/engine/pool"
)

// Kind distinguishes the four storage shapes a series can take.
type Kind uint8

const (
	KindArray Kind = iota // element width = cell size; GC recurses
	KindByte              // width 1: Latin-1 strings, binaries
	KindWide              // width 2: Unicode strings
	KindRaw               // other width: hash index arrays, raw records
)

// Flags carried in the series header.
type Flags uint16

const (
	FlagExternal  Flags = 1 << iota // caller-owned payload, never freed by the pool
	FlagLocked                      // capacity frozen, cannot reallocate
	FlagProtected                   // writes rejected
	FlagManaged                     // owned by the GC, no longer on the manuals list
	FlagMarked                      // set during GC mark phase
	FlagPowerOfTwo                  // system allocations round to a power of two
	FlagKept                        // held by the keep-list (root-equivalent), never swept
)

// Series is the typed, resizable, head-biased array that backs every
// block, string, binary, path, word-list, and frame value-list in the
// engine (spec §3.2, §4.2). Exactly one of arr/byt/wide/raw is valid,
// selected by kind.
//
// Only the byte-scalar payload is literally backed by a pool.Node;
// the wide/raw/array payloads use native Go slices so that growth
// goes through append's own amortized doubling instead of duplicating
// unsafe byte-slicing for every element width. See DESIGN.md for the
// reasoning -- Go's slice already gives safe bulk reallocation, so
// reproducing the C engine's manual realloc path for every width
// would just be ceremony around the same growth curve.
type Series struct {
	kind  Kind
	flags Flags

	bias int // unused prefix capacity
	tail int // logical length ("tail")
	rest int // reserved capacity ("rest"), not counting bias

	arr  []Cell
	byt  *pool.Node
	bytN int // logical byte capacity of byt, for Put accounting
	wide []uint16
	raw  []uint32

	header *pool.Node // the series header's own pool-provided node

	manual      bool
	manualNext  *Series // singly linked manuals list
	managedNext *Series // singly linked list of all GC-managed series
}

// Arena owns the allocator, the manuals list, and the ballast counter
// that drives GC triggering (spec §4.3, §9 "global mutable
// singletons" design note: threaded explicitly rather than global,
// so tests can build parallel engines).
type Arena struct {
	Alloc        *pool.Allocator
	manualsHead  *Series
	managedHead  *Series
	Ballast      int64
	ballastInit  int64
}

const defaultBallast = 1 << 20 // 1 MiB between GC triggers, tunable

// NewArena creates an allocation arena with its own pool allocator.
func NewArena(alloc *pool.Allocator) *Arena {
	return &Arena{Alloc: alloc, Ballast: defaultBallast, ballastInit: defaultBallast}
}

func (a *Arena) charge(n int) {
	a.Ballast -= int64(n)
}

// NeedsCollection reports whether the ballast has crossed zero and
// the evaluator's next signal check should run a collection.
func (a *Arena) NeedsCollection() bool { return a.Ballast <= 0 }

// Recharge resets the ballast after a collection.
func (a *Arena) Recharge() { a.Ballast = a.ballastInit }

func headerBytes() int { return 64 }

func init() {
	pool.SetHeaderUnit(headerBytes(), 32)
}

// NewArray allocates a manual array-of-values series with room for
// length elements. Per I2, a freshly made series has tail 0 and its
// single End sentinel in slot 0.
func (a *Arena) NewArray(length int, flags Flags) *Series {
	s := &Series{kind: KindArray, flags: flags, manual: true, rest: length}
	s.arr = make([]Cell, 1, length+1)
	s.arr[0] = End
	s.header = a.Alloc.MakeNode(pool.SeriesHeader)
	a.charge(headerBytes() + length*cellSize)
	a.link(s)
	return s
}

// NewByteString allocates a manual width-1 series (Latin-1 string or
// binary), backed by a literal pool node.
func (a *Arena) NewByteString(length int, flags Flags) *Series {
	s := &Series{kind: KindByte, flags: flags, manual: true, rest: length}
	if length == 0 {
		length = 1
	}
	s.byt = a.Alloc.Get(length, flags&FlagPowerOfTwo != 0)
	s.bytN = len(s.byt.Bytes())
	s.header = a.Alloc.MakeNode(pool.SeriesHeader)
	a.charge(headerBytes() + s.bytN)
	a.link(s)
	return s
}

// NewByteStringFrom allocates a manual width-1 series pre-filled with
// data, used by the scanner to materialise string! literals in one
// step instead of growing a zero-length series byte by byte.
func (a *Arena) NewByteStringFrom(data []byte) *Series {
	s := a.NewByteString(len(data), 0)
	for i, b := range data {
		_ = s.PutByte(i, b)
	}
	s.tail = len(data)
	return s
}

// NewWideString allocates a manual width-2 series (Unicode string).
func (a *Arena) NewWideString(length int, flags Flags) *Series {
	s := &Series{kind: KindWide, flags: flags, manual: true, rest: length}
	s.wide = make([]uint16, length)
	s.header = a.Alloc.MakeNode(pool.SeriesHeader)
	a.charge(headerBytes() + length*2)
	a.link(s)
	return s
}

// NewRaw allocates a manual other-width series (hash index, record slots).
func (a *Arena) NewRaw(length int, flags Flags) *Series {
	s := &Series{kind: KindRaw, flags: flags, manual: true, rest: length}
	s.raw = make([]uint32, length)
	s.header = a.Alloc.MakeNode(pool.SeriesHeader)
	a.charge(headerBytes() + length*4)
	a.link(s)
	return s
}

const cellSize = 32 // bytes per cell on a 64-bit host, per spec §3.1

func (a *Arena) link(s *Series) {
	s.manualNext = a.manualsHead
	a.manualsHead = s
}

func (a *Arena) unlink(s *Series) {
	if a.manualsHead == s {
		a.manualsHead = s.manualNext
		s.manualNext = nil
		return
	}
	for p := a.manualsHead; p != nil; p = p.manualNext {
		if p.manualNext == s {
			p.manualNext = s.manualNext
			s.manualNext = nil
			return
		}
	}
}

// ManualsHead exposes the manuals list head for inspection; it does
// not mutate the list.
func (a *Arena) ManualsHead() *Series { return a.manualsHead }

// Manage transitions s from manual to GC-managed, per the
// manual-then-managed handoff design note (§9). Once managed, a
// series is never unmanaged again.
func (a *Arena) Manage(s *Series) {
	if s.flags&FlagManaged != 0 {
		return
	}
	a.unlink(s)
	s.flags |= FlagManaged
	s.manual = false
	s.managedNext = a.managedHead
	a.managedHead = s
}

// ManagedHead exposes the managed-series list head for the GC
// package's sweep phase.
func (a *Arena) ManagedHead() *Series { return a.managedHead }

// unlinkManaged removes s from the managed list during sweep, when s
// was found unreachable and is being reclaimed.
func (a *Arena) unlinkManaged(s *Series) {
	if a.managedHead == s {
		a.managedHead = s.managedNext
		s.managedNext = nil
		return
	}
	for p := a.managedHead; p != nil; p = p.managedNext {
		if p.managedNext == s {
			p.managedNext = s.managedNext
			s.managedNext = nil
			return
		}
	}
}

// ManagedNext exposes the managed-list link for sweep traversal.
func (s *Series) ManagedNext() *Series { return s.managedNext }

// UnlinkManaged is called by the GC package when s is confirmed
// unreachable and about to be reclaimed.
func (a *Arena) UnlinkManaged(s *Series) { a.unlinkManaged(s) }

// ReclaimPayload returns s's payload to the allocator, bypassing the
// manual/managed checks FreeSeries enforces -- used only by the GC
// sweep phase, which already knows s is unreachable.
func (a *Arena) ReclaimPayload(s *Series) {
	if s.kind == KindByte && s.flags&FlagExternal == 0 {
		a.Alloc.Put(s.byt, s.bytN)
	}
	a.Alloc.FreeNode(pool.SeriesHeader, s.header)
}

func (s *Series) Kind() Kind       { return s.kind }
func (s *Series) Len() int         { return s.tail }
func (s *Series) Cap() int         { return s.rest }
func (s *Series) Bias() int        { return s.bias }
func (s *Series) Managed() bool    { return s.flags&FlagManaged != 0 }
func (s *Series) Manual() bool     { return s.manual }
func (s *Series) Locked() bool     { return s.flags&FlagLocked != 0 }
func (s *Series) Protected() bool  { return s.flags&FlagProtected != 0 }
func (s *Series) External() bool   { return s.flags&FlagExternal != 0 }
func (s *Series) Kept() bool       { return s.flags&FlagKept != 0 }
func (s *Series) Marked() bool     { return s.flags&FlagMarked != 0 }
func (s *Series) SetMarked(b bool) {
	if b {
		s.flags |= FlagMarked
	} else {
		s.flags &^= FlagMarked
	}
}
func (s *Series) SetKept(b bool) {
	if b {
		s.flags |= FlagKept
	} else {
		s.flags &^= FlagKept
	}
}

var ErrLocked = errors.New("series: locked")
var ErrProtected = errors.New("series: protected")
var ErrNotManual = errors.New("series: not manual")
var ErrManaged = errors.New("series: cannot free a managed series")

// Get returns the array element at i (0 <= i <= tail; i == tail
// yields the End sentinel per I2).
func (s *Series) Get(i int) Cell {
	if s.kind != KindArray {
		panic("series: Get on non-array series")
	}
	if i < 0 || i > s.tail {
		return End
	}
	return s.arr[s.bias+i]
}

// Put overwrites the array element at i (must be < tail; the End
// slot itself is never overwritten through Put).
func (s *Series) Put(i int, c Cell) error {
	if s.kind != KindArray {
		panic("series: Put on non-array series")
	}
	if s.Protected() {
		return ErrProtected
	}
	if i < 0 || i >= s.tail {
		return fmt.Errorf("series: Put index %d out of range (tail=%d)", i, s.tail)
	}
	s.arr[s.bias+i] = c
	return nil
}

// GetByte/PutByte access a width-1 series; GetWide/PutWide a width-2.
func (s *Series) GetByte(i int) byte {
	return s.byt.Bytes()[s.bias+i]
}

func (s *Series) PutByte(i int, b byte) error {
	if s.Protected() {
		return ErrProtected
	}
	s.byt.Bytes()[s.bias+i] = b
	return nil
}

func (s *Series) GetWide(i int) uint16 { return s.wide[s.bias+i] }
func (s *Series) PutWide(i int, w uint16) error {
	if s.Protected() {
		return ErrProtected
	}
	s.wide[s.bias+i] = w
	return nil
}

// AppendArray inserts c at the tail, maintaining the End sentinel
// invariant (I2, I6).
func (a *Arena) AppendArray(s *Series, c Cell) error {
	return a.InsertArray(s, s.tail, []Cell{c})
}

// InsertArray implements ExpandSeries for array series: insert vals
// at index, sliding the tail portion and growing (with amortized
// doubling for series that were recently expanded) when capacity is
// short.
func (a *Arena) InsertArray(s *Series, index int, vals []Cell) error {
	if s.kind != KindArray {
		panic("series: InsertArray on non-array series")
	}
	if s.Locked() {
		return ErrLocked
	}
	if s.Protected() {
		return ErrProtected
	}
	delta := len(vals)
	if delta == 0 {
		return nil
	}
	if index < 0 || index > s.tail {
		return fmt.Errorf("series: insert index %d out of range (tail=%d)", index, s.tail)
	}

	// Fast path: prepend with spare head-bias, per §4.2.
	if index == 0 && s.bias >= delta {
		s.bias -= delta
		copy(s.arr[s.bias:s.bias+delta], vals)
		s.tail += delta
		a.charge(delta * cellSize)
		return nil
	}

	needed := s.bias + s.tail + delta + 1 // +1 keeps the End slot
	if needed > s.bias+s.rest+1 {
		grow := delta
		if recentlyExpanded(s) {
			grow = (s.tail + delta) // double relative to current content
		}
		newCap := s.bias + s.tail + grow + 1
		grown := make([]Cell, s.bias+s.tail+1, newCap)
		copy(grown, s.arr)
		s.arr = grown
		s.rest = cap(s.arr) - s.bias - 1
		a.charge((cap(s.arr) - len(s.arr)) * cellSize)
	}
	markExpanded(s)

	abs := s.bias + index
	tailLen := s.bias + s.tail + 1 - abs // includes the End slot
	s.arr = s.arr[:s.bias+s.tail+1+delta]
	copy(s.arr[abs+delta:abs+delta+tailLen], s.arr[abs:abs+tailLen])
	copy(s.arr[abs:abs+delta], vals)
	s.tail += delta
	a.charge(delta * cellSize)
	return nil
}

// expandCache is the small process-wide LRU of recently expanded series
// causing consecutive expansions of the same series to double rather
// than grow incrementally (§4.2 amortisation rule).
var expandCache [4]*Series

func recentlyExpanded(s *Series) bool {
	for _, e := range expandCache {
		if e == s {
			return true
		}
	}
	return false
}

func markExpanded(s *Series) {
	copy(expandCache[1:], expandCache[:len(expandCache)-1])
	expandCache[0] = s
}

// RemoveArray deletes count elements at index, sliding the remainder
// left and preserving the End sentinel.
func (a *Arena) RemoveArray(s *Series, index, count int) error {
	if s.kind != KindArray {
		panic("series: RemoveArray on non-array series")
	}
	if s.Locked() || s.Protected() {
		return ErrProtected
	}
	if index < 0 || count < 0 || index+count > s.tail {
		return fmt.Errorf("series: remove range [%d,%d) out of bounds (tail=%d)", index, index+count, s.tail)
	}
	abs := s.bias + index
	tailLen := s.bias + s.tail + 1 - (abs + count)
	copy(s.arr[abs:abs+tailLen], s.arr[abs+count:abs+count+tailLen])
	s.arr = s.arr[:s.bias+s.tail+1-count]
	s.tail -= count
	return nil
}

// WidenString reallocates a width-1 string as width-2, used when a
// byte-sized string is about to receive a code point >= 256.
func (a *Arena) WidenString(s *Series) *Series {
	if s.kind != KindByte {
		panic("series: WidenString on non-byte series")
	}
	w := a.NewWideString(s.tail, s.flags&^FlagManaged)
	for i := 0; i < s.tail; i++ {
		w.wide[i] = uint16(s.GetByte(i))
	}
	w.tail = s.tail
	if s.flags&FlagManaged != 0 {
		a.Manage(w)
	}
	return w
}

// FreeSeries releases s back to the pool. s MUST be manual; freeing a
// managed series is a programmer error (I7, §4.2).
func (a *Arena) FreeSeries(s *Series) error {
	if s.flags&FlagManaged != 0 {
		return ErrManaged
	}
	if !s.manual {
		return ErrNotManual
	}
	a.unlink(s)
	switch s.kind {
	case KindByte:
		if s.flags&FlagExternal == 0 {
			a.Alloc.Put(s.byt, s.bytN)
		}
	case KindArray, KindWide, KindRaw:
		// Native-slice payloads are reclaimed by the Go GC once
		// unreferenced; only the header node round-trips the pool.
	}
	a.Alloc.FreeNode(pool.SeriesHeader, s.header)
	return nil
}

// DeepCopy produces an independent copy of an array series, recursing
// into nested block/string values when deep is true. Used by closure
// invocation (§4.8); the `copy` native calls it with deep false.
func (a *Arena) DeepCopy(s *Series, deep bool) *Series {
	if s.kind != KindArray {
		cp := a.shallowCopyScalar(s)
		return cp
	}
	out := a.NewArray(s.tail, 0)
	for i := 0; i < s.tail; i++ {
		c := s.Get(i)
		if deep && c.IsSeries() && c.SeriesRef() != nil && c.Kind() != TypeFunction {
			child := a.DeepCopy(c.SeriesRef(), deep)
			c = c.WithIndex(c.Index())
			c.ser = child
		}
		_ = a.AppendArray(out, c)
	}
	return out
}

func (a *Arena) shallowCopyScalar(s *Series) *Series {
	switch s.kind {
	case KindByte:
		out := a.NewByteString(s.tail, 0)
		for i := 0; i < s.tail; i++ {
			_ = out.PutByte(i, s.GetByte(i))
		}
		out.tail = s.tail
		return out
	case KindWide:
		out := a.NewWideString(s.tail, 0)
		copy(out.wide[out.bias:out.bias+s.tail], s.wide[s.bias:s.bias+s.tail])
		out.tail = s.tail
		return out
	default:
		out := a.NewRaw(s.tail, 0)
		copy(out.raw, s.raw)
		out.tail = s.tail
		return out
	}
}
