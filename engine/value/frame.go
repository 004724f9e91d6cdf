/*
 * rebolcore - Frame, call frame, and function representation
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

// FrameKind distinguishes objects/modules (persistent, reached by a
// positive slot index) from function argument frames (stack-relative,
// reached by a negative index resolved against the live call chain).
type FrameKind uint8

const (
	FramePersistent FrameKind = iota
	FrameStackRelative
)

// SelfSymbol and NoNameSymbol are the two possible slot-0 markers for
// a frame's word series (§3.4). They are assigned real symbol ids by
// the symbol table at boot; zero here just means "not yet assigned".
var (
	SelfSymbol   ID
	NoNameSymbol ID
)

// Frame is a lexical environment: two parallel array series, a word
// list naming each slot (slot 0 is the self-descriptor) and a value
// list holding the current contents of each slot.
type Frame struct {
	Words  *Series // KindArray of typed-word cells
	Values *Series // KindArray of cells, same length as Words
	Kind   FrameKind
}

// NewFrame allocates an empty frame of the given kind with just the
// self-descriptor slot filled in.
func (a *Arena) NewFrame(kind FrameKind, self bool) *Frame {
	f := &Frame{Kind: kind}
	f.Words = a.NewArray(4, 0)
	f.Values = a.NewArray(4, 0)
	sym := NoNameSymbol
	if self {
		sym = SelfSymbol
	}
	_ = a.AppendArray(f.Words, TypedWord(sym, 0))
	_ = a.AppendArray(f.Values, Unset)
	return f
}

// Len reports the number of slots, including slot 0.
func (f *Frame) Len() int { return f.Words.Len() }

// SlotWord returns the typed-word cell naming slot i.
func (f *Frame) SlotWord(i int) Cell { return f.Words.Get(i) }

// SlotValue returns the current value in slot i.
func (f *Frame) SlotValue(i int) Cell { return f.Values.Get(i) }

// SetSlot overwrites slot i's value, respecting the lock bit on that
// slot's word entry (checked by the caller per §4.6 GetVar/SetVar).
func (f *Frame) SetSlot(i int, c Cell) error { return f.Values.Put(i, c) }

// Extend appends a new slot named sym and returns its index.
func (a *Arena) Extend(f *Frame, sym ID, types uint64) int {
	idx := f.Words.Len()
	_ = a.AppendArray(f.Words, TypedWord(sym, types))
	_ = a.AppendArray(f.Values, Unset)
	return idx
}

// ExtendMode is Extend's counterpart for parameter-spec frames, where
// the slot's binding mode (plain/lit-word/get-word/refinement) matters
// as well as its typeset; ordinary object/module frames never need it.
func (a *Arena) ExtendMode(f *Frame, sym ID, types uint64, mode ParamMode) int {
	idx := f.Words.Len()
	_ = a.AppendArray(f.Words, TypedWordMode(sym, types, mode))
	_ = a.AppendArray(f.Values, Unset)
	return idx
}

// NativeFunc is the signature for Go-implemented functions registered
// into the evaluator at boot (§4.9). It receives already-bound
// argument values in parameter order.
type NativeFunc func(args []Cell) (Cell, *Error)

// FuncDef is the shared representation behind function!, native!, and
// the closure-tagged kinds: a spec block (documentation/typesets), an
// argument word-list frame used as the binding template, and either a
// Rebol body block or a native closure.
type FuncDef struct {
	Spec    *Series // parameter spec block, for HELP and reflection
	Args    *Frame  // word list names parameters; Values unused as a template
	Body    *Series // nil for natives
	Native  NativeFunc
	Closure bool // deep-copy and rebind Body fresh on every call
}

func FunctionValue(def *FuncDef) Cell {
	kind := TypeFunction
	if def.Native != nil {
		kind = TypeNative
	} else if def.Closure {
		kind = TypeClosure
	}
	return Cell{kind: kind, fn: def}
}

func (c Cell) FuncDef() *FuncDef { return c.fn }

// CallFrame is one link in the live call chain (§3.5). Call frames
// form a singly linked list rooted at the task's "current call".
type CallFrame struct {
	Func       Cell
	Label      ID
	Out        *Cell
	Block      *Series
	BlockIndex int
	Args       *Frame // the argument frame being bound, stack-relative
	ArgCount   int
	Ready      bool // true once every argument is bound, before the body runs
	Prior      *CallFrame
}
