/*
 * rebolcore - Tagged value cell
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

// Package value implements the tagged value cell and the series
// memory it references (spec §3.1, §3.2, §4.2, §4.5). The two are
// mutually recursive -- every cell may reference a series, and every
// array series holds cells -- so, like the reference engines this
// core is patterned on keep their value and GC-object representation
// in one translation unit, they live in one Go package rather than
// two that would import each other.
package value

import "github.com/rebolcore/rebolcore/engine/symbol"

// Type is the 8-bit type discriminant carried by every cell.
type Type uint8

const (
	TypeEnd Type = iota
	TypeUnset
	TypeNone
	TypeLogic
	TypeInteger
	TypeDecimal
	TypePercent
	TypeChar
	TypePair
	TypeTime
	TypeTuple
	TypeMoney
	TypeDate
	TypeWord
	TypeSetWord
	TypeGetWord
	TypeLitWord
	TypeRefinement
	TypeIssue
	TypeTypedWord // replaces binding with a typeset
	TypeTypeset
	TypeDatatype
	TypeBlock
	TypeParen
	TypePath
	TypeSetPath
	TypeGetPath
	TypeLitPath
	TypeString
	TypeBinary
	TypeFunction
	TypeNative
	TypeClosure
	TypeFrame
	TypeHandle
	TypeError
	numTypes
)

// Option bits carried alongside the type tag.
type Options uint8

const (
	OptLineStart Options = 1 << iota
	OptInfix
	OptRedo
	OptHide
	OptLock
	OptThrown // control-flow escape: return/break/continue/throw/quit/exit
)

// Cell is the fixed-size tagged value. Assignment of one cell to
// another is a plain struct copy -- there is no per-variant clone;
// deep copies are explicit (see Series.DeepCopy).
type Cell struct {
	kind Type
	opts Options

	// Inline payloads. Only the field(s) relevant to kind are valid;
	// the rest are don't-care, matching the C union this cell mimics.
	i    int64       // integer, char (codepoint), time/date/tuple bit fields
	f    float64     // decimal, percent
	pair [2]int32    // pair, money low/high halves

	sym ID // word-class symbol id (0 if not a word)

	// bindFrame/bindIndex: word binding, per §4.6. A positive index
	// is a direct slot in bindFrame's value series; a negative index
	// is a stack-relative argument slot resolved via the live call
	// chain; zero means "this word is frame's own self reference".
	bindFrame *Frame
	bindIndex int32

	typeset uint64 // typed-word bitset, or typeset! value
	mode    uint8  // typed-word parameter mode (see ParamMode)

	ser *Series // series-based payload: block/string/binary/path/function body
	idx int     // index into ser

	handle uintptr // opaque handle payload (function pointer slot id, etc.)
	errRef *Error  // error-class payload
	fn     *FuncDef
	frm    *Frame // frame! / object reference payload
}

// ID re-exports symbol.ID so callers of this package don't need a
// second import for the common case of naming a word.
type ID = symbol.ID

// Kind returns the cell's type discriminant.
func (c Cell) Kind() Type { return c.kind }

// Thrown reports whether this cell represents an unwinding
// control-flow transfer rather than a data value (§4.5).
func (c Cell) Thrown() bool { return c.opts&OptThrown != 0 }

// SetThrown returns a copy of c with the thrown flag set or cleared.
func (c Cell) SetThrown(thrown bool) Cell {
	if thrown {
		c.opts |= OptThrown
	} else {
		c.opts &^= OptThrown
	}
	return c
}

// Infix reports whether this function-kind cell is marked infix.
func (c Cell) Infix() bool { return c.opts&OptInfix != 0 }

// SetInfix marks/unmarks a function-kind cell as infix.
func (c Cell) SetInfix(infix bool) Cell {
	if infix {
		c.opts |= OptInfix
	} else {
		c.opts &^= OptInfix
	}
	return c
}

// LineStart/SetLineStart track whether this value began a new source
// line, used by formatting and by the evaluator's debug dumps.
func (c Cell) LineStart() bool    { return c.opts&OptLineStart != 0 }
func (c Cell) SetLineStart() Cell { c.opts |= OptLineStart; return c }

// Locked reports whether a word's binding slot was declared with a
// protect/lock modifier.
func (c Cell) Locked() bool { return c.opts&OptLock != 0 }

// -- Constructors for the terminal/inline variants --

// End is the distinguished terminal value. It MUST NOT appear
// mid-series; its presence at an index denotes the logical end.
var End = Cell{kind: TypeEnd}

// Unset is a distinct type, not an absence of value.
var Unset = Cell{kind: TypeUnset}

// None is the none! value.
var None = Cell{kind: TypeNone}

func Logic(b bool) Cell {
	var i int64
	if b {
		i = 1
	}
	return Cell{kind: TypeLogic, i: i}
}

func Integer(n int64) Cell { return Cell{kind: TypeInteger, i: n} }
func Decimal(f float64) Cell { return Cell{kind: TypeDecimal, f: f} }
func Percent(f float64) Cell { return Cell{kind: TypePercent, f: f} }
func Char(r rune) Cell       { return Cell{kind: TypeChar, i: int64(r)} }

// IntValue returns the integer magnitude carried by an integer! or
// char! cell (the latter holds its codepoint in the same field).
func (c Cell) IntValue() int64 { return c.i }

// FloatValue returns the float magnitude carried by a decimal! or
// percent! cell.
func (c Cell) FloatValue() float64 { return c.f }

func Pair(x, y int32) Cell { return Cell{kind: TypePair, pair: [2]int32{x, y}} }

// -- Predicates --

func (c Cell) IsEnd() bool    { return c.kind == TypeEnd }
func (c Cell) IsUnset() bool  { return c.kind == TypeUnset }
func (c Cell) IsNone() bool   { return c.kind == TypeNone }
func (c Cell) IsWord() bool {
	switch c.kind {
	case TypeWord, TypeSetWord, TypeGetWord, TypeLitWord, TypeRefinement, TypeIssue, TypeTypedWord:
		return true
	}
	return false
}
func (c Cell) IsPath() bool {
	switch c.kind {
	case TypePath, TypeSetPath, TypeGetPath, TypeLitPath:
		return true
	}
	return false
}
func (c Cell) IsSeries() bool {
	switch c.kind {
	case TypeBlock, TypeParen, TypePath, TypeSetPath, TypeGetPath, TypeLitPath, TypeString, TypeBinary:
		return true
	}
	return false
}
func (c Cell) IsFunction() bool {
	switch c.kind {
	case TypeFunction, TypeNative, TypeClosure:
		return true
	}
	return false
}

// Truthy implements Rebol's two-value falsehood rule: only none! and
// logic false are falsy; everything else, including 0 and "", is truthy.
func (c Cell) Truthy() bool {
	if c.kind == TypeNone {
		return false
	}
	if c.kind == TypeLogic {
		return c.i != 0
	}
	return true
}

// -- Word-class cells --

// Word builds an unbound word! cell for the given symbol.
func Word(kind Type, sym ID) Cell {
	return Cell{kind: kind, sym: sym, bindIndex: 0}
}

// Symbol returns the word's interned symbol id, or symbol.None if c
// is not word-class.
func (c Cell) Symbol() ID {
	if !c.IsWord() {
		return symbol.None
	}
	return c.sym
}

// Bind attaches a frame/slot binding to a word cell. index 0 means
// "this is the frame's self reference"; positive indexes a direct
// frame slot; negative indexes a stack-relative argument slot.
func (c Cell) Bind(frame *Frame, index int32) Cell {
	c.bindFrame = frame
	c.bindIndex = index
	return c
}

func (c Cell) BindFrame() *Frame { return c.bindFrame }
func (c Cell) BindIndex() int32  { return c.bindIndex }
func (c Cell) Bound() bool       { return c.bindFrame != nil }

// TypedWord builds a typed-word cell: a parameter-position word whose
// binding field is replaced by an accepted-type bitset.
func TypedWord(sym ID, types uint64) Cell {
	return Cell{kind: TypeTypedWord, sym: sym, typeset: types}
}

// ParamMode distinguishes the five ways a function parameter consumes
// its argument (§4.7 Do_Args).
type ParamMode uint8

const (
	ParamPlain      ParamMode = iota // evaluate the next expression
	ParamLitWord                     // take literally, soft-quote on paren/get-word/get-path
	ParamGetWord                     // take as-is, never evaluated
	ParamRefinement                  // refinement word, position scanned in the call path
	ParamSetWord                     // reserved, errors if used
)

// TypedWordMode builds a parameter-spec typed-word cell carrying both
// its accepted typeset and its binding mode.
func TypedWordMode(sym ID, types uint64, mode ParamMode) Cell {
	return Cell{kind: TypeTypedWord, sym: sym, typeset: types, mode: uint8(mode)}
}

func (c Cell) Typeset() uint64   { return c.typeset }
func (c Cell) Mode() ParamMode   { return ParamMode(c.mode) }

// Accepts reports whether t is a member of c's typeset (c must be a
// typed-word or typeset! cell).
func (c Cell) Accepts(t Type) bool {
	if t >= 64 {
		return false
	}
	return c.typeset&(1<<uint(t)) != 0
}

// Typeset builds a typeset! cell from a list of accepted types.
func Typeset(types ...Type) Cell {
	var bits uint64
	for _, t := range types {
		if t < 64 {
			bits |= 1 << uint(t)
		}
	}
	return Cell{kind: TypeTypeset, typeset: bits}
}

// -- Series-based cells --

// SeriesValue builds a series-based cell (block/string/binary/path)
// positioned at idx within s.
func SeriesValue(kind Type, s *Series, idx int) Cell {
	return Cell{kind: kind, ser: s, idx: idx}
}

func (c Cell) SeriesRef() *Series { return c.ser }
func (c Cell) Index() int         { return c.idx }

// WithIndex returns a copy of c repositioned to a new index, as
// produced by `next`/`skip`/path walks.
func (c Cell) WithIndex(idx int) Cell { c.idx = idx; return c }

// -- Function cells --

// FuncBody returns the series holding a Rebol-bodied function's body
// block; nil for natives.
func (c Cell) FuncBody() *Series {
	if c.fn == nil {
		return nil
	}
	return c.fn.Body
}

// Handle builds a handle! cell wrapping an opaque value (used for
// native function pointers and similar host-owned slots).
func Handle(h uintptr) Cell { return Cell{kind: TypeHandle, handle: h} }

func (c Cell) HandleValue() uintptr { return c.handle }

// FrameValue builds an object!-like cell directly referencing a frame.
func FrameValue(f *Frame) Cell { return Cell{kind: TypeFrame, frm: f} }

func (c Cell) AsFrame() *Frame { return c.frm }

// DatatypeValue builds a datatype! cell naming kind, the self-describing
// value a typeset word like `object!` or `integer!` evaluates to.
func DatatypeValue(kind Type) Cell { return Cell{kind: TypeDatatype, i: int64(kind)} }

func (c Cell) DatatypeKind() Type { return Type(c.i) }
