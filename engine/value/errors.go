/*
 * rebolcore - Error value representation
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

import "fmt"

// ErrKind enumerates the error kinds exposed by the core (spec §7).
type ErrKind uint8

const (
	ErrOutOfMemory ErrKind = iota
	ErrStackOverflow
	ErrNoMemory
	ErrLockedWord
	ErrProtectedWord
	ErrNotDefined
	ErrNoRelative
	ErrSelfProtected
	ErrNeedValue
	ErrNoArg
	ErrNoRefine
	ErrExpectArg
	ErrBadPath
	ErrTypeLimit
	ErrRange
	ErrHalt
	ErrDupVars
	ErrUser // error raised explicitly by `throw`/`make error!`
	ErrQuit // explicit quit/exit request, carries ExitCode
)

var errKindNames = map[ErrKind]string{
	ErrOutOfMemory:   "OutOfMemory",
	ErrStackOverflow: "StackOverflow",
	ErrNoMemory:      "NoMemory",
	ErrLockedWord:    "Locked",
	ErrProtectedWord: "Protected",
	ErrNotDefined:    "NotDefined",
	ErrNoRelative:    "NoRelative",
	ErrSelfProtected: "SelfProtected",
	ErrNeedValue:     "NeedValue",
	ErrNoArg:         "NoArg",
	ErrNoRefine:      "NoRefine",
	ErrExpectArg:     "ExpectArg",
	ErrBadPath:       "BadPath",
	ErrTypeLimit:     "TypeLimit",
	ErrRange:         "Range",
	ErrHalt:          "Halt",
	ErrDupVars:       "DupVars",
	ErrUser:          "User",
	ErrQuit:          "Quit",
}

func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is a Go error wrapping an engine error kind, message and an
// optional "near" source snippet, so both Go call sites and the
// engine's own `error!` values can share one representation.
type Error struct {
	Kind     ErrKind
	Msg      string
	Near     string
	ExitCode int // valid only when Kind == ErrQuit
}

// NewQuit constructs the *Error a `quit`/`exit` native throws to
// unwind to the top level with the given process exit status.
func NewQuit(code int) *Error {
	return &Error{Kind: ErrQuit, Msg: "quit", ExitCode: code}
}

func (e *Error) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("%s: %s (near: %s)", e.Kind, e.Msg, e.Near)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewError constructs an *Error for the given kind.
func NewError(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCell wraps err in a cell so it can travel through the
// evaluator as an ordinary (possibly thrown) value.
func ErrorCell(err *Error) Cell {
	c := Cell{kind: TypeError, handle: 0}
	c.i = int64(err.Kind)
	c.bindFrame = nil
	c.errRef = err
	return c
}

// AsError returns the wrapped *Error if c is error-class.
func (c Cell) AsError() *Error {
	if c.kind != TypeError {
		return nil
	}
	return c.errRef
}
