/*
 * rebolcore - Source scanner
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
	"strconv"
	"strings"

	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/value"
)

// scanner turns source text into a tree of value cells, one
// recursive-descent pass over the byte stream, grounded on the line
// grammar configparser.go uses for its own text format: strip
// comments, split on whitespace, recognise a handful of token shapes
// by their leading/trailing punctuation.
type scanner struct {
	a    *value.Arena
	tbl  *symbol.Table
	src  string
	pos  int
}

// Load compiles source into a top-level block ready for ev.Do. The
// loader NewLoader builds for engine/task calls it, so every source
// string the REPL or a host evaluates passes through here.
func Load(a *value.Arena, tbl *symbol.Table, source string) (*value.Series, *value.Error) {
	s := &scanner{a: a, tbl: tbl, src: source}
	block, err := s.scanBlock(false)
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ';' {
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			s.pos++
			continue
		}
		break
	}
}

func isWordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '+', '*', '?', '!', '=', '<', '>', '&', '%', '~', '.':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanBlock scans elements until either EOF (expectClose==false and we
// hit end of input) or a closing bracket matching the opening one
// already consumed by the caller.
func (s *scanner) scanBlock(expectClose bool) (*value.Series, *value.Error) {
	out := s.a.NewArray(8, 0)
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			if expectClose {
				return nil, value.NewError(value.ErrBadPath, "unexpected end of input, missing ]")
			}
			return out, nil
		}
		if s.peek() == ']' {
			if !expectClose {
				return nil, value.NewError(value.ErrBadPath, "unexpected ]")
			}
			s.pos++
			return out, nil
		}
		if s.peek() == ')' {
			return nil, value.NewError(value.ErrBadPath, "unexpected )")
		}
		c, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		_ = s.a.AppendArray(out, c)
	}
}

func (s *scanner) scanParen() (*value.Series, *value.Error) {
	out := s.a.NewArray(8, 0)
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, value.NewError(value.ErrBadPath, "unexpected end of input, missing )")
		}
		if s.peek() == ')' {
			s.pos++
			return out, nil
		}
		c, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		_ = s.a.AppendArray(out, c)
	}
}

// scanValue scans exactly one value, then checks for a trailing path
// separator to fold consecutive values into a path! cell.
func (s *scanner) scanValue() (value.Cell, *value.Error) {
	head, err := s.scanAtom()
	if err != nil {
		return value.Cell{}, err
	}
	if s.peek() != '/' {
		return head, nil
	}
	segs := s.a.NewArray(4, 0)
	_ = s.a.AppendArray(segs, stripSetWord(head))
	kind := value.TypePath
	if head.Kind() == value.TypeSetWord {
		kind = value.TypeSetPath
	} else if head.Kind() == value.TypeGetWord {
		kind = value.TypeGetPath
	}
	for s.peek() == '/' {
		s.pos++
		seg, err := s.scanAtom()
		if err != nil {
			return value.Cell{}, err
		}
		_ = s.a.AppendArray(segs, seg)
	}
	return value.SeriesValue(kind, segs, 0), nil
}

// stripSetWord rewrites a set-word/get-word head cell into a plain
// word for storage as a path's first segment, since the path cell
// itself (not its head segment) carries the set/get distinction.
func stripSetWord(c value.Cell) value.Cell {
	switch c.Kind() {
	case value.TypeSetWord, value.TypeGetWord:
		return value.Word(value.TypeWord, c.Symbol())
	default:
		return c
	}
}

func (s *scanner) scanAtom() (value.Cell, *value.Error) {
	c := s.peek()
	switch {
	case c == '[':
		s.pos++
		block, err := s.scanBlock(true)
		if err != nil {
			return value.Cell{}, err
		}
		return value.SeriesValue(value.TypeBlock, block, 0), nil

	case c == '(':
		s.pos++
		block, err := s.scanParen()
		if err != nil {
			return value.Cell{}, err
		}
		return value.SeriesValue(value.TypeParen, block, 0), nil

	case c == '"':
		return s.scanString()

	case c == ':':
		s.pos++
		w, err := s.scanWordBody()
		if err != nil {
			return value.Cell{}, err
		}
		return value.Word(value.TypeGetWord, s.tbl.Intern(w)), nil

	case c == '\'':
		s.pos++
		w, err := s.scanWordBody()
		if err != nil {
			return value.Cell{}, err
		}
		return value.Word(value.TypeLitWord, s.tbl.Intern(w)), nil

	case c == '/':
		s.pos++
		w, err := s.scanWordBody()
		if err != nil {
			return value.Cell{}, err
		}
		return value.Word(value.TypeRefinement, s.tbl.Intern(w)), nil

	case isDigit(c) || ((c == '-' || c == '+') && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
		return s.scanNumber()

	default:
		return s.scanWord()
	}
}

func (s *scanner) scanString() (value.Cell, *value.Error) {
	s.pos++ // opening quote
	start := s.pos
	var b strings.Builder
	for s.pos < len(s.src) && s.src[s.pos] != '"' {
		if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
			s.pos++
		}
		b.WriteByte(s.src[s.pos])
		s.pos++
	}
	if s.pos >= len(s.src) {
		return value.Cell{}, value.NewError(value.ErrBadPath, "unterminated string starting at %d", start)
	}
	s.pos++ // closing quote
	str := s.a.NewByteStringFrom([]byte(b.String()))
	return value.SeriesValue(value.TypeString, str, 0), nil
}

func (s *scanner) scanNumber() (value.Cell, *value.Error) {
	start := s.pos
	if s.peek() == '-' || s.peek() == '+' {
		s.pos++
	}
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	isFloat := false
	if s.peek() == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1]) {
		isFloat = true
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	text := s.src[start:s.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Cell{}, value.NewError(value.ErrBadPath, "bad decimal literal %q", text)
		}
		return value.Decimal(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.Cell{}, value.NewError(value.ErrBadPath, "bad integer literal %q", text)
	}
	return value.Integer(n), nil
}

func (s *scanner) scanWordBody() (string, *value.Error) {
	start := s.pos
	for s.pos < len(s.src) && isWordChar(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", value.NewError(value.ErrBadPath, "expected word at position %d", start)
	}
	return s.src[start:s.pos], nil
}

func (s *scanner) scanWord() (value.Cell, *value.Error) {
	start := s.pos
	for s.pos < len(s.src) && isWordChar(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return value.Cell{}, value.NewError(value.ErrBadPath, "unexpected character %q at %d", string(s.src[s.pos]), s.pos)
	}
	text := s.src[start:s.pos]
	if s.peek() == ':' {
		s.pos++
		return value.Word(value.TypeSetWord, s.tbl.Intern(text)), nil
	}
	return value.Word(value.TypeWord, s.tbl.Intern(text)), nil
}
