/*
 * rebolcore - Interactive console
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

// Package repl is the interactive line-editing console: Prompt, eval,
// print, loop over a *host.Engine, with word completion driven by the
// engine's own symbol table.
package repl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/rebolcore/rebolcore/engine/host"
	"github.com/rebolcore/rebolcore/engine/value"
)

// Console wraps a liner line editor bound to one engine.
type Console struct {
	engine  *host.Engine
	line    *liner.State
	prompt  string
	history string
}

// New creates a console over engine. historyFile, if non-empty, is
// loaded at startup and appended to on Close.
func New(engine *host.Engine, prompt, historyFile string) *Console {
	if prompt == "" {
		prompt = ">> "
	}
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	c := &Console{engine: engine, line: l, prompt: prompt, history: historyFile}
	l.SetCompleter(func(partial string) []string {
		return completeWord(engine, partial)
	})
	if historyFile != "" {
		c.loadHistory()
	}
	return c
}

// completeWord returns every interned spelling that starts with the
// partial word typed so far, the same prefix-match shape as the
// teacher's command completer, but driven by symbol spellings rather
// than a fixed command table.
func completeWord(e *host.Engine, partial string) []string {
	start := strings.LastIndexAny(partial, " \t[](){}")
	prefix := partial
	head := ""
	if start >= 0 {
		head = partial[:start+1]
		prefix = partial[start+1:]
	}
	if prefix == "" {
		return nil
	}
	lower := strings.ToLower(prefix)
	var matches []string
	for _, name := range e.WordNames() {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			matches = append(matches, head+name)
		}
	}
	return matches
}

func (c *Console) loadHistory() {
	f, err := os.Open(c.history)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.ReadHistory(f)
}

// Run reads and evaluates lines until EOF, Ctrl-D, or a quit request.
// It returns the process exit status requested by the session (0 if
// the session was closed by the user rather than by `quit`/`exit`).
func (c *Console) Run() int {
	defer c.Close()
	for {
		text, err := c.line.Prompt(c.prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return 0
			}
			c.engine.Log.Error("console read failed", "error", err)
			return 0
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		c.line.AppendHistory(text)

		v, derr := c.engine.Eval(text)
		if derr != nil {
			if derr.Kind == value.ErrQuit {
				return derr.ExitCode
			}
			fmt.Println("** " + derr.Error())
			continue
		}
		if v.IsUnset() {
			continue
		}
		fmt.Println("== " + c.engine.FormatValue(v))
	}
}

// Close flushes history to disk and releases the line editor.
func (c *Console) Close() {
	if c.history != "" {
		if f, err := os.Create(c.history); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}
