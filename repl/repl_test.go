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

package repl

import (
	"testing"

	"github.com/rebolcore/rebolcore/engine/boot"
	"github.com/rebolcore/rebolcore/engine/host"
)

func newTestEngine(t *testing.T) *host.Engine {
	t.Helper()
	e, err := host.New(boot.DefaultConfig())
	if err != nil {
		t.Fatalf("host.New failed: %v", err)
	}
	t.Cleanup(e.Shutdown)
	return e
}

func TestCompleteWordMatchesPrefix(t *testing.T) {
	e := newTestEngine(t)
	if _, derr := e.Eval("my-counter: 0"); derr != nil {
		t.Fatalf("defining word failed: %v", derr)
	}

	matches := completeWord(e, "my-coun")
	found := false
	for _, m := range matches {
		if m == "my-counter" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected my-counter among completions, got %v", matches)
	}
}

func TestCompleteWordRespectsLeadingContext(t *testing.T) {
	e := newTestEngine(t)
	if _, derr := e.Eval("alpha: 1"); derr != nil {
		t.Fatalf("defining word failed: %v", derr)
	}

	matches := completeWord(e, "print alp")
	for _, m := range matches {
		if m != "print alpha" {
			t.Errorf("expected completion to preserve leading text, got %q", m)
		}
	}
}

func TestCompleteWordEmptyPrefixReturnsNil(t *testing.T) {
	e := newTestEngine(t)
	if completeWord(e, "") != nil {
		t.Errorf("expected no completions for empty prefix")
	}
}
