/*
 * rebolcore - Host embedding API
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

package host

import (
	"log/slog"

	"github.com/rebolcore/rebolcore/engine/boot"
	"github.com/rebolcore/rebolcore/engine/symbol"
	"github.com/rebolcore/rebolcore/engine/task"
	"github.com/rebolcore/rebolcore/engine/value"
)

// Engine is the embedding surface: construct one, Eval source through
// it, Shutdown when done. It owns exactly one boot.Engine and runs its
// task on a dedicated goroutine, the way emu/core.go's CPU owns
// exactly one channel-driven goroutine for the life of the process.
type Engine struct {
	Log    *slog.Logger
	boot   *boot.Engine
	task   *task.Task
	closeLog func() error
}

// New loads cfg's logging destination, boots a fresh interpreter, and
// starts its task goroutine. Callers MUST call Shutdown.
func New(cfg *boot.Config) (*Engine, error) {
	cfg.FromEnviron()
	logger, closeLog, err := NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	b := boot.New(cfg)
	t := task.New(b.Eval, b.Load)
	go t.Run()

	logger.Info("engine started", "always-malloc", cfg.AlwaysMalloc, "legacy", cfg.Legacy)

	return &Engine{Log: logger, boot: b, task: t, closeLog: closeLog}, nil
}

// Eval runs source to completion and returns its final value.
func (e *Engine) Eval(source string) (value.Cell, *value.Error) {
	return e.task.EvalSource(source)
}

// CallSymbol looks up name in the root context and, if it is callable,
// applies it to args (reduced first when reduce is true) -- the entry
// point a host uses to invoke
// a specific function by name without re-scanning source text for it.
func (e *Engine) CallSymbol(name string, args *value.Series, reduce bool) (value.Cell, *value.Error) {
	sym, ok := e.boot.Symbols.Lookup(name)
	if !ok {
		return value.Cell{}, value.NewError(value.ErrNotDefined, "word not found: %s", name)
	}
	idx := -1
	for i := 1; i < e.boot.Root.Len(); i++ {
		if e.boot.Symbols.Canonical(e.boot.Root.SlotWord(i).Symbol()) == e.boot.Symbols.Canonical(sym) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return value.Cell{}, value.NewError(value.ErrNotDefined, "word not found: %s", name)
	}
	fn := e.boot.Root.SlotValue(idx)
	if !fn.IsFunction() {
		return value.Cell{}, value.NewError(value.ErrExpectArg, "%s is not callable", name)
	}
	return e.boot.Eval.Apply(fn, args, reduce)
}

// WordNames returns every spelling currently interned in the engine's
// symbol table, for host-side completion; the list grows as source is
// evaluated and never shrinks.
func (e *Engine) WordNames() []string {
	n := e.boot.Symbols.Len()
	names := make([]string, 0, n)
	for id := 1; id <= n; id++ {
		names = append(names, e.boot.Symbols.Name(symbol.ID(id)))
	}
	return names
}

// FormatValue renders v the way the core's own print/probe natives
// do, for a host that needs to display a result without re-deriving
// its own formatting rules.
func (e *Engine) FormatValue(v value.Cell) string {
	return boot.FormatCell(e.boot.Symbols, v)
}

// Shutdown stops the task goroutine and closes the log file.
func (e *Engine) Shutdown() {
	e.task.Stop()
	e.Log.Info("engine stopped")
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}
