/*
 * rebolcore - Structured logging
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

// Package host wires a booted engine (engine/boot) to the outside
// world: a logging handler in the teacher's own slog-wrapper style, a
// task runner, and the small embedding API cmd/ and repl/ call into.
package host

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// lineHandler writes one line per record, always to stderr at warn-or-
// above, and additionally to an optional log file at every enabled
// level -- the same split the teacher's LogHandler makes between a
// terminal-facing stream and a full session log.
type lineHandler struct {
	file  io.Writer
	inner slog.Handler
	mu    sync.Mutex
	level slog.Level
}

func newLineHandler(file io.Writer, level slog.Level) *lineHandler {
	return &lineHandler{
		file:  file,
		inner: slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}),
		level: level,
	}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lineHandler{file: h.file, inner: h.inner.WithAttrs(attrs), level: h.level}
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	return &lineHandler{file: h.file, inner: h.inner.WithGroup(name), level: h.level}
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	parts := []string{r.Time.Format("2006-01-02 15:04:05"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	var err error
	if h.file != nil {
		_, err = h.file.Write([]byte(line))
	}
	if r.Level >= slog.LevelWarn {
		_, _ = os.Stderr.Write([]byte(line))
	}
	return err
}

// levelFromName maps the boot config's log-level string to a slog
// level, defaulting to Info for anything unrecognised.
func levelFromName(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger opens logPath (if non-empty) and returns a logger writing
// through lineHandler at the given level name.
func NewLogger(logPath, levelName string) (*slog.Logger, func() error, error) {
	var file *os.File
	var err error
	closeFn := func() error { return nil }
	if logPath != "" {
		file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closeFn = file.Close
	}
	h := newLineHandler(file, levelFromName(levelName))
	return slog.New(h), closeFn, nil
}
