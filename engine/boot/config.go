/*
 * rebolcore - Boot configuration parser
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

// Package boot assembles a runnable engine: it parses the host's
// configuration file, builds the symbol table and arena, scans source
// text into value blocks, and populates the native function registry
// that the evaluator dispatches into. It plays the role main.go and
// config/configparser play for the teacher: the thin layer between
// "files and flags" and "running state".
package boot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds every flag the engine's behavior depends on at start,
// read once, per §6 "Environment variables" and the CLI surface.
type Config struct {
	AlwaysMalloc bool   // <ENGINE>_ALWAYS_MALLOC: disable pooling
	Legacy       bool   // <ENGINE>_LEGACY: opt into historical semantics
	CycleLimit   int    // 0 = unlimited
	LogFile      string
	LogLevel     string // "debug", "info", "warn", "error"
}

// DefaultConfig returns the engine's out-of-the-box settings.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// FromEnviron applies the two environment variables §6 names on top
// of cfg. host.New calls it after the config file and flags have been
// applied, so a set variable overrides them.
func (cfg *Config) FromEnviron() {
	if v := os.Getenv("REBOLCORE_ALWAYS_MALLOC"); v == "1" {
		cfg.AlwaysMalloc = true
	}
	if v := os.Getenv("REBOLCORE_LEGACY"); v == "1" {
		cfg.Legacy = true
	}
}

// ParseConfigFile reads a small line-oriented config format:
//
//	# comment
//	key value
//
// Recognised keys: log-file, log-level, cycle-limit, always-malloc,
// legacy. Unknown keys are reported as an error rather than silently
// ignored, since a typo'd key silently doing nothing is worse than a
// hard failure at startup.
func ParseConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig reads the same format as ParseConfigFile from an
// arbitrary reader, so tests don't need a file on disk.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, fmt.Errorf("config line %d: expected \"key value\", got %q", lineNo, line)
		}
		if err := applyKey(cfg, key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, "", true
	}
	return line[:i], strings.TrimSpace(line[i+1:]), true
}

func applyKey(cfg *Config, key, value string) error {
	switch key {
	case "log-file":
		cfg.LogFile = value
	case "log-level":
		cfg.LogLevel = value
	case "cycle-limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cycle-limit: %w", err)
		}
		cfg.CycleLimit = n
	case "always-malloc":
		cfg.AlwaysMalloc = value == "1" || value == "true"
	case "legacy":
		cfg.Legacy = value == "1" || value == "true"
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
