/*
 * rebolcore - Shared CLI bring-up for the cmd/ binaries
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

// Package cliboot holds the flag parsing and engine bring-up shared by
// cmd/rebolcore and cmd/rebolcore-repl, mirroring main.go's own
// config/log/signal bring-up sequence for both binaries.
package cliboot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rebolcore/rebolcore/engine/boot"
	"github.com/rebolcore/rebolcore/engine/host"
)

// Flags holds the parsed command line, shared by both binaries.
type Flags struct {
	Config   string
	LogFile  string
	LogLevel string
	Eval     string
	Args     []string
}

// ParseFlags registers the common `-c/-l/-h` flag set plus `-e` when
// withEval is set (the batch runner), parses argv, and handles `-h`
// itself (it calls os.Exit(0), same as main.go's own help handling).
func ParseFlags(withEval bool) Flags {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optLogLevel := getopt.StringLong("log-level", 0, "", "Log level (debug, info, warn, error)")
	var optEval *string
	if withEval {
		optEval = getopt.StringLong("eval", 'e', "", "Evaluate source and exit")
	}
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	f := Flags{Config: *optConfig, LogFile: *optLogFile, LogLevel: *optLogLevel, Args: getopt.Args()}
	if optEval != nil {
		f.Eval = *optEval
	}
	return f
}

// Boot loads f's configuration file (if any), overlays the log flags,
// and starts an engine with signal handling wired so SIGINT/SIGTERM
// shuts it down cleanly and exits 130, the way main.go's sigChan loop
// stops the CPU and telnet servers before returning.
func Boot(f Flags) *host.Engine {
	cfg := boot.DefaultConfig()
	if f.Config != "" {
		loaded, err := boot.ParseConfigFile(f.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, "rebolcore: "+err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}

	e, err := host.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rebolcore: "+err.Error())
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		e.Log.Info("interrupted, shutting down")
		e.Shutdown()
		os.Exit(130)
	}()

	return e
}
