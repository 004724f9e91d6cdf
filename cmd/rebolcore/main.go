/*
 * rebolcore - Batch script runner
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

package main

import (
	"fmt"
	"os"

	"github.com/rebolcore/rebolcore/cmd/internal/cliboot"
	"github.com/rebolcore/rebolcore/engine/host"
	"github.com/rebolcore/rebolcore/engine/value"
)

func main() {
	f := cliboot.ParseFlags(true)
	e := cliboot.Boot(f)
	defer e.Shutdown()

	if f.Eval != "" {
		os.Exit(runSource(e, f.Eval))
	}
	if len(f.Args) == 0 {
		fmt.Fprintln(os.Stderr, "rebolcore: no script given (use -e or a file argument)")
		os.Exit(1)
	}

	src, err := os.ReadFile(f.Args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "rebolcore: "+err.Error())
		os.Exit(1)
	}
	os.Exit(runSource(e, string(src)))
}

// runSource evaluates src to completion, printing an uncaught error
// the way the top level does, and maps an explicit quit/exit request
// to the process exit status spec §6 describes.
func runSource(e *host.Engine, src string) int {
	v, derr := e.Eval(src)
	if derr != nil {
		if derr.Kind == value.ErrQuit {
			return derr.ExitCode
		}
		fmt.Fprintln(os.Stderr, "** "+derr.Error())
		return 1
	}
	if !v.IsUnset() {
		fmt.Println(e.FormatValue(v))
	}
	return 0
}
