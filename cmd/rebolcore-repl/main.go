/*
 * rebolcore - Interactive REPL front end
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
	"os"
	"path/filepath"

	"github.com/rebolcore/rebolcore/cmd/internal/cliboot"
	"github.com/rebolcore/rebolcore/repl"
)

func main() {
	f := cliboot.ParseFlags(false)
	e := cliboot.Boot(f)
	defer e.Shutdown()

	if len(f.Args) > 0 {
		src, err := os.ReadFile(f.Args[0])
		if err == nil {
			if _, derr := e.Eval(string(src)); derr != nil {
				e.Log.Error("script failed", "file", f.Args[0], "error", derr.Error())
			}
		} else {
			e.Log.Error("could not read script", "file", f.Args[0], "error", err.Error())
		}
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".rebolcore_history")
	}
	console := repl.New(e, "rebolcore>> ", historyFile)
	os.Exit(console.Run())
}
