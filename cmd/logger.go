/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/k1LoW/memegen/logger/dot"
	"github.com/k1LoW/tail"
	slogmulti "github.com/samber/slog-multi"
)

// tb keeps the latest log lines for error.json.
var tb = tail.New(1000)

// newLogger returns a logger that reports to the terminal and also records
// JSON lines into tb. With progress, the terminal gets dot marks instead of
// log lines.
func newLogger(progress bool) (*slog.Logger, func(), error) {
	buffered := slog.NewJSONHandler(tb, &slog.HandlerOptions{Level: slog.LevelDebug})
	if !progress {
		return slog.New(slogmulti.Fanout(
			slog.NewTextHandler(os.Stderr, nil),
			buffered,
		)), func() {}, nil
	}
	d, err := dot.New(slog.NewTextHandler(os.Stdout, nil))
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slogmulti.Fanout(d, buffered)), d.Stop, nil
}
