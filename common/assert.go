package common

import (
	"runtime"

	"github.com/devlights/gomy/output"
)

// Assert panics with msg when condition is false. It marks the boundary
// between a recoverable error (returned as bool/error, per the error
// handling design) and a broken invariant.
func Assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

// DumpGoroutineStacks prints every goroutine's stack trace; called from a
// recovered panic, it shows which latches each goroutine held or awaited.
//
// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
//   - https://stackoverflow.com/questions/19094099/how-to-dump-goroutine-stacktraces
func DumpGoroutineStacks() {
	getStack := func(all bool) []byte {
		buf := make([]byte, 1024)
		for {
			n := runtime.Stack(buf, all)
			if n < len(buf) {
				return buf[:n]
			}
			buf = make([]byte, 2*len(buf))
		}
	}

	output.Stdoutl("=== goroutine stacks ===", string(getStack(true)))
}
