//go:build capnlite_debug

package dbg

import (
	"fmt"
	"os"

	"github.com/timandy/routine"
)

// Enabled is true when this build was compiled with the capnlite_debug tag.
const Enabled = true

// traceDepth is goroutine-local so that tracing can be toggled for one
// in-flight decode (e.g. from a test) without a global race against other
// goroutines decoding concurrently.
var traceDepth = routine.NewThreadLocalWithInitial(func() any { return 0 })

// PushTrace increases this goroutine's trace nesting depth, returning a
// function that restores it.
func PushTrace() func() {
	d := traceDepth.Get().(int)
	traceDepth.Set(d + 1)
	return func() { traceDepth.Set(d) }
}

// Log prints indented debugging information to stderr, nested to this
// goroutine's current trace depth.
func Log(operation, format string, args ...any) {
	depth := traceDepth.Get().(int)
	for range depth {
		fmt.Fprint(os.Stderr, "  ")
	}
	fmt.Fprintf(os.Stderr, "%s: "+format+"\n", append([]any{operation}, args...)...)
}
