//go:build !capnlite_debug

package dbg

// Enabled is true when this build was compiled with the capnlite_debug tag.
const Enabled = false

// PushTrace is a no-op outside of debug builds.
func PushTrace() func() { return func() {} }

// Log is a no-op outside of debug builds.
func Log(operation, format string, args ...any) {}
