// Package core defines the shared data model of the assistant engine:
// conversation messages, tool call requests, append-only threads and the
// error taxonomy that separates recoverable tool failures from aborting
// infrastructure failures.
package core
