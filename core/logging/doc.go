// Package logging routes messages from a Log to its listeners and sinks.
//
// Listeners receive formatted strings; sinks receive StructuredMessage
// values built from a template with named holes. Both sets are guarded by
// their own mutex, so registration and broadcast on one set do not wait on
// the other.
package logging
