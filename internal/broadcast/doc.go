// Package broadcast implements the in-process registry of connected display
// clients. A single actor goroutine owns the client set; registration,
// removal, and fan-out all go through its command channel, so no locking is
// needed around the map. Each client gets a buffered writer goroutine, and a
// client whose buffer is full when an event arrives is evicted rather than
// allowed to stall the broadcast.
package broadcast
