// Package app wires the settings store, the logo file store, and the
// broadcast hub into the operations the HTTP and WebSocket handlers share:
// mutate state, then fan the change out to every connected display.
package app
