// Package domain holds the core types of the display controller: the
// persisted settings record, the events broadcast to display clients, and
// the interfaces the HTTP/WebSocket layer depends on.
package domain
