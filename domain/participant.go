// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// ConnectionID identifies one live bidirectional channel for its whole lifetime.
type ConnectionID string

// Participant is a connection plus its display name.
// An empty DisplayName means the connection never registered.
type Participant struct {
	ConnectionID ConnectionID
	DisplayName  string
}

// Registered reports whether chat and typing events from this participant are accepted.
func (p Participant) Registered() bool {
	return p.DisplayName != ""
}
