// Package domain contains core concepts of the chat system.
// This file defines the History Log entries and related rules.
// Entries are immutable once appended.
package domain

import "time"

type EntryKind string

const (
	ChatEntry   EntryKind = "chat"
	SystemEntry EntryKind = "system"
)

// Entry is one record of the History Log: a chat message or a system notice.
// Username is empty for system notices.
type Entry struct {
	Kind     EntryKind `json:"kind"`
	Username string    `json:"username,omitempty"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}
