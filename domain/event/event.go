package event

import (
	"chat-relay/domain"
	"fmt"
	"time"
)

type Type string

const (
	ChatType    Type = "chat"
	SystemType  Type = "system"
	TypingType  Type = "typing"
	HistoryType Type = "chatHistory"
)

// DomainEvent is anything the relay sends to a connection.
type DomainEvent interface {
	EventType() Type
}

// Persistable events are appended to the History Log before being broadcast.
// Only chat messages and system notices implement it.
type Persistable interface {
	DomainEvent
	ToEntry() domain.Entry
}

type ChatMessage struct {
	Author string
	Text   string
	At     time.Time
}

func (ChatMessage) EventType() Type { return ChatType }

func (m ChatMessage) ToEntry() domain.Entry {
	return domain.Entry{Kind: domain.ChatEntry, Username: m.Author, Text: m.Text, At: m.At}
}

// SystemNotice is a server-generated join or leave announcement.
type SystemNotice struct {
	Text string
	At   time.Time
}

func (SystemNotice) EventType() Type { return SystemType }

func (n SystemNotice) ToEntry() domain.Entry {
	return domain.Entry{Kind: domain.SystemEntry, Text: n.Text, At: n.At}
}

func Joined(name string, at time.Time) SystemNotice {
	return SystemNotice{Text: fmt.Sprintf("%s has joined the chat.", name), At: at}
}

func Left(name string, at time.Time) SystemNotice {
	return SystemNotice{Text: fmt.Sprintf("%s has left the chat.", name), At: at}
}

// TypingStatus is ephemeral and never stored.
type TypingStatus struct {
	User     string
	IsTyping bool
}

func (TypingStatus) EventType() Type { return TypingType }

// HistorySnapshot is sent privately to a newly opened connection.
type HistorySnapshot struct {
	Entries []domain.Entry
}

func (HistorySnapshot) EventType() Type { return HistoryType }
