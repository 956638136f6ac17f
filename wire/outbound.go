package wire

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
)

type chatFrame struct {
	Type      event.Type `json:"type"`
	Username  string     `json:"username"`
	Text      string     `json:"text"`
	Timestamp int64      `json:"timestamp"`
}

type systemFrame struct {
	Type      event.Type `json:"type"`
	Text      string     `json:"text"`
	Timestamp int64      `json:"timestamp"`
}

type typingFrame struct {
	Type     event.Type `json:"type"`
	User     string     `json:"user"`
	IsTyping bool       `json:"isTyping"`
}

type historyFrame struct {
	Type     event.Type `json:"type"`
	Messages []any      `json:"messages"`
}

// Encode serializes an event to its wire representation.
func Encode(evt event.DomainEvent) ([]byte, error) {
	switch e := evt.(type) {
	case event.ChatMessage:
		return json.Marshal(toChatFrame(e.ToEntry()))
	case event.SystemNotice:
		return json.Marshal(toSystemFrame(e.ToEntry()))
	case event.TypingStatus:
		return json.Marshal(typingFrame{Type: event.TypingType, User: e.User, IsTyping: e.IsTyping})
	case event.HistorySnapshot:
		// messages is always an array, never null
		messages := lo.Map(e.Entries, func(entry domain.Entry, _ int) any {
			return toEntryFrame(entry)
		})
		return json.Marshal(historyFrame{Type: event.HistoryType, Messages: messages})
	default:
		return nil, fmt.Errorf("%w: %T", errors.ErrUnsupportedEvent, evt)
	}
}

func toEntryFrame(entry domain.Entry) any {
	if entry.Kind == domain.SystemEntry {
		return toSystemFrame(entry)
	}
	return toChatFrame(entry)
}

func toChatFrame(entry domain.Entry) chatFrame {
	return chatFrame{
		Type:      event.ChatType,
		Username:  entry.Username,
		Text:      entry.Text,
		Timestamp: entry.At.UnixMilli(),
	}
}

func toSystemFrame(entry domain.Entry) systemFrame {
	return systemFrame{
		Type:      event.SystemType,
		Text:      entry.Text,
		Timestamp: entry.At.UnixMilli(),
	}
}

// ServerFrame is the union of every frame the relay sends, as read by a client.
type ServerFrame struct {
	Type      event.Type    `json:"type"`
	Username  string        `json:"username,omitempty"`
	User      string        `json:"user,omitempty"`
	Text      string        `json:"text,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
	IsTyping  bool          `json:"isTyping,omitempty"`
	Messages  []ServerFrame `json:"messages,omitempty"`
}

func DecodeServerFrame(raw []byte) (ServerFrame, error) {
	var frame ServerFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return ServerFrame{}, fmt.Errorf("%w: %v", errors.ErrMalformedPayload, err)
	}
	return frame, nil
}

// At returns the frame timestamp as a time.
func (f ServerFrame) At() time.Time {
	return time.UnixMilli(f.Timestamp)
}
