// Package wire maps relay events to the JSON frames exchanged over the WebSocket.
// Frames are structurally typed by their "type" field.
package wire

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
)

const (
	UsernameFrame = "username"
	ChatFrame     = "chat"
	TypingFrame   = "typing"
)

type clientFrame struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Text     string `json:"text"`
	IsTyping bool   `json:"isTyping"`
}

// DecodeCommand turns a raw client frame into a command.
// Anything that is not a JSON object with a known type is ErrMalformedPayload
// or ErrUnknownEventType; callers drop those silently.
func DecodeCommand(raw []byte) (domain.Command, error) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedPayload, err)
	}
	switch frame.Type {
	case UsernameFrame:
		return domain.RegisterCommand{Username: frame.Username}, nil
	case ChatFrame:
		return domain.PostMessageCommand{Text: frame.Text}, nil
	case TypingFrame:
		return domain.TypingCommand{IsTyping: frame.IsTyping}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEventType, frame.Type)
	}
}

type usernameFrame struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type chatCommandFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type typingCommandFrame struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"isTyping"`
}

// EncodeCommand is the client side of DecodeCommand.
func EncodeCommand(cmd domain.Command) ([]byte, error) {
	switch c := cmd.(type) {
	case domain.RegisterCommand:
		return json.Marshal(usernameFrame{Type: UsernameFrame, Username: c.Username})
	case domain.PostMessageCommand:
		return json.Marshal(chatCommandFrame{Type: ChatFrame, Text: c.Text})
	case domain.TypingCommand:
		return json.Marshal(typingCommandFrame{Type: TypingFrame, IsTyping: c.IsTyping})
	default:
		return nil, fmt.Errorf("%w: %T", errors.ErrUnsupportedEvent, cmd)
	}
}
