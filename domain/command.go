package domain

// Command is an inbound client intent decoded from the wire.
type Command interface {
	CommandName() string
}

// RegisterCommand sets or overwrites the display name of the sender.
type RegisterCommand struct {
	Username string
}

func (RegisterCommand) CommandName() string { return "username" }

type PostMessageCommand struct {
	Text string
}

func (PostMessageCommand) CommandName() string { return "chat" }

type TypingCommand struct {
	IsTyping bool
}

func (TypingCommand) CommandName() string { return "typing" }
