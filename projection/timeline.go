// Package projection builds the client-side view of the relay from observed frames.
// Does not emit events or interact with UI directly.
package projection

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/wire"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Timeline holds what a client renders: the history snapshot followed by
// live entries, plus who is currently typing.
type Timeline struct {
	Owner   string
	Entries []domain.Entry
	typing  map[string]struct{}
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{
		Owner:  owner,
		typing: make(map[string]struct{}),
	}
}

// Consume applies one server frame. A history frame replaces the timeline.
func (t *Timeline) Consume(frame wire.ServerFrame) {
	switch frame.Type {
	case event.HistoryType:
		t.Entries = lo.Map(frame.Messages, func(f wire.ServerFrame, _ int) domain.Entry {
			return toEntry(f)
		})
	case event.ChatType, event.SystemType:
		t.Entries = append(t.Entries, toEntry(frame))
	case event.TypingType:
		if frame.IsTyping {
			t.typing[frame.User] = struct{}{}
		} else {
			delete(t.typing, frame.User)
		}
	}
}

// Typing lists the users currently typing, sorted.
func (t *Timeline) Typing() []string {
	users := lo.Keys(t.typing)
	slices.Sort(users)
	return users
}

// Filter keeps system entries and chat entries whose author or text contains
// the query, case-insensitively.
func (t *Timeline) Filter(query string) []domain.Entry {
	q := strings.ToLower(query)
	return lo.Filter(t.Entries, func(e domain.Entry, _ int) bool {
		return e.Kind == domain.SystemEntry ||
			strings.Contains(strings.ToLower(e.Username), q) ||
			strings.Contains(strings.ToLower(e.Text), q)
	})
}

// Mine reports whether an entry was written by the timeline owner.
func (t *Timeline) Mine(e domain.Entry) bool {
	return e.Kind == domain.ChatEntry && e.Username == t.Owner
}

func toEntry(f wire.ServerFrame) domain.Entry {
	kind := domain.ChatEntry
	if f.Type == event.SystemType {
		kind = domain.SystemEntry
	}
	return domain.Entry{Kind: kind, Username: f.Username, Text: f.Text, At: f.At()}
}
