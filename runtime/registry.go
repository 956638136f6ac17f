package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"sync"

	"github.com/samber/lo"
)

var _ contract.IRegistry = (*Registry)(nil)

type session struct {
	participant domain.Participant
	sink        contract.EventSink
}

// Registry is the Session Registry: one entry per live connection.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]*session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.ConnectionID]*session)}
}

// Register adds a connection with no display name.
func (r *Registry) Register(id domain.ConnectionID, sink contract.EventSink) domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant := domain.Participant{ConnectionID: id}
	r.sessions[id] = &session{participant: participant, sink: sink}
	return participant
}

// SetName overwrites the display name without any validation.
// Names may be duplicated across participants.
func (r *Registry) SetName(id domain.ConnectionID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.participant.DisplayName = name
	return true
}

// Name returns the display name, ok is false when the connection is unknown or unregistered.
func (r *Registry) Name(id domain.ConnectionID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok || !s.participant.Registered() {
		return "", false
	}
	return s.participant.DisplayName, true
}

// Remove deletes the connection and returns its last display name, if it ever had one.
func (r *Registry) Remove(id domain.ConnectionID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	return s.participant.DisplayName, s.participant.Registered()
}

// AllOpenConnections snapshots the sinks at call time, for fan-out.
func (r *Registry) AllOpenConnections() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapToSlice(r.sessions, func(_ domain.ConnectionID, s *session) contract.EventSink {
		return s.sink
	})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
