package runtime

import (
	"chat-relay/domain"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s *Sink) Consume(_ context.Context, _ []byte) error {
	return nil
}

func newConnectionID() domain.ConnectionID {
	return domain.ConnectionID(uuid.NewString())
}

func TestRegistry_Register_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := newConnectionID()
	sink := &Sink{}

	// Given no connection is open
	req.Zero(registry.Len())
	req.Empty(registry.AllOpenConnections())

	// When a connection opens
	participant := registry.Register(id, sink)

	// Then it is known but unregistered
	req.Equal(id, participant.ConnectionID)
	req.False(participant.Registered())
	req.Equal(1, registry.Len())
	req.Len(registry.AllOpenConnections(), 1)
	req.Contains(registry.AllOpenConnections(), sink)

	_, ok := registry.Name(id)
	req.False(ok)
}

func TestRegistry_SetName_Overwrites(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := newConnectionID()
	registry.Register(id, &Sink{})

	// When the same connection registers twice
	req.True(registry.SetName(id, "Alice"))
	req.True(registry.SetName(id, "Alicia"))

	// Then the last name wins
	name, ok := registry.Name(id)
	req.True(ok)
	req.Equal("Alicia", name)
}

func TestRegistry_SetName_Allows_Duplicates(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id1, id2 := newConnectionID(), newConnectionID()
	registry.Register(id1, &Sink{})
	registry.Register(id2, &Sink{})

	req.True(registry.SetName(id1, "Bob"))
	req.True(registry.SetName(id2, "Bob"))

	name1, _ := registry.Name(id1)
	name2, _ := registry.Name(id2)
	req.Equal(name1, name2)
	req.Equal(2, registry.Len())
}

func TestRegistry_SetName_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.False(registry.SetName(newConnectionID(), "Ghost"))
	req.Zero(registry.Len())
}

func TestRegistry_Empty_Name_Is_Unset(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := newConnectionID()
	registry.Register(id, &Sink{})

	req.True(registry.SetName(id, ""))

	_, ok := registry.Name(id)
	req.False(ok)
	_, ok = registry.Remove(id)
	req.False(ok)
}

func TestRegistry_Remove_Registered(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id1, id2 := newConnectionID(), newConnectionID()
	sink1, sink2 := &Sink{name: "1"}, &Sink{name: "2"}
	registry.Register(id1, sink1)
	registry.Register(id2, sink2)
	registry.SetName(id1, "Bob")

	// When a registered participant leaves
	name, ok := registry.Remove(id1)

	// Then its last name is returned and only the other one is left
	req.True(ok)
	req.Equal("Bob", name)
	req.Equal(1, registry.Len())
	req.Equal(sink2, registry.AllOpenConnections()[0])
}

func TestRegistry_Remove_Unregistered(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := newConnectionID()
	registry.Register(id, &Sink{})

	name, ok := registry.Remove(id)

	req.False(ok)
	req.Empty(name)
	req.Zero(registry.Len())

	// And removing twice is harmless
	_, ok = registry.Remove(id)
	req.False(ok)
}
