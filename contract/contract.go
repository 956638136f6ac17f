//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives encoded frames for one connection.
// Consume must not block on the network.
type EventSink interface {
	Consume(ctx context.Context, frame []byte) error
}

type IRegistry interface {
	Register(id domain.ConnectionID, sink EventSink) domain.Participant
	SetName(id domain.ConnectionID, name string) bool
	Name(id domain.ConnectionID) (string, bool)
	Remove(id domain.ConnectionID) (string, bool)
	AllOpenConnections() []EventSink
	Len() int
}

type IHistory interface {
	Append(entry domain.Entry) error
	Snapshot() ([]domain.Entry, error)
	Len() int
}

// IRelay is the connection lifecycle seen by a transport.
type IRelay interface {
	Open(ctx context.Context, id domain.ConnectionID, sink EventSink) error
	Receive(ctx context.Context, id domain.ConnectionID, raw []byte)
	Close(ctx context.Context, id domain.ConnectionID)
}
