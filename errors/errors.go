package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrMalformedPayload  = fmt.Errorf("malformed payload")
	ErrUnknownEventType  = fmt.Errorf("unknown event type")
	ErrUnsupportedEvent  = fmt.Errorf("unsupported event")
	ErrConnectionClosed  = fmt.Errorf("connection closed")
	ErrUnknownConnection = fmt.Errorf("unknown connection")
	ErrInvalidCharacter  = fmt.Errorf("replacement must be a single character")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
)
