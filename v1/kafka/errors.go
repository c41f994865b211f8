package kafka

import "errors"

var (
	// ErrStop may be returned by a Handler to commit the current message
	// and end Consume without error.
	ErrStop = errors.New("stop consuming")

	// ErrNoSerializer is returned by Publish before SetSerializer.
	ErrNoSerializer = errors.New("no serializer configured")

	// ErrNoDeserializer is returned by Consume before SetDeserializer.
	ErrNoDeserializer = errors.New("no deserializer configured")

	// ErrWrongRole is returned when a producer consumes or a consumer publishes.
	ErrWrongRole = errors.New("operation not available for client role")
)
