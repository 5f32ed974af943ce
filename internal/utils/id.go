package utils

import "github.com/google/uuid"

// tempMessagePrefix marks relay-assigned message ids as non-durable so
// clients can tell them apart from ids issued by the API of record.
const tempMessagePrefix = "temp_"

// NewConnID returns a unique identifier for one WebSocket connection.
func NewConnID() string {
	return uuid.NewString()
}

// NewTempMessageID returns a temporary message identifier with a
// recognizable prefix.
func NewTempMessageID() string {
	return tempMessagePrefix + uuid.NewString()
}
