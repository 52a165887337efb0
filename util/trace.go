package util

import "github.com/hashicorp/go-uuid"

// NewTraceID generates the correlation id attached to a ceremony step.
func NewTraceID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "trace-unavailable"
	}
	return id
}
