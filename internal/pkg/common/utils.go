package common

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a random UUID string, used for request ids when the
// client did not supply one.
func GenerateUUID() string {
	return uuid.New().String()
}
