package common

import "github.com/google/uuid"

// GenerateUUID generates a UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}
