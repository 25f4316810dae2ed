package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID creates a short, human-readable id for one planning call.
// Format: {operation}-{mode}-{8charHexUUID}, e.g. "plan-ocean-a3f8e2b1".
// An empty mode is left out.
func GenerateRequestID(operation, mode string) string {
	parts := []string{operation}
	if mode != "" {
		parts = append(parts, strings.ToLower(mode))
	}
	parts = append(parts, ShortUUID())
	return strings.Join(parts, "-")
}

// ShortUUID returns the first 8 hex characters of a random UUID
func ShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
