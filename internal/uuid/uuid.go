// uuid simple generator that allows mocking
package uuid

import (
	"github.com/google/uuid"
)

// Generator hands out identifiers for ranking passes.
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator with random v4 UUIDs.
type GoogleUUIDGenerator struct{}

func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
