package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/showmtmn-cloud/richgo/internal/uuid"
)

func TestGoogleUUIDGenerator(t *testing.T) {
	g := uuid.NewGoogleUUIDGenerator()
	a, b := g.New(), g.New()
	assert.True(t, uuid.Valid(a))
	assert.NotEqual(t, a, b)
	assert.False(t, uuid.Valid("pass-1"))
}
