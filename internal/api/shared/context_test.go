package shared

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerID(t *testing.T) {
	t.Parallel()

	_, ok := GetOwnerID(context.Background())
	assert.False(t, ok)

	_, ok = GetOwnerID(WithOwnerID(context.Background(), ""))
	assert.False(t, ok, "empty owner id is treated as missing")

	_, ok = GetOwnerID(context.WithValue(context.Background(), OwnerIDContextKey, 42))
	assert.False(t, ok, "wrong type is treated as missing")

	owner, ok := GetOwnerID(WithOwnerID(context.Background(), "mockUser"))
	assert.True(t, ok)
	assert.Equal(t, "mockUser", owner)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)
	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))

	assert.Regexp(t, hex32, first)
	assert.Regexp(t, hex32, second)
	assert.NotEqual(t, first, second)
	assert.Regexp(t, hex32, generateFallbackTraceID())
}
