package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	h := HashPassword("secret1")
	assert.NotEmpty(t, h)
	assert.NotEqual(t, "secret1", h)

	assert.True(t, CheckPassword("secret1", h))
	assert.False(t, CheckPassword("wrong", h))
	assert.False(t, CheckPassword("secret1", "not-a-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	// bcrypt 自带盐，两次哈希不应相同
	assert.NotEqual(t, HashPassword("secret1"), HashPassword("secret1"))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
