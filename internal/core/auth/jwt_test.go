package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: time.Hour}

	tok, err := j.Issue("u1", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UID)
	assert.Equal(t, "ADMIN", c.Role)
	assert.Equal(t, "go-shop-api", c.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: time.Hour}
	tok, err := j.Issue("u1", "USER")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("another-secret"), Issuer: "go-shop-api", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParse_WrongIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	tok, err := j.Issue("u1", "USER")
	require.NoError(t, err)

	mine := &JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: time.Hour}
	_, err = mine.Parse(tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	// 过期要超出 60s 的 leeway 才算数
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: -2 * time.Minute}
	tok, err := j.Issue("u1", "USER")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "go-shop-api", TTL: time.Hour}
	_, err := j.Parse("not-a-token")
	assert.Error(t, err)
}
