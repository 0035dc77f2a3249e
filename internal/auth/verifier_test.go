package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACVerifier_RoundTrip(t *testing.T) {
	v := NewHMACVerifier("test-secret")

	token, err := v.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, "user-123", v.Verify(token))
}

func TestHMACVerifier_Invalid(t *testing.T) {
	v := NewHMACVerifier("test-secret")
	token, err := v.Issue("user-123")
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		assert.Empty(t, v.Verify(""))
	})

	t.Run("no separator", func(t *testing.T) {
		assert.Empty(t, v.Verify("notatoken"))
	})

	t.Run("tampered body", func(t *testing.T) {
		parts := strings.SplitN(token, ".", 2)
		assert.Empty(t, v.Verify("x"+parts[0]+"."+parts[1]))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewHMACVerifier("other-secret")
		assert.Empty(t, other.Verify(token))
	})
}

func TestHMACVerifier_IssueRequiresUser(t *testing.T) {
	v := NewHMACVerifier("test-secret")
	_, err := v.Issue("")
	assert.Error(t, err)
}
