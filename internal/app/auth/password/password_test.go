package password

import (
	"strings"
	"testing"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := newFastHasher("pepper")

	hash, err := h.Hash("Abc12345!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := h.Verify("Abc12345!", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_PepperMatters(t *testing.T) {
	hash, err := newFastHasher("one").Hash("Abc12345!")
	require.NoError(t, err)

	ok, err := newFastHasher("two").Verify("Abc12345!", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	_, err := newFastHasher("").Verify("x", "not-a-hash")
	require.Error(t, err)
	require.True(t, customErrors.IsInternal(err))
}

func TestNewHasher_ProductionParams(t *testing.T) {
	h := NewHasher("p")
	require.Equal(t, uint32(64*1024), h.params.Memory)
}
