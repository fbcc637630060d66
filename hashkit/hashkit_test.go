package hashkit

import (
	"testing"

	"github.com/Badcat330/HashBaseStructs/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownNames(t *testing.T) {
	for _, name := range []string{
		"sha1", "sha224", "sha256", "sha384", "sha512",
		"sha3_224", "sha3_256", "sha3_384", "sha3_512",
		"blake2b", "blake2s", "blake3",
	} {
		fn, err := Resolve(name)
		require.NoError(t, err, name)
		require.NotNil(t, fn, name)
		assert.NotEmpty(t, fn([]byte("probe")), name)
	}
}

func TestResolveUnknownName(t *testing.T) {
	_, err := Resolve("md5")
	assert.ErrorIs(t, err, container.ErrUnsupportedHash)
}

func TestNewAcceptsInjectedFunc(t *testing.T) {
	calls := 0
	fn, err := New(func(b []byte) []byte {
		calls++
		return append([]byte{0xAB}, b...)
	})
	require.NoError(t, err)
	out := fn([]byte("x"))
	assert.Equal(t, []byte{0xAB, 'x'}, out)
	assert.Equal(t, 1, calls)
}

func TestNewRejectsInvalidArg(t *testing.T) {
	_, err := New(42)
	assert.ErrorIs(t, err, container.ErrInvalidHashArg)
}

func TestDigestsAreDeterministic(t *testing.T) {
	fn, err := Resolve("sha256")
	require.NoError(t, err)
	a := fn([]byte("same input"))
	b := fn([]byte("same input"))
	assert.Equal(t, a, b)
}

func TestDigestsDiscriminateInput(t *testing.T) {
	fn, err := Resolve("blake3")
	require.NoError(t, err)
	a := fn([]byte("left"))
	b := fn([]byte("right"))
	assert.NotEqual(t, a, b)
}
