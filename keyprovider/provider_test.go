package keyprovider

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStaticRejectsWrongKeySize(t *testing.T) {
	_, err := NewStatic(make([]byte, 16))
	require.Error(t, err)
}

func TestStaticDeriveIsDeterministic(t *testing.T) {
	s, err := NewStatic(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)

	a := make([]byte, 32)
	b := make([]byte, 32)
	require.NoError(t, s.Derive(a, []byte("subkey-id")))
	require.NoError(t, s.Derive(b, []byte("subkey-id")))

	require.Equal(t, a, b)
}

func TestStaticDeriveIsIDSeparated(t *testing.T) {
	s, err := NewStatic(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)

	a := make([]byte, 32)
	b := make([]byte, 32)
	require.NoError(t, s.Derive(a, []byte("id-a")))
	require.NoError(t, s.Derive(b, []byte("id-b")))

	require.NotEqual(t, a, b)
}

func TestStaticDeriveVariesWithOutputLength(t *testing.T) {
	s, err := NewStatic(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)

	eight := make([]byte, 8)
	require.NoError(t, s.Derive(eight, []byte("Field.key_id")))
	require.Len(t, eight, 8)
}

func TestZeroClearsBuffer(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)

	// Zero(nil) must not panic.
	Zero(nil)
}

func TestStaticZeroWipesKey(t *testing.T) {
	s, err := NewStatic(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)

	s.Zero()

	require.Equal(t, make([]byte, 32), s.key)
}
