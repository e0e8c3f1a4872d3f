package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEREv1EqualAndNotEqual(t *testing.T) {
	shape, err := NewEREShape(16, 16)
	require.NoError(t, err)

	a, err := shape.FullEncrypt(testKey(), 42)
	require.NoError(t, err)
	b, err := shape.FullEncrypt(testKey(), 42)
	require.NoError(t, err)
	c, err := shape.RightEncrypt(testKey(), 43)
	require.NoError(t, err)

	eq, err := Equal(a, b)
	require.NoError(t, err)
	require.True(t, eq)

	eq, err = Equal(a, c)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestEREv1EqualRequiresALeftHalf(t *testing.T) {
	shape, err := NewEREShape(16, 16)
	require.NoError(t, err)

	a, err := shape.RightEncrypt(testKey(), 1)
	require.NoError(t, err)
	b, err := shape.RightEncrypt(testKey(), 1)
	require.NoError(t, err)

	_, err = Equal(a, b)
	require.Error(t, err)
}

func TestEREv1EncodeDecodeRoundTrip(t *testing.T) {
	shape, err := NewEREShape(16, 16)
	require.NoError(t, err)

	ct, err := shape.FullEncrypt(testKey(), 7)
	require.NoError(t, err)

	data, err := ct.Encode()
	require.NoError(t, err)

	decoded, err := shape.Decode(data)
	require.NoError(t, err)

	eq, err := Equal(ct, decoded)
	require.NoError(t, err)
	require.True(t, eq)
}
