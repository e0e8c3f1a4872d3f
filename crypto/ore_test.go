package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x11}, 32)
}

func TestOREv1RoundTripOrderViaCompare(t *testing.T) {
	shape, err := NewOREShape(8, 256)
	require.NoError(t, err)

	a, err := shape.FullEncrypt(testKey(), 42)
	require.NoError(t, err)
	b, err := shape.FullEncrypt(testKey(), 7)
	require.NoError(t, err)

	order, err := Compare(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, order)

	order, err = Compare(b, a)
	require.NoError(t, err)
	require.Equal(t, -1, order)
}

func TestOREv1CompareEqualValues(t *testing.T) {
	shape, err := NewOREShape(4, 16)
	require.NoError(t, err)

	a, err := shape.FullEncrypt(testKey(), 100)
	require.NoError(t, err)
	b, err := shape.FullEncrypt(testKey(), 100)
	require.NoError(t, err)

	order, err := Compare(a, b)
	require.NoError(t, err)
	require.Equal(t, 0, order)
}

func TestOREv1CompareWorksWithOnlyOneLeftHalf(t *testing.T) {
	shape, err := NewOREShape(4, 16)
	require.NoError(t, err)

	full, err := shape.FullEncrypt(testKey(), 9)
	require.NoError(t, err)
	rightOnly, err := shape.RightEncrypt(testKey(), 3)
	require.NoError(t, err)

	order, err := Compare(full, rightOnly)
	require.NoError(t, err)
	require.Equal(t, 1, order)

	order, err = Compare(rightOnly, full)
	require.NoError(t, err)
	require.Equal(t, -1, order)
}

func TestOREv1CompareRequiresALeftHalf(t *testing.T) {
	shape, err := NewOREShape(4, 16)
	require.NoError(t, err)

	a, err := shape.RightEncrypt(testKey(), 1)
	require.NoError(t, err)
	b, err := shape.RightEncrypt(testKey(), 2)
	require.NoError(t, err)

	_, err = Compare(a, b)
	require.Error(t, err)
}

func TestOREv1CompareRejectsShapeMismatch(t *testing.T) {
	shapeA, err := NewOREShape(4, 16)
	require.NoError(t, err)
	shapeB, err := NewOREShape(8, 256)
	require.NoError(t, err)

	a, err := shapeA.FullEncrypt(testKey(), 1)
	require.NoError(t, err)
	b, err := shapeB.FullEncrypt(testKey(), 1)
	require.NoError(t, err)

	_, err = Compare(a, b)
	require.Error(t, err)
}

func TestOREv1RightEncryptHasNoLeftHalf(t *testing.T) {
	shape, err := NewOREShape(4, 16)
	require.NoError(t, err)

	ct, err := shape.RightEncrypt(testKey(), 5)
	require.NoError(t, err)
	require.False(t, ct.HasLeft())

	full, err := shape.FullEncrypt(testKey(), 5)
	require.NoError(t, err)
	require.True(t, full.HasLeft())

	full.ClearLeft()
	require.False(t, full.HasLeft())
}

func TestOREv1RejectsOutOfRangeValues(t *testing.T) {
	shape, err := NewOREShape(1, 256)
	require.NoError(t, err)

	_, err = shape.FullEncrypt(testKey(), 256)
	require.Error(t, err)

	_, err = shape.FullEncrypt(testKey(), 255)
	require.NoError(t, err)
}

func TestOREv1EncodeDecodeRoundTrip(t *testing.T) {
	shape, err := NewOREShape(8, 256)
	require.NoError(t, err)

	ct, err := shape.FullEncrypt(testKey(), 12345)
	require.NoError(t, err)

	data, err := ct.Encode()
	require.NoError(t, err)

	decoded, err := shape.Decode(data)
	require.NoError(t, err)
	require.Equal(t, ct.Right, decoded.Right)
	require.Equal(t, ct.Left, decoded.Left)
	require.True(t, decoded.HasLeft())
}

func TestOREv1DecodeRejectsWrongShape(t *testing.T) {
	shape, err := NewOREShape(8, 256)
	require.NoError(t, err)
	ct, err := shape.FullEncrypt(testKey(), 1)
	require.NoError(t, err)
	data, err := ct.Encode()
	require.NoError(t, err)

	otherShape, err := NewOREShape(4, 16)
	require.NoError(t, err)
	_, err = otherShape.Decode(data)
	require.Error(t, err)
}

func TestOREv1FullOrderingAcrossManyValues(t *testing.T) {
	shape, err := NewOREShape(8, 256)
	require.NoError(t, err)

	values := []uint64{0, 1, 255, 256, 65535, 1 << 40, ^uint64(0)}
	key := testKey()

	for i := range values {
		for j := range values {
			a, err := shape.FullEncrypt(key, values[i])
			require.NoError(t, err)
			b, err := shape.FullEncrypt(key, values[j])
			require.NoError(t, err)

			order, err := Compare(a, b)
			require.NoError(t, err)

			switch {
			case values[i] < values[j]:
				require.Equal(t, -1, order)
			case values[i] > values[j]:
				require.Equal(t, 1, order)
			default:
				require.Equal(t, 0, order)
			}
		}
	}
}
