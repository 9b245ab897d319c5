package memory

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInt(t *testing.T) {
	r := NewReader([]byte{
		0x01,
		0x02, 0x01,
		0xFE, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x80, 0x3F,
	})

	u8, err := ReadInt[uint8](r)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := ReadInt[uint16](r)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)

	i32, err := ReadInt[int32](r)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	f32, err := ReadInt[float32](r)
	require.NoError(t, err)
	assert.Equal(t, float32(1), f32)

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 11, r.Offset())
}

func TestReadIntTruncated(t *testing.T) {
	r := NewReader([]byte{0xAA, 0x01, 0x02})
	require.NoError(t, r.Skip(1))

	_, err := ReadInt[uint32](r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))

	var truncated *TruncatedError
	require.True(t, errors.As(err, &truncated))
	assert.Equal(t, 1, truncated.Offset)
	assert.Equal(t, 4, truncated.Need)
	assert.Equal(t, 2, truncated.Have)

	// a failed read does not move the cursor
	assert.Equal(t, 1, r.Offset())
}

func TestTake(t *testing.T) {
	r := NewReader([]byte("PlZ1"))

	_, err := r.Take(-1)
	assert.True(t, errors.Is(err, ErrTruncated))

	b, err := r.Take(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("PlZ"), b)
	assert.Equal(t, []byte("1"), r.Rest())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Rest())
}

func TestExpect(t *testing.T) {
	ok, err := NewReader([]byte("PlZ")).Expect([]byte("PlZ"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewReader([]byte("PLZ")).Expect([]byte("PlZ"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewReader([]byte("Pl")).Expect([]byte("PlZ"))
	assert.True(t, errors.Is(err, ErrTruncated))
}

func TestCheckCount(t *testing.T) {
	r := NewReader(make([]byte, 32))

	assert.NoError(t, CheckCount(r, 2, 16))
	assert.NoError(t, CheckCount(r, 0, 16))
	assert.True(t, errors.Is(CheckCount(r, 3, 16), ErrImplausibleLength))
	assert.True(t, errors.Is(CheckCount(r, 0xFFFFFFFF, 0), ErrImplausibleLength))
}

func TestCheckLength(t *testing.T) {
	r := NewReader(make([]byte, 8))
	require.NoError(t, r.Skip(2))

	assert.NoError(t, CheckLength(r, 6))
	assert.NoError(t, CheckLength(r, 0))

	err := CheckLength(r, 0x7FFFFFFF)
	assert.True(t, errors.Is(err, ErrImplausibleLength))
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.EqualError(t, err, "implausible length 2147483647 at offset 2: 6 bytes left")

	assert.True(t, errors.Is(CheckLength(r, -1), ErrImplausibleLength))
}

func TestWriteInt(t *testing.T) {
	w := NewWriter()
	WriteInt(w, uint32(0x11223344))
	WriteInt(w, int8(-1))
	WriteInt(w, float64(0))
	require.NoError(t, w.WriteByte(0x7F))
	_, err := w.Write([]byte{1, 2})
	require.NoError(t, err)

	assert.Equal(t, []byte{
		0x44, 0x33, 0x22, 0x11,
		0xFF,
		0, 0, 0, 0, 0, 0, 0, 0,
		0x7F,
		1, 2,
	}, w.Bytes())
	assert.Equal(t, 16, w.Len())
}
