package memory

import (
	"encoding/binary"
)

type Int interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64
}

type Number interface {
	Int | float32 | float64
}

// Reader is a cursor over an in-memory byte slice. Every read that runs past
// the end fails with a *TruncatedError carrying the offset of the read.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Take returns the next n bytes without copying them.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, &TruncatedError{Offset: r.off, Need: n, Have: r.Len()}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Take(n)
	return err
}

// Expect consumes len(want) bytes and reports whether they match want.
func (r *Reader) Expect(want []byte) (bool, error) {
	b, err := r.Take(len(want))
	if err != nil {
		return false, err
	}
	for i := range want {
		if b[i] != want[i] {
			return false, nil
		}
	}
	return true, nil
}

// Rest returns all unread bytes and moves the cursor to the end.
func (r *Reader) Rest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

func ReadInt[T Number](r *Reader) (T, error) {
	var value T
	b, err := r.Take(binary.Size(value))
	if err != nil {
		return 0, err
	}
	if _, err := binary.Decode(b, binary.LittleEndian, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// Writer accumulates little-endian encoded values. Writes never fail.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *Writer) WriteByte(c byte) error {
	w.buf = append(w.buf, c)
	return nil
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func WriteInt[T Number](w *Writer, value T) {
	w.buf, _ = binary.Append(w.buf, binary.LittleEndian, value)
}
