package memory

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is matched by every *TruncatedError.
	ErrTruncated = errors.New("truncated input")
	// ErrImplausibleLength is returned when a length prefix cannot possibly be
	// satisfied by the remaining input.
	ErrImplausibleLength = errors.New("implausible length")
)

type TruncatedError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// CheckCount rejects an element count that would need more than the
// remaining input, assuming every element occupies at least minSize bytes.
func CheckCount(r *Reader, count uint32, minSize int) error {
	if minSize < 1 {
		minSize = 1
	}
	if uint64(count)*uint64(minSize) > uint64(r.Len()) {
		return errors.Wrapf(ErrImplausibleLength, "%d elements at offset %d with %d bytes left", count, r.Offset(), r.Len())
	}
	return nil
}

// LengthError is a length prefix asking for more bytes than the input has
// left. It matches both ErrImplausibleLength and ErrTruncated.
type LengthError struct {
	Offset int
	Length int64
	Have   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("implausible length %d at offset %d: %d bytes left", e.Length, e.Offset, e.Have)
}

func (e *LengthError) Is(target error) bool {
	return target == ErrImplausibleLength || target == ErrTruncated
}

// CheckLength rejects a byte length that runs past the end of the input.
func CheckLength(r *Reader, length int64) error {
	if length < 0 || length > int64(r.Len()) {
		return &LengthError{Offset: r.Offset(), Length: length, Have: r.Len()}
	}
	return nil
}
