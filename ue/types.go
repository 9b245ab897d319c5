package ue

import (
	"strings"
	"unicode/utf8"

	"pal-save-edit/memory"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

var ErrBadTerminator = errors.New("string is not null-terminated")

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DateTime is an FDateTime: a raw tick count with no epoch applied.
type DateTime struct {
	Ticks uint64
}

func ReadDateTime(r *memory.Reader) (DateTime, error) {
	ticks, err := memory.ReadInt[uint64](r)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Ticks: ticks}, nil
}

func WriteDateTime(w *memory.Writer, d DateTime) {
	memory.WriteInt(w, d.Ticks)
}

// ReadFString reads an FString. A positive length is a byte count including
// the terminator, a negative one a UTF-16 unit count including the
// terminator. Invalid text is replaced with U+FFFD instead of failing.
func ReadFString(r *memory.Reader) (string, error) {
	start := r.Offset()
	stringSize, err := memory.ReadInt[int32](r)
	if err != nil {
		return "", err
	}
	if stringSize == 0 {
		return "", nil
	}

	if stringSize > 0 {
		if err := memory.CheckLength(r, int64(stringSize)); err != nil {
			return "", errors.Wrapf(err, "fstring at offset %d", start)
		}
		data, err := r.Take(int(stringSize))
		if err != nil {
			return "", err
		}
		if data[len(data)-1] != 0 {
			return "", errors.Wrapf(ErrBadTerminator, "fstring at offset %d", start)
		}
		return strings.ToValidUTF8(string(data[:len(data)-1]), string(utf8.RuneError)), nil
	}

	units := -int64(stringSize)
	if err := memory.CheckLength(r, units*2); err != nil {
		return "", errors.Wrapf(err, "unicode fstring at offset %d", start)
	}
	data, err := r.Take(int(units * 2))
	if err != nil {
		return "", err
	}
	if data[len(data)-2] != 0 || data[len(data)-1] != 0 {
		return "", errors.Wrapf(ErrBadTerminator, "unicode fstring at offset %d", start)
	}
	text, err := utf16le.NewDecoder().Bytes(data[:len(data)-2])
	if err != nil {
		return "", errors.Wrapf(err, "unicode fstring at offset %d", start)
	}
	return string(text), nil
}

// IsUnicode reports whether s is written in the UTF-16 form: any character
// taking more than one byte in UTF-8 switches the whole string over.
func IsUnicode(s string) bool {
	return len(s) != utf8.RuneCountInString(s)
}

func WriteFString(w *memory.Writer, s string) {
	if s == "" {
		memory.WriteInt(w, int32(0))
		return
	}
	if IsUnicode(s) {
		// The UTF-16 encoder cannot fail: invalid UTF-8 is written as U+FFFD.
		encoded, _ := utf16le.NewEncoder().Bytes([]byte(s))
		memory.WriteInt(w, -int32(len(encoded)/2)-1)
		w.Write(encoded)
		w.Write([]byte{0, 0})
		return
	}
	memory.WriteInt(w, int32(len(s))+1)
	w.Write([]byte(s))
	w.WriteByte(0)
}

// ReadArray reads a uint32 element count followed by that many elements.
// minSize is the smallest encoded size of one element and bounds the count
// against the remaining input before anything is allocated.
func ReadArray[T any](r *memory.Reader, minSize int, readItem func(*memory.Reader) (T, error)) ([]T, error) {
	count, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, count, minSize); err != nil {
		return nil, err
	}
	items := make([]T, count)
	for i := range items {
		items[i], err = readItem(r)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d of %d", i, count)
		}
	}
	return items, nil
}

func WriteArray[T any](w *memory.Writer, items []T, writeItem func(*memory.Writer, T)) {
	memory.WriteInt(w, uint32(len(items)))
	for _, item := range items {
		writeItem(w, item)
	}
}
