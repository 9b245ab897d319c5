package ue

import (
	"pal-save-edit/memory"

	uuid "github.com/satori/go.uuid"
)

// Guid is an FGuid held in its canonical (textual) byte order. On the wire
// the engine stores it as four little-endian uint32 words, so the bytes of
// each 4-byte group appear reversed.
type Guid struct {
	uuid.UUID
}

var NilGuid = Guid{}

func NewGuid() Guid {
	return Guid{uuid.NewV4()}
}

func ParseGuid(s string) (Guid, error) {
	u, err := uuid.FromString(s)
	if err != nil {
		return Guid{}, err
	}
	return Guid{u}, nil
}

func MustParseGuid(s string) Guid {
	return Guid{uuid.Must(uuid.FromString(s))}
}

// GuidFromWire converts 16 bytes in wire order to a Guid.
func GuidFromWire(b [16]byte) Guid {
	return Guid{uuid.UUID(permuteGuid(b))}
}

// Wire returns the 16 bytes in wire order.
func (g Guid) Wire() [16]byte {
	return permuteGuid([16]byte(g.UUID))
}

func (g Guid) IsNil() bool {
	return g.UUID == uuid.Nil
}

// permuteGuid is its own inverse.
func permuteGuid(b [16]byte) [16]byte {
	var out [16]byte
	for i := range b {
		out[i] = b[(i&^3)+3-(i&3)]
	}
	return out
}

func ReadGuid(r *memory.Reader) (Guid, error) {
	b, err := r.Take(16)
	if err != nil {
		return Guid{}, err
	}
	return GuidFromWire([16]byte(b)), nil
}

func WriteGuid(w *memory.Writer, g Guid) {
	b := g.Wire()
	w.Write(b[:])
}
