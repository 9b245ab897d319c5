package palworld

import (
	"github.com/pkg/errors"

	"pal-save-edit/gvas"
	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

// CharacterSaveParameter is the RawData blob of a CharacterSaveParameterMap
// entry: a property list, a reserved u32 and the id of the character's group.
type CharacterSaveParameter struct {
	Properties gvas.Properties
	GroupID    ue.Guid
}

// DecodeCharacterSaveParameter decodes a character record. The header must be
// the one of the save the record was taken from.
func DecodeCharacterSaveParameter(header *gvas.Header, data []byte) (*CharacterSaveParameter, error) {
	r := memory.NewReader(data)

	properties, err := gvas.NewCodec(header, nil).ReadProperties(r)
	if err != nil {
		return nil, errors.Wrap(err, "readCharacterSaveParameter: properties")
	}
	if _, err := memory.ReadInt[uint32](r); err != nil {
		return nil, errors.Wrap(err, "readCharacterSaveParameter: reserved field")
	}
	groupID, err := ue.ReadGuid(r)
	if err != nil {
		return nil, errors.Wrap(err, "readCharacterSaveParameter: group id")
	}
	if r.Len() > 0 {
		return nil, errors.Wrapf(ErrTrailingBytes, "%d bytes after character record", r.Len())
	}

	return &CharacterSaveParameter{
		Properties: properties,
		GroupID:    groupID,
	}, nil
}

func EncodeCharacterSaveParameter(header *gvas.Header, c *CharacterSaveParameter) ([]byte, error) {
	w := memory.NewWriter()
	if err := gvas.NewCodec(header, nil).WriteProperties(w, c.Properties); err != nil {
		return nil, errors.Wrap(err, "writeCharacterSaveParameter")
	}
	memory.WriteInt(w, uint32(0))
	ue.WriteGuid(w, c.GroupID)
	return w.Bytes(), nil
}

// CharacterSaveParameterReader binds DecodeCharacterSaveParameter to a header.
func CharacterSaveParameterReader(header *gvas.Header) func([]byte) (*CharacterSaveParameter, error) {
	return func(data []byte) (*CharacterSaveParameter, error) {
		return DecodeCharacterSaveParameter(header, data)
	}
}

// CharacterSaveParameterWriter binds EncodeCharacterSaveParameter to a header.
func CharacterSaveParameterWriter(header *gvas.Header) func(*CharacterSaveParameter) ([]byte, error) {
	return func(c *CharacterSaveParameter) ([]byte, error) {
		return EncodeCharacterSaveParameter(header, c)
	}
}
