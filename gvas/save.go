package gvas

import (
	"github.com/pkg/errors"

	"pal-save-edit/memory"
)

// Save is a decoded GVAS save: header, root property list and whatever
// follows the root's None terminator, kept verbatim.
type Save struct {
	Header     *Header
	Properties Properties
	Trailer    []byte
}

func ReadSave(data []byte, types *Types) (*Save, error) {
	r := memory.NewReader(data)

	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	properties, err := NewCodec(header, types).ReadProperties(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read root properties")
	}

	return &Save{
		Header:     header,
		Properties: properties,
		Trailer:    append([]byte{}, r.Rest()...),
	}, nil
}

// Codec returns a codec bound to the save's header, for property lists
// embedded in it.
func (s *Save) Codec(types *Types) *Codec {
	return NewCodec(s.Header, types)
}

func (s *Save) Bytes() ([]byte, error) {
	w := memory.NewWriter()
	s.Header.Write(w)
	if err := s.Codec(nil).WriteProperties(w, s.Properties); err != nil {
		return nil, errors.Wrap(err, "failed to write root properties")
	}
	w.Write(s.Trailer)
	return w.Bytes(), nil
}
