package gvas

import (
	"github.com/pkg/errors"

	"pal-save-edit/ue"
)

// Lookup returns a pointer to the first property called name.
func (p Properties) Lookup(name string) (*Property, bool) {
	for i := range p {
		if p[i].Name == name {
			return &p[i], true
		}
	}
	return nil, false
}

func (p Properties) Get(name string) (*Property, error) {
	property, ok := p.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return property, nil
}

// Set replaces the property with the same name or appends it.
func (p *Properties) Set(property Property) {
	if existing, ok := p.Lookup(property.Name); ok {
		*existing = property
		return
	}
	*p = append(*p, property)
}

func typed[T any](p Properties, name, varType string) (T, error) {
	var zero T
	property, err := p.Get(name)
	if err != nil {
		return zero, err
	}
	if property.Type != varType {
		return zero, errors.Wrapf(ErrTypeMismatch, "%q is %s, want %s", name, property.Type, varType)
	}
	value, ok := property.Value.(T)
	if !ok {
		return zero, errors.Wrapf(ErrTypeMismatch, "%q holds %T", name, property.Value)
	}
	return value, nil
}

func (p Properties) Struct(name string) (*StructValue, error) {
	return typed[*StructValue](p, name, StructProperty)
}

// StructProperties returns the nested property list of a struct property.
func (p Properties) StructProperties(name string) (Properties, error) {
	s, err := p.Struct(name)
	if err != nil {
		return nil, err
	}
	props, err := s.Properties()
	if err != nil {
		return nil, errors.Wrapf(err, "%q", name)
	}
	return props, nil
}

// Path follows a chain of nested struct properties.
func (p Properties) Path(names ...string) (Properties, error) {
	current := p
	for i, name := range names {
		next, err := current.StructProperties(name)
		if err != nil {
			return nil, errors.Wrapf(err, "at %v", names[:i+1])
		}
		current = next
	}
	return current, nil
}

func (p Properties) Map(name string) (*MapValue, error) {
	return typed[*MapValue](p, name, MapProperty)
}

func (p Properties) Array(name string) (*ArrayValue, error) {
	return typed[*ArrayValue](p, name, ArrayProperty)
}

// ByteArray returns the payload of a plain byte array property.
func (p Properties) ByteArray(name string) ([]byte, error) {
	array, err := p.Array(name)
	if err != nil {
		return nil, err
	}
	if array.ElementType != ByteProperty || array.Items != nil {
		return nil, errors.Wrapf(ErrTypeMismatch, "%q is an array of %s", name, array.ElementType)
	}
	return array.Bytes, nil
}

// SetByteArray replaces the payload of a plain byte array property in place.
func (p Properties) SetByteArray(name string, data []byte) error {
	array, err := p.Array(name)
	if err != nil {
		return err
	}
	if array.ElementType != ByteProperty || array.Items != nil {
		return errors.Wrapf(ErrTypeMismatch, "%q is an array of %s", name, array.ElementType)
	}
	array.Bytes = data
	return nil
}

func (p Properties) Enum(name string) (EnumValue, error) {
	return typed[EnumValue](p, name, EnumProperty)
}

func (p Properties) Str(name string) (string, error) {
	return typed[string](p, name, StrProperty)
}

func (p Properties) Int(name string) (int32, error) {
	return typed[int32](p, name, IntProperty)
}

func (p Properties) Bool(name string) (bool, error) {
	return typed[bool](p, name, BoolProperty)
}

// Guid returns the value of a Guid struct property.
func (p Properties) Guid(name string) (ue.Guid, error) {
	s, err := p.Struct(name)
	if err != nil {
		return ue.Guid{}, err
	}
	g, ok := s.Value.(ue.Guid)
	if !ok {
		return ue.Guid{}, errors.Wrapf(ErrTypeMismatch, "%q is a %s struct", name, s.StructType)
	}
	return g, nil
}

// Properties returns the nested property list of s.
func (s *StructValue) Properties() (Properties, error) {
	props, ok := s.Value.(Properties)
	if !ok {
		return nil, errors.Wrapf(ErrTypeMismatch, "%s struct holds %T", s.StructType, s.Value)
	}
	return props, nil
}

// AsProperties unwraps a map key or value holding a nested property list.
func AsProperties(v interface{}) (Properties, error) {
	switch value := v.(type) {
	case *StructValue:
		return value.Properties()
	case Properties:
		return value, nil
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "%T is not a property list", v)
}

// AsGuid unwraps a map key or value holding a Guid struct.
func AsGuid(v interface{}) (ue.Guid, error) {
	if s, ok := v.(*StructValue); ok {
		v = s.Value
	}
	g, ok := v.(ue.Guid)
	if !ok {
		return ue.Guid{}, errors.Wrapf(ErrTypeMismatch, "%T is not a Guid", v)
	}
	return g, nil
}
