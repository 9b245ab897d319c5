package gvas

import (
	"github.com/pkg/errors"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

// Codec reads and writes property lists for one save. The header and type
// hints are fixed at construction.
type Codec struct {
	header *Header
	types  *Types
}

func NewCodec(header *Header, types *Types) *Codec {
	return &Codec{header: header, types: types}
}

func (c *Codec) Header() *Header {
	return c.header
}

// ReadProperties reads properties until the None terminator.
func (c *Codec) ReadProperties(r *memory.Reader) (Properties, error) {
	return c.readProperties(r, "")
}

func (c *Codec) readProperties(r *memory.Reader, path string) (Properties, error) {
	result := Properties{}
	for {
		property, err := c.readProperty(r, path)
		if err != nil {
			return nil, err
		}
		if property == nil {
			break
		}
		result = append(result, *property)
	}
	return result, nil
}

func (c *Codec) readProperty(r *memory.Reader, path string) (*Property, error) {
	start := r.Offset()
	name, err := ue.ReadFString(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read property name")
	}
	if name == noneName {
		return nil, nil
	}

	varType, err := ue.ReadFString(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read type of %s", name)
	}
	varSize, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read size of %s", name)
	}
	index, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index of %s", name)
	}

	property := &Property{Name: name, Type: varType, Index: index}
	err = c.readTaggedValue(r, property, varSize, path+"."+name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read property %s (%s, %d bytes) at offset %d", name, varType, varSize, start)
	}
	return property, nil
}

func readOptionalGuid(r *memory.Reader) (*ue.Guid, error) {
	flag, err := memory.ReadInt[uint8](r)
	if err != nil {
		return nil, err
	}
	switch flag {
	case 0:
		return nil, nil
	case 1:
		guid, err := ue.ReadGuid(r)
		if err != nil {
			return nil, err
		}
		return &guid, nil
	default:
		return nil, errors.Wrapf(ErrMalformedProperty, "property guid flag %d", flag)
	}
}

// readTaggedValue reads the type-specific tag header, the optional property
// guid and then exactly varSize bytes of value.
func (c *Codec) readTaggedValue(r *memory.Reader, p *Property, varSize uint32, path string) error {
	var err error

	switch p.Type {
	case BoolProperty:
		value, err := memory.ReadInt[uint8](r)
		if err != nil {
			return err
		}
		p.Value = value != 0
		p.ID, err = readOptionalGuid(r)
		if err != nil {
			return err
		}
		if varSize != 0 {
			return errors.Wrapf(ErrMalformedProperty, "bool property with size %d", varSize)
		}
		return nil

	case StructProperty:
		structType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		structID, err := ue.ReadGuid(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			value, err := c.readStructValue(r, structType, path)
			p.Value = &StructValue{StructType: structType, StructID: structID, Value: value}
			return err
		})

	case ArrayProperty:
		elementType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			p.Value, err = c.readArrayValue(r, elementType, varSize, path)
			return err
		})

	case MapProperty:
		keyType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		valueType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			p.Value, err = c.readMapValue(r, keyType, valueType, path)
			return err
		})

	case SetProperty:
		elementType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			p.Value, err = c.readSetValue(r, elementType, path)
			return err
		})

	case EnumProperty:
		enumType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			value, err := ue.ReadFString(r)
			p.Value = EnumValue{EnumType: enumType, Value: value}
			return err
		})

	case ByteProperty:
		enumType, err := ue.ReadFString(r)
		if err != nil {
			return err
		}
		if p.ID, err = readOptionalGuid(r); err != nil {
			return err
		}
		return c.sized(r, varSize, func() error {
			value := ByteValue{EnumType: enumType}
			if varSize == 1 {
				value.Byte, err = memory.ReadInt[uint8](r)
			} else {
				value.IsLabel = true
				value.Label, err = ue.ReadFString(r)
			}
			p.Value = value
			return err
		})
	}

	if p.ID, err = readOptionalGuid(r); err != nil {
		return err
	}
	return c.sized(r, varSize, func() error {
		if isKnownValueType(p.Type) {
			p.Value, err = c.readValue(r, p.Type, path)
			return err
		}
		raw, err := r.Take(int(varSize))
		p.Value = RawValue(append([]byte(nil), raw...))
		return err
	})
}

// sized runs read and checks that it consumed exactly varSize bytes.
func (c *Codec) sized(r *memory.Reader, varSize uint32, read func() error) error {
	if int64(varSize) > int64(r.Len()) {
		return &memory.TruncatedError{Offset: r.Offset(), Need: int(varSize), Have: r.Len()}
	}
	start := r.Offset()
	if err := read(); err != nil {
		return err
	}
	if consumed := r.Offset() - start; consumed != int(varSize) {
		return errors.Wrapf(ErrMalformedProperty, "value took %d bytes, tag says %d", consumed, varSize)
	}
	return nil
}

func isKnownValueType(varType string) bool {
	switch varType {
	case Int8Property, Int16Property, IntProperty, Int64Property,
		UInt16Property, UInt32Property, UInt64Property,
		FloatProperty, DoubleProperty, BoolProperty, ByteProperty, EnumProperty,
		StrProperty, NameProperty, ObjectProperty, SoftObjectProperty,
		TextProperty, StructProperty:
		return true
	}
	return false
}

// readValue reads an untagged value as stored in arrays, maps and sets.
func (c *Codec) readValue(r *memory.Reader, varType string, path string) (interface{}, error) {
	switch varType {
	case Int8Property:
		return memory.ReadInt[int8](r)
	case Int16Property:
		return memory.ReadInt[int16](r)
	case IntProperty:
		return memory.ReadInt[int32](r)
	case Int64Property:
		return memory.ReadInt[int64](r)
	case UInt16Property:
		return memory.ReadInt[uint16](r)
	case UInt32Property:
		return memory.ReadInt[uint32](r)
	case UInt64Property:
		return memory.ReadInt[uint64](r)
	case FloatProperty:
		return memory.ReadInt[float32](r)
	case DoubleProperty:
		return memory.ReadInt[float64](r)
	case BoolProperty:
		value, err := memory.ReadInt[uint8](r)
		return value != 0, err
	case ByteProperty:
		return memory.ReadInt[uint8](r)
	case EnumProperty, StrProperty, NameProperty, ObjectProperty:
		return ue.ReadFString(r)
	case SoftObjectProperty:
		return readSoftObjectPath(r)
	case TextProperty:
		return readTextValue(r)
	case StructProperty:
		structType := c.types.lookupOr(path, StructGuid)
		value, err := c.readStructValue(r, structType, path)
		if err != nil {
			return nil, err
		}
		return &StructValue{StructType: structType, Value: value}, nil
	default:
		return nil, errors.Wrapf(ErrMalformedProperty, "unsupported element type %s", varType)
	}
}

func readSoftObjectPath(r *memory.Reader) (SoftObjectPath, error) {
	assetPath, err := ue.ReadFString(r)
	if err != nil {
		return SoftObjectPath{}, err
	}
	subPath, err := ue.ReadFString(r)
	if err != nil {
		return SoftObjectPath{}, err
	}
	return SoftObjectPath{AssetPath: assetPath, SubPath: subPath}, nil
}

func readTextValue(r *memory.Reader) (TextValue, error) {
	flags, err := memory.ReadInt[uint32](r)
	if err != nil {
		return TextValue{}, err
	}
	historyType, err := memory.ReadInt[int8](r)
	if err != nil {
		return TextValue{}, err
	}
	result := TextValue{Flags: flags, HistoryType: historyType}

	switch historyType {
	case TextHistoryBase:
		if result.Namespace, err = ue.ReadFString(r); err != nil {
			return TextValue{}, err
		}
		if result.Key, err = ue.ReadFString(r); err != nil {
			return TextValue{}, err
		}
		if result.SourceString, err = ue.ReadFString(r); err != nil {
			return TextValue{}, err
		}
	case TextHistoryNone:
		flag, err := memory.ReadInt[uint32](r)
		if err != nil {
			return TextValue{}, err
		}
		if flag != 0 {
			result.HasCultureInvariant = true
			if result.CultureInvariant, err = ue.ReadFString(r); err != nil {
				return TextValue{}, err
			}
		}
	default:
		return TextValue{}, errors.Wrapf(ErrMalformedProperty, "unsupported text history type %d", historyType)
	}
	return result, nil
}

func (c *Codec) readStructValue(r *memory.Reader, structType string, path string) (interface{}, error) {
	lwc := c.header.LargeWorldCoordinates()

	switch structType {
	case StructGuid:
		return ue.ReadGuid(r)
	case StructDateTime:
		return ue.ReadDateTime(r)
	case StructTimespan:
		return memory.ReadInt[int64](r)
	case StructVector, StructRotator:
		values, err := readFloats(r, 3, lwc)
		if err != nil {
			return nil, err
		}
		return Vector{X: values[0], Y: values[1], Z: values[2]}, nil
	case StructVector2D:
		values, err := readFloats(r, 2, lwc)
		if err != nil {
			return nil, err
		}
		return Vector2D{X: values[0], Y: values[1]}, nil
	case StructQuat:
		values, err := readFloats(r, 4, lwc)
		if err != nil {
			return nil, err
		}
		return Quat{X: values[0], Y: values[1], Z: values[2], W: values[3]}, nil
	case StructLinearColor:
		values, err := readFloats(r, 4, false)
		if err != nil {
			return nil, err
		}
		return LinearColor{R: float32(values[0]), G: float32(values[1]), B: float32(values[2]), A: float32(values[3])}, nil
	case StructColor:
		b, err := r.Take(4)
		if err != nil {
			return nil, err
		}
		return Color{B: b[0], G: b[1], R: b[2], A: b[3]}, nil
	case StructIntPoint:
		x, err := memory.ReadInt[int32](r)
		if err != nil {
			return nil, err
		}
		y, err := memory.ReadInt[int32](r)
		if err != nil {
			return nil, err
		}
		return IntPoint{X: x, Y: y}, nil
	default:
		return c.readProperties(r, path)
	}
}

func readFloats(r *memory.Reader, n int, double bool) ([]float64, error) {
	values := make([]float64, n)
	for i := range values {
		if double {
			value, err := memory.ReadInt[float64](r)
			if err != nil {
				return nil, err
			}
			values[i] = value
			continue
		}
		value, err := memory.ReadInt[float32](r)
		if err != nil {
			return nil, err
		}
		values[i] = float64(value)
	}
	return values, nil
}

func (c *Codec) readArrayValue(r *memory.Reader, elementType string, varSize uint32, path string) (*ArrayValue, error) {
	arrayLength, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, arrayLength, 1); err != nil {
		return nil, err
	}
	result := &ArrayValue{ElementType: elementType}

	switch {
	case elementType == ByteProperty && varSize == arrayLength+4:
		data, err := r.Take(int(arrayLength))
		if err != nil {
			return nil, err
		}
		result.Bytes = append([]byte{}, data...)
		return result, nil

	case elementType == ByteProperty:
		result.Items = make([]interface{}, arrayLength)
		for i := range result.Items {
			if result.Items[i], err = ue.ReadFString(r); err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
		}
		return result, nil

	case elementType == StructProperty:
		header, innerSize, err := readArrayStructHeader(r)
		if err != nil {
			return nil, err
		}
		result.Struct = header
		result.Items = make([]interface{}, arrayLength)
		err = c.sized(r, innerSize, func() error {
			for i := range result.Items {
				if result.Items[i], err = c.readStructValue(r, header.StructType, path); err != nil {
					return errors.Wrapf(err, "element %d", i)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	result.Items = make([]interface{}, arrayLength)
	for i := range result.Items {
		if result.Items[i], err = c.readValue(r, elementType, path); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	return result, nil
}

func readArrayStructHeader(r *memory.Reader) (*ArrayStructHeader, uint32, error) {
	name, err := ue.ReadFString(r)
	if err != nil {
		return nil, 0, err
	}
	innerType, err := ue.ReadFString(r)
	if err != nil {
		return nil, 0, err
	}
	if innerType != StructProperty {
		return nil, 0, errors.Wrapf(ErrMalformedProperty, "struct array element tag has type %s", innerType)
	}
	size, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, 0, err
	}
	index, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, 0, err
	}
	structType, err := ue.ReadFString(r)
	if err != nil {
		return nil, 0, err
	}
	structID, err := ue.ReadGuid(r)
	if err != nil {
		return nil, 0, err
	}
	id, err := readOptionalGuid(r)
	if err != nil {
		return nil, 0, err
	}
	return &ArrayStructHeader{
		Name:       name,
		StructType: structType,
		StructID:   structID,
		Index:      index,
		ID:         id,
	}, size, nil
}

func (c *Codec) readMapValue(r *memory.Reader, keyType, valueType string, path string) (*MapValue, error) {
	result := &MapValue{KeyType: keyType, ValueType: valueType}
	keyPath := path + ".Key"
	valuePath := path + ".Value"

	removedCount, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, removedCount, 1); err != nil {
		return nil, err
	}
	for i := uint32(0); i < removedCount; i++ {
		key, err := c.readMapElement(r, keyType, keyPath, StructGuid, path)
		if err != nil {
			return nil, errors.Wrapf(err, "removed key %d", i)
		}
		result.Removed = append(result.Removed, key)
	}

	mapLength, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, mapLength, 2); err != nil {
		return nil, err
	}
	result.Entries = make([]MapEntry, mapLength)
	for i := range result.Entries {
		key, err := c.readMapElement(r, keyType, keyPath, StructGuid, path)
		if err != nil {
			return nil, errors.Wrapf(err, "key of entry %d", i)
		}
		value, err := c.readMapElement(r, valueType, valuePath, StructGeneric, path)
		if err != nil {
			return nil, errors.Wrapf(err, "value of entry %d", i)
		}
		result.Entries[i] = MapEntry{Key: key, Value: value}
	}
	return result, nil
}

// readMapElement resolves struct keys and values through the type hints at
// hintPath, using fallback when there is none; nested properties continue at
// path.
func (c *Codec) readMapElement(r *memory.Reader, varType, hintPath, fallback, path string) (interface{}, error) {
	if varType != StructProperty {
		return c.readValue(r, varType, path)
	}
	structType := c.types.lookupOr(hintPath, fallback)
	value, err := c.readStructValue(r, structType, path)
	if err != nil {
		return nil, err
	}
	return &StructValue{StructType: structType, Value: value}, nil
}

func (c *Codec) readSetValue(r *memory.Reader, elementType string, path string) (*SetValue, error) {
	result := &SetValue{ElementType: elementType}

	removedCount, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, removedCount, 1); err != nil {
		return nil, err
	}
	for i := uint32(0); i < removedCount; i++ {
		item, err := c.readMapElement(r, elementType, path+".Key", StructGuid, path)
		if err != nil {
			return nil, errors.Wrapf(err, "removed element %d", i)
		}
		result.Removed = append(result.Removed, item)
	}

	count, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, err
	}
	if err := memory.CheckCount(r, count, 1); err != nil {
		return nil, err
	}
	result.Items = make([]interface{}, count)
	for i := range result.Items {
		if result.Items[i], err = c.readMapElement(r, elementType, path+".Key", StructGuid, path); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	return result, nil
}
