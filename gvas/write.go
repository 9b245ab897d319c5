package gvas

import (
	"github.com/pkg/errors"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

// WriteProperties writes props followed by the None terminator.
func (c *Codec) WriteProperties(w *memory.Writer, props Properties) error {
	for i := range props {
		if err := c.writeProperty(w, &props[i]); err != nil {
			return err
		}
	}
	ue.WriteFString(w, noneName)
	return nil
}

func mismatch(value interface{}, want string) error {
	return errors.Wrapf(ErrTypeMismatch, "got %T, want %s", value, want)
}

func writeOptionalGuid(w *memory.Writer, id *ue.Guid) {
	if id == nil {
		w.WriteByte(0)
		return
	}
	w.WriteByte(1)
	ue.WriteGuid(w, *id)
}

func (c *Codec) writeProperty(w *memory.Writer, p *Property) error {
	header := memory.NewWriter()
	value := memory.NewWriter()

	if err := c.writeTaggedValue(header, value, p); err != nil {
		return errors.Wrapf(err, "failed to write property %s (%s)", p.Name, p.Type)
	}

	ue.WriteFString(w, p.Name)
	ue.WriteFString(w, p.Type)
	memory.WriteInt(w, uint32(value.Len()))
	memory.WriteInt(w, p.Index)
	w.Write(header.Bytes())
	w.Write(value.Bytes())
	return nil
}

// writeTaggedValue splits a property into the part between the index and the
// value (type header and optional guid) and the value itself, whose length
// becomes the tag size.
func (c *Codec) writeTaggedValue(header, value *memory.Writer, p *Property) error {
	switch p.Type {
	case BoolProperty:
		v, ok := p.Value.(bool)
		if !ok {
			return mismatch(p.Value, "bool")
		}
		if v {
			header.WriteByte(1)
		} else {
			header.WriteByte(0)
		}
		writeOptionalGuid(header, p.ID)
		return nil

	case StructProperty:
		v, ok := p.Value.(*StructValue)
		if !ok {
			return mismatch(p.Value, "*StructValue")
		}
		ue.WriteFString(header, v.StructType)
		ue.WriteGuid(header, v.StructID)
		writeOptionalGuid(header, p.ID)
		return c.writeStructValue(value, v.StructType, v.Value)

	case ArrayProperty:
		v, ok := p.Value.(*ArrayValue)
		if !ok {
			return mismatch(p.Value, "*ArrayValue")
		}
		ue.WriteFString(header, v.ElementType)
		writeOptionalGuid(header, p.ID)
		return c.writeArrayValue(value, v)

	case MapProperty:
		v, ok := p.Value.(*MapValue)
		if !ok {
			return mismatch(p.Value, "*MapValue")
		}
		ue.WriteFString(header, v.KeyType)
		ue.WriteFString(header, v.ValueType)
		writeOptionalGuid(header, p.ID)
		return c.writeMapValue(value, v)

	case SetProperty:
		v, ok := p.Value.(*SetValue)
		if !ok {
			return mismatch(p.Value, "*SetValue")
		}
		ue.WriteFString(header, v.ElementType)
		writeOptionalGuid(header, p.ID)
		return c.writeSetValue(value, v)

	case EnumProperty:
		v, ok := p.Value.(EnumValue)
		if !ok {
			return mismatch(p.Value, "EnumValue")
		}
		ue.WriteFString(header, v.EnumType)
		writeOptionalGuid(header, p.ID)
		ue.WriteFString(value, v.Value)
		return nil

	case ByteProperty:
		v, ok := p.Value.(ByteValue)
		if !ok {
			return mismatch(p.Value, "ByteValue")
		}
		ue.WriteFString(header, v.EnumType)
		writeOptionalGuid(header, p.ID)
		if v.IsLabel {
			ue.WriteFString(value, v.Label)
		} else {
			value.WriteByte(v.Byte)
		}
		return nil
	}

	writeOptionalGuid(header, p.ID)
	if isKnownValueType(p.Type) {
		return c.writeValue(value, p.Type, p.Value)
	}
	raw, ok := p.Value.(RawValue)
	if !ok {
		return mismatch(p.Value, "RawValue")
	}
	value.Write(raw)
	return nil
}

// writeValue writes an untagged value as stored in arrays, maps and sets.
func (c *Codec) writeValue(w *memory.Writer, varType string, v interface{}) error {
	var ok bool
	switch varType {
	case Int8Property:
		var n int8
		if n, ok = v.(int8); ok {
			memory.WriteInt(w, n)
		}
	case Int16Property:
		var n int16
		if n, ok = v.(int16); ok {
			memory.WriteInt(w, n)
		}
	case IntProperty:
		var n int32
		if n, ok = v.(int32); ok {
			memory.WriteInt(w, n)
		}
	case Int64Property:
		var n int64
		if n, ok = v.(int64); ok {
			memory.WriteInt(w, n)
		}
	case UInt16Property:
		var n uint16
		if n, ok = v.(uint16); ok {
			memory.WriteInt(w, n)
		}
	case UInt32Property:
		var n uint32
		if n, ok = v.(uint32); ok {
			memory.WriteInt(w, n)
		}
	case UInt64Property:
		var n uint64
		if n, ok = v.(uint64); ok {
			memory.WriteInt(w, n)
		}
	case FloatProperty:
		var f float32
		if f, ok = v.(float32); ok {
			memory.WriteInt(w, f)
		}
	case DoubleProperty:
		var f float64
		if f, ok = v.(float64); ok {
			memory.WriteInt(w, f)
		}
	case BoolProperty:
		var b bool
		if b, ok = v.(bool); ok {
			if b {
				w.WriteByte(1)
			} else {
				w.WriteByte(0)
			}
		}
	case ByteProperty:
		var b uint8
		if b, ok = v.(uint8); ok {
			w.WriteByte(b)
		}
	case EnumProperty, StrProperty, NameProperty, ObjectProperty:
		var s string
		if s, ok = v.(string); ok {
			ue.WriteFString(w, s)
		}
	case SoftObjectProperty:
		var path SoftObjectPath
		if path, ok = v.(SoftObjectPath); ok {
			ue.WriteFString(w, path.AssetPath)
			ue.WriteFString(w, path.SubPath)
		}
	case TextProperty:
		var text TextValue
		if text, ok = v.(TextValue); ok {
			return writeTextValue(w, text)
		}
	case StructProperty:
		var s *StructValue
		if s, ok = v.(*StructValue); ok {
			return c.writeStructValue(w, s.StructType, s.Value)
		}
	default:
		return errors.Wrapf(ErrMalformedProperty, "unsupported element type %s", varType)
	}
	if !ok {
		return mismatch(v, varType)
	}
	return nil
}

func writeTextValue(w *memory.Writer, text TextValue) error {
	memory.WriteInt(w, text.Flags)
	memory.WriteInt(w, text.HistoryType)
	switch text.HistoryType {
	case TextHistoryBase:
		ue.WriteFString(w, text.Namespace)
		ue.WriteFString(w, text.Key)
		ue.WriteFString(w, text.SourceString)
	case TextHistoryNone:
		if !text.HasCultureInvariant {
			memory.WriteInt(w, uint32(0))
			break
		}
		memory.WriteInt(w, uint32(1))
		ue.WriteFString(w, text.CultureInvariant)
	default:
		return errors.Wrapf(ErrMalformedProperty, "unsupported text history type %d", text.HistoryType)
	}
	return nil
}

func (c *Codec) writeStructValue(w *memory.Writer, structType string, v interface{}) error {
	lwc := c.header.LargeWorldCoordinates()

	switch structType {
	case StructGuid:
		g, ok := v.(ue.Guid)
		if !ok {
			return mismatch(v, "ue.Guid")
		}
		ue.WriteGuid(w, g)
	case StructDateTime:
		d, ok := v.(ue.DateTime)
		if !ok {
			return mismatch(v, "ue.DateTime")
		}
		ue.WriteDateTime(w, d)
	case StructTimespan:
		t, ok := v.(int64)
		if !ok {
			return mismatch(v, "int64")
		}
		memory.WriteInt(w, t)
	case StructVector, StructRotator:
		vec, ok := v.(Vector)
		if !ok {
			return mismatch(v, "Vector")
		}
		writeFloats(w, lwc, vec.X, vec.Y, vec.Z)
	case StructVector2D:
		vec, ok := v.(Vector2D)
		if !ok {
			return mismatch(v, "Vector2D")
		}
		writeFloats(w, lwc, vec.X, vec.Y)
	case StructQuat:
		q, ok := v.(Quat)
		if !ok {
			return mismatch(v, "Quat")
		}
		writeFloats(w, lwc, q.X, q.Y, q.Z, q.W)
	case StructLinearColor:
		col, ok := v.(LinearColor)
		if !ok {
			return mismatch(v, "LinearColor")
		}
		memory.WriteInt(w, col.R)
		memory.WriteInt(w, col.G)
		memory.WriteInt(w, col.B)
		memory.WriteInt(w, col.A)
	case StructColor:
		col, ok := v.(Color)
		if !ok {
			return mismatch(v, "Color")
		}
		w.Write([]byte{col.B, col.G, col.R, col.A})
	case StructIntPoint:
		pt, ok := v.(IntPoint)
		if !ok {
			return mismatch(v, "IntPoint")
		}
		memory.WriteInt(w, pt.X)
		memory.WriteInt(w, pt.Y)
	default:
		props, ok := v.(Properties)
		if !ok {
			return mismatch(v, "Properties")
		}
		return c.WriteProperties(w, props)
	}
	return nil
}

func writeFloats(w *memory.Writer, double bool, values ...float64) {
	for _, value := range values {
		if double {
			memory.WriteInt(w, value)
		} else {
			memory.WriteInt(w, float32(value))
		}
	}
}

func (c *Codec) writeArrayValue(w *memory.Writer, v *ArrayValue) error {
	if v.ElementType == ByteProperty && v.Items == nil {
		memory.WriteInt(w, uint32(len(v.Bytes)))
		w.Write(v.Bytes)
		return nil
	}

	memory.WriteInt(w, uint32(len(v.Items)))

	if v.ElementType == ByteProperty {
		for i, item := range v.Items {
			label, ok := item.(string)
			if !ok {
				return errors.Wrapf(mismatch(item, "string"), "element %d", i)
			}
			ue.WriteFString(w, label)
		}
		return nil
	}

	if v.ElementType == StructProperty {
		if v.Struct == nil {
			return errors.Wrap(ErrMalformedProperty, "struct array without element header")
		}
		elements := memory.NewWriter()
		for i, item := range v.Items {
			if err := c.writeStructValue(elements, v.Struct.StructType, item); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
		ue.WriteFString(w, v.Struct.Name)
		ue.WriteFString(w, StructProperty)
		memory.WriteInt(w, uint32(elements.Len()))
		memory.WriteInt(w, v.Struct.Index)
		ue.WriteFString(w, v.Struct.StructType)
		ue.WriteGuid(w, v.Struct.StructID)
		writeOptionalGuid(w, v.Struct.ID)
		w.Write(elements.Bytes())
		return nil
	}

	for i, item := range v.Items {
		if err := c.writeValue(w, v.ElementType, item); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (c *Codec) writeMapValue(w *memory.Writer, v *MapValue) error {
	memory.WriteInt(w, uint32(len(v.Removed)))
	for i, key := range v.Removed {
		if err := c.writeValue(w, v.KeyType, key); err != nil {
			return errors.Wrapf(err, "removed key %d", i)
		}
	}
	memory.WriteInt(w, uint32(len(v.Entries)))
	for i, entry := range v.Entries {
		if err := c.writeValue(w, v.KeyType, entry.Key); err != nil {
			return errors.Wrapf(err, "key of entry %d", i)
		}
		if err := c.writeValue(w, v.ValueType, entry.Value); err != nil {
			return errors.Wrapf(err, "value of entry %d", i)
		}
	}
	return nil
}

func (c *Codec) writeSetValue(w *memory.Writer, v *SetValue) error {
	memory.WriteInt(w, uint32(len(v.Removed)))
	for i, item := range v.Removed {
		if err := c.writeValue(w, v.ElementType, item); err != nil {
			return errors.Wrapf(err, "removed element %d", i)
		}
	}
	memory.WriteInt(w, uint32(len(v.Items)))
	for i, item := range v.Items {
		if err := c.writeValue(w, v.ElementType, item); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}
