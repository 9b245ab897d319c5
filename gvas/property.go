package gvas

import (
	"pal-save-edit/ue"
)

const (
	Int8Property       = "Int8Property"
	Int16Property      = "Int16Property"
	IntProperty        = "IntProperty"
	Int64Property      = "Int64Property"
	UInt16Property     = "UInt16Property"
	UInt32Property     = "UInt32Property"
	UInt64Property     = "UInt64Property"
	FloatProperty      = "FloatProperty"
	DoubleProperty     = "DoubleProperty"
	BoolProperty       = "BoolProperty"
	ByteProperty       = "ByteProperty"
	EnumProperty       = "EnumProperty"
	StrProperty        = "StrProperty"
	NameProperty       = "NameProperty"
	ObjectProperty     = "ObjectProperty"
	SoftObjectProperty = "SoftObjectProperty"
	TextProperty       = "TextProperty"
	StructProperty     = "StructProperty"
	ArrayProperty      = "ArrayProperty"
	MapProperty        = "MapProperty"
	SetProperty        = "SetProperty"

	// noneName terminates every property list.
	noneName = "None"
)

// Property is one tagged value of a property list. The Go type of Value
// depends on Type:
//
//	Int8Property .. UInt64Property   int8 .. uint64
//	FloatProperty, DoubleProperty    float32, float64
//	BoolProperty                     bool
//	StrProperty, NameProperty,
//	ObjectProperty                   string
//	SoftObjectProperty               SoftObjectPath
//	EnumProperty                     EnumValue
//	ByteProperty                     ByteValue
//	TextProperty                     TextValue
//	StructProperty                   *StructValue
//	ArrayProperty                    *ArrayValue
//	MapProperty                      *MapValue
//	SetProperty                      *SetValue
//	anything else                    RawValue
type Property struct {
	Name  string
	Type  string
	Index uint32
	ID    *ue.Guid `json:",omitempty"`
	Value interface{}
}

// Properties is an ordered property list.
type Properties []Property

type SoftObjectPath struct {
	AssetPath string
	SubPath   string
}

type EnumValue struct {
	EnumType string
	Value    string
}

// ByteValue is either a plain byte or, for enum-backed bytes, a label.
type ByteValue struct {
	EnumType string
	IsLabel  bool
	Byte     uint8
	Label    string
}

const (
	TextHistoryNone = -1
	TextHistoryBase = 0
)

type TextValue struct {
	Flags       uint32
	HistoryType int8

	// TextHistoryBase
	Namespace    string `json:",omitempty"`
	Key          string `json:",omitempty"`
	SourceString string `json:",omitempty"`

	// TextHistoryNone
	HasCultureInvariant bool   `json:",omitempty"`
	CultureInvariant    string `json:",omitempty"`
}

// Struct type names with a fixed binary layout. Every other struct type is a
// nested property list.
const (
	StructGuid        = "Guid"
	StructDateTime    = "DateTime"
	StructTimespan    = "Timespan"
	StructVector      = "Vector"
	StructVector2D    = "Vector2D"
	StructRotator     = "Rotator"
	StructQuat        = "Quat"
	StructLinearColor = "LinearColor"
	StructColor       = "Color"
	StructIntPoint    = "IntPoint"

	// StructGeneric is the hint for a nested property list.
	StructGeneric = "Struct"
)

// StructValue holds a struct and its type. Value is ue.Guid, ue.DateTime,
// int64 (Timespan), Vector, Vector2D, Quat, LinearColor, Color, IntPoint or
// Properties depending on StructType.
type StructValue struct {
	StructType string
	StructID   ue.Guid
	Value      interface{}
}

type Vector struct {
	X, Y, Z float64
}

type Vector2D struct {
	X, Y float64
}

type Quat struct {
	X, Y, Z, W float64
}

type LinearColor struct {
	R, G, B, A float32
}

type Color struct {
	B, G, R, A uint8
}

type IntPoint struct {
	X, Y int32
}

// ArrayStructHeader is the inner tag that precedes the elements of an array
// of structs.
type ArrayStructHeader struct {
	Name       string
	StructType string
	StructID   ue.Guid
	Index      uint32
	ID         *ue.Guid `json:",omitempty"`
}

// ArrayValue holds the elements of an array. Plain byte arrays are kept in
// Bytes; struct arrays have Struct set and hold the struct values in Items;
// every other element type is held in Items.
type ArrayValue struct {
	ElementType string
	Bytes       []byte             `json:",omitempty"`
	Struct      *ArrayStructHeader `json:",omitempty"`
	Items       []interface{}      `json:",omitempty"`
}

// MapEntry keys and values are raw (untagged) values; struct keys and values
// are *StructValue with a zero StructID.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

type MapValue struct {
	KeyType   string
	ValueType string
	Removed   []interface{} `json:",omitempty"`
	Entries   []MapEntry
}

type SetValue struct {
	ElementType string
	Removed     []interface{} `json:",omitempty"`
	Items       []interface{}
}

// RawValue keeps the bytes of a property type this package does not decode.
type RawValue []byte
