package gvas

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

var (
	groupID    = ue.MustParseGuid("5b0e3f61-4bd1-4a3c-9e0f-2f2b8d6c1a77")
	playerUID  = ue.MustParseGuid("00000000-0000-0000-0000-000000000001")
	instanceID = ue.MustParseGuid("c1d0a5e2-7f4b-4e1a-8a33-0b9f52de6e10")
)

func testHeader() *Header {
	return &Header{
		Magic:           Magic,
		SaveGameVersion: 3,
		PackageVersion:  PackageVersion{UE4: 522, HasUE5: true, UE5: 1008},
		EngineVersion: EngineVersion{
			Major:  5,
			Minor:  1,
			Patch:  1,
			Build:  0,
			Branch: "++UE5+Release-5.1",
		},
		CustomFormatVersion: 3,
		CustomFormats: []CustomFormat{
			{ID: ue.MustParseGuid("22d5549c-be4f-26a8-4607-2194d082b461"), Version: 43},
		},
		SaveGameClassName: "/Script/Pal.PalWorldSaveGame",
	}
}

func guidStruct(g ue.Guid) *StructValue {
	return &StructValue{StructType: StructGuid, Value: g}
}

// testSave builds a save exercising every property kind the codec knows.
func testSave() *Save {
	return &Save{
		Header: testHeader(),
		Properties: Properties{
			{Name: "Version", Type: IntProperty, Value: int32(100)},
			{Name: "Timestamp", Type: Int64Property, Value: int64(-5)},
			{Name: "Ratio", Type: FloatProperty, Value: float32(0.5)},
			{Name: "Precise", Type: DoubleProperty, Value: float64(1.25)},
			{Name: "Small", Type: UInt16Property, Value: uint16(7), Index: 2},
			{Name: "IsPlayer", Type: BoolProperty, Value: true},
			{Name: "WithID", Type: BoolProperty, Value: false, ID: &groupID},
			{Name: "NickName", Type: StrProperty, Value: "パル"},
			{Name: "CharacterID", Type: NameProperty, Value: "SheepBall"},
			{Name: "Owner", Type: ObjectProperty, Value: "/Game/Pal/Owner"},
			{Name: "Asset", Type: SoftObjectProperty, Value: SoftObjectPath{AssetPath: "/Game/Pal/Asset", SubPath: ""}},
			{Name: "GroupType", Type: EnumProperty, Value: EnumValue{EnumType: "EPalGroupType", Value: "EPalGroupType::Guild"}},
			{Name: "Rank", Type: ByteProperty, Value: ByteValue{EnumType: "None", Byte: 3}},
			{Name: "Gender", Type: ByteProperty, Value: ByteValue{EnumType: "EPalGenderType", IsLabel: true, Label: "EPalGenderType::Female"}},
			{Name: "Title", Type: TextProperty, Value: TextValue{HistoryType: TextHistoryBase, Namespace: "", Key: "title", SourceString: "Hello"}},
			{Name: "Note", Type: TextProperty, Value: TextValue{Flags: 2, HistoryType: TextHistoryNone, HasCultureInvariant: true, CultureInvariant: "note"}},
			{Name: "Blank", Type: TextProperty, Value: TextValue{HistoryType: TextHistoryNone}},
			{Name: "Id", Type: StructProperty, Value: guidStruct(instanceID)},
			{Name: "Position", Type: StructProperty, Value: &StructValue{StructType: StructVector, Value: Vector{X: 1.5, Y: -2, Z: 1e10}}},
			{Name: "Rotation", Type: StructProperty, Value: &StructValue{StructType: StructQuat, Value: Quat{W: 1}}},
			{Name: "Tint", Type: StructProperty, Value: &StructValue{StructType: StructLinearColor, Value: LinearColor{R: 1, G: 0.5, B: 0.25, A: 1}}},
			{Name: "Color", Type: StructProperty, Value: &StructValue{StructType: StructColor, Value: Color{B: 1, G: 2, R: 3, A: 255}}},
			{Name: "Cell", Type: StructProperty, Value: &StructValue{StructType: StructIntPoint, Value: IntPoint{X: -1, Y: 9}}},
			{Name: "LastOnline", Type: StructProperty, Value: &StructValue{StructType: StructDateTime, Value: ue.DateTime{Ticks: 638412345678901234}}},
			{Name: "Elapsed", Type: StructProperty, Value: &StructValue{StructType: StructTimespan, Value: int64(600000000)}},
			{Name: "Levels", Type: ArrayProperty, Value: &ArrayValue{ElementType: IntProperty, Items: []interface{}{int32(1), int32(2), int32(3)}}},
			{Name: "Names", Type: ArrayProperty, Value: &ArrayValue{ElementType: NameProperty, Items: []interface{}{"a", "b"}}},
			{Name: "RawData", Type: ArrayProperty, Value: &ArrayValue{ElementType: ByteProperty, Bytes: []byte{1, 2, 3, 4, 5}}},
			{Name: "Labels", Type: ArrayProperty, Value: &ArrayValue{ElementType: ByteProperty, Items: []interface{}{"EWork::A", "EWork::B"}}},
			{Name: "Path", Type: ArrayProperty, Value: &ArrayValue{
				ElementType: StructProperty,
				Struct:      &ArrayStructHeader{Name: "Path", StructType: StructVector},
				Items:       []interface{}{Vector{X: 1}, Vector{Y: 2}},
			}},
			{Name: "Slots", Type: ArrayProperty, Value: &ArrayValue{
				ElementType: StructProperty,
				Struct:      &ArrayStructHeader{Name: "Slots", StructType: "PalItemSlot"},
				Items: []interface{}{
					Properties{{Name: "Count", Type: IntProperty, Value: int32(4)}},
				},
			}},
			{Name: "Seen", Type: SetProperty, Value: &SetValue{ElementType: IntProperty, Items: []interface{}{int32(10), int32(20)}}},
			{Name: "Opaque", Type: "FancyProperty", Value: RawValue{0xDE, 0xAD}},
			{Name: "worldSaveData", Type: StructProperty, Value: &StructValue{
				StructType: "PalWorldSaveData",
				Value: Properties{
					{Name: "GroupSaveDataMap", Type: MapProperty, Value: &MapValue{
						KeyType:   StructProperty,
						ValueType: StructProperty,
						Entries: []MapEntry{
							{
								Key: guidStruct(groupID),
								Value: &StructValue{StructType: StructGeneric, Value: Properties{
									{Name: "GroupType", Type: EnumProperty, Value: EnumValue{EnumType: "EPalGroupType", Value: "EPalGroupType::Guild"}},
									{Name: "RawData", Type: ArrayProperty, Value: &ArrayValue{ElementType: ByteProperty, Bytes: []byte{9, 9}}},
								}},
							},
						},
					}},
					{Name: "Counts", Type: MapProperty, Value: &MapValue{
						KeyType:   NameProperty,
						ValueType: IntProperty,
						Removed:   []interface{}{"gone"},
						Entries: []MapEntry{
							{Key: "a", Value: int32(1)},
							{Key: "b", Value: int32(2)},
						},
					}},
					{Name: "CharacterSaveParameterMap", Type: MapProperty, Value: &MapValue{
						KeyType:   StructProperty,
						ValueType: StructProperty,
						Entries: []MapEntry{
							{
								Key: &StructValue{StructType: StructGeneric, Value: Properties{
									{Name: "PlayerUId", Type: StructProperty, Value: guidStruct(playerUID)},
									{Name: "InstanceId", Type: StructProperty, Value: guidStruct(instanceID)},
									{Name: "DebugName", Type: StrProperty, Value: ""},
								}},
								Value: &StructValue{StructType: StructGeneric, Value: Properties{
									{Name: "RawData", Type: ArrayProperty, Value: &ArrayValue{ElementType: ByteProperty, Bytes: []byte{}}},
								}},
							},
						},
					}},
				},
			}},
		},
		Trailer: []byte{0, 0, 0, 0},
	}
}

func testTypes() *Types {
	return NewTypes(map[string]string{
		".worldSaveData.GroupSaveDataMap.Key":          StructGuid,
		".worldSaveData.GroupSaveDataMap.Value":        StructGeneric,
		".worldSaveData.CharacterSaveParameterMap.Key": StructGeneric,
	})
}

func TestSaveRoundTrip(t *testing.T) {
	want := testSave()

	data, err := want.Bytes()
	require.NoError(t, err)

	got, err := ReadSave(data, testTypes())
	require.NoError(t, err)
	if diff := deep.Equal(want, got); diff != nil {
		t.Error(diff)
	}

	again, err := got.Bytes()
	require.NoError(t, err)
	if diff := cmp.Diff(data, again); diff != "" {
		t.Errorf("re-encoded save differs (-first +second):\n%s", diff)
	}
}

func TestHeaderUE4(t *testing.T) {
	h := testHeader()
	h.SaveGameVersion = 2
	h.PackageVersion = PackageVersion{UE4: 522}
	h.EngineVersion.Major = 4

	w := memory.NewWriter()
	h.Write(w)
	got, err := ReadHeader(memory.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.False(t, got.LargeWorldCoordinates())
}

func TestVectorPrecisionFollowsEngineVersion(t *testing.T) {
	prop := Properties{{Name: "Position", Type: StructProperty, Value: &StructValue{StructType: StructVector, Value: Vector{X: 1, Y: 2, Z: 3}}}}

	sizeOf := func(h *Header) uint32 {
		w := memory.NewWriter()
		require.NoError(t, NewCodec(h, nil).WriteProperties(w, prop))
		r := memory.NewReader(w.Bytes())
		_, err := ue.ReadFString(r)
		require.NoError(t, err)
		_, err = ue.ReadFString(r)
		require.NoError(t, err)
		size, err := memory.ReadInt[uint32](r)
		require.NoError(t, err)
		return size
	}

	ue4 := testHeader()
	ue4.EngineVersion.Major = 4
	assert.Equal(t, uint32(24), sizeOf(testHeader()))
	assert.Equal(t, uint32(12), sizeOf(ue4))
	assert.Equal(t, uint32(12), sizeOf(nil))
}

func TestReadHeaderInvalidMagic(t *testing.T) {
	_, err := ReadSave([]byte("PlZ\x00\x00\x00\x00\x00"), nil)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func encodeProperties(t *testing.T, props Properties) []byte {
	t.Helper()
	w := memory.NewWriter()
	require.NoError(t, NewCodec(testHeader(), nil).WriteProperties(w, props))
	return w.Bytes()
}

func TestReadPropertiesSizeMismatch(t *testing.T) {
	data := encodeProperties(t, Properties{{Name: "Level", Type: IntProperty, Value: int32(1)}})

	// name (4+6) + type (4+12): the size field follows
	sizeAt := 10 + 16
	require.Equal(t, byte(4), data[sizeAt])

	t.Run("too small", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[sizeAt] = 2
		_, err := NewCodec(testHeader(), nil).ReadProperties(memory.NewReader(bad))
		assert.ErrorIs(t, err, ErrMalformedProperty)
	})
	t.Run("past the end", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[sizeAt] = 0xFF
		_, err := NewCodec(testHeader(), nil).ReadProperties(memory.NewReader(bad))
		assert.ErrorIs(t, err, memory.ErrTruncated)
	})
}

func TestReadPropertiesTruncated(t *testing.T) {
	data := encodeProperties(t, Properties{{Name: "NickName", Type: StrProperty, Value: "Lamball"}})
	for n := 0; n < len(data); n++ {
		_, err := NewCodec(testHeader(), nil).ReadProperties(memory.NewReader(data[:n]))
		assert.ErrorIs(t, err, memory.ErrTruncated, "prefix of %d bytes", n)
	}
}

func TestReadPropertiesBadGuidFlag(t *testing.T) {
	data := encodeProperties(t, Properties{{Name: "Level", Type: IntProperty, Value: int32(1)}})
	// flag byte follows the index
	flagAt := 10 + 16 + 4 + 4
	require.Equal(t, byte(0), data[flagAt])
	data[flagAt] = 7

	_, err := NewCodec(testHeader(), nil).ReadProperties(memory.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformedProperty)
}

func TestWritePropertiesTypeMismatch(t *testing.T) {
	tests := []Property{
		{Name: "Level", Type: IntProperty, Value: "one"},
		{Name: "Data", Type: StructProperty, Value: int32(1)},
		{Name: "Pos", Type: StructProperty, Value: &StructValue{StructType: StructVector, Value: ue.NilGuid}},
		{Name: "List", Type: ArrayProperty, Value: &ArrayValue{ElementType: IntProperty, Items: []interface{}{"x"}}},
		{Name: "Opaque", Type: "FancyProperty", Value: []byte{1}},
	}
	for _, p := range tests {
		t.Run(p.Name, func(t *testing.T) {
			w := memory.NewWriter()
			err := NewCodec(testHeader(), nil).WriteProperties(w, Properties{p})
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestMapKeyDefaultsToGuid(t *testing.T) {
	props := Properties{{Name: "Bases", Type: MapProperty, Value: &MapValue{
		KeyType:   StructProperty,
		ValueType: StructProperty,
		Entries: []MapEntry{{
			Key:   guidStruct(groupID),
			Value: &StructValue{StructType: StructGeneric, Value: Properties{{Name: "Level", Type: IntProperty, Value: int32(2)}}},
		}},
	}}}
	data := encodeProperties(t, props)

	got, err := NewCodec(testHeader(), nil).ReadProperties(memory.NewReader(data))
	require.NoError(t, err)
	if diff := deep.Equal(props, got); diff != nil {
		t.Error(diff)
	}
}

func TestTypes(t *testing.T) {
	hints := map[string]string{".a.Key": StructGuid}
	types := NewTypes(hints)
	hints[".b.Key"] = StructGeneric

	assert.Equal(t, 1, types.Len())
	structType, ok := types.Lookup(".a.Key")
	assert.True(t, ok)
	assert.Equal(t, StructGuid, structType)
	_, ok = types.Lookup(".b.Key")
	assert.False(t, ok)

	var none *Types
	_, ok = none.Lookup(".a.Key")
	assert.False(t, ok)
	assert.Equal(t, 0, none.Len())
	assert.Equal(t, StructGeneric, none.lookupOr(".a.Key", StructGeneric))
}
