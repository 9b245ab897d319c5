package palworld

import (
	"pal-save-edit/gvas"
	"pal-save-edit/ue"
)

func testHeader() *gvas.Header {
	return &gvas.Header{
		Magic:           gvas.Magic,
		SaveGameVersion: 3,
		PackageVersion:  gvas.PackageVersion{UE4: 522, HasUE5: true, UE5: 1008},
		EngineVersion: gvas.EngineVersion{
			Major:  5,
			Minor:  1,
			Patch:  1,
			Branch: "++UE5+Release-5.1",
		},
		CustomFormatVersion: 3,
		CustomFormats:       []gvas.CustomFormat{},
		SaveGameClassName:   "/Script/Pal.PalWorldSaveGame",
	}
}

func groupEntry(id ue.Guid, groupType string, raw []byte) gvas.MapEntry {
	return gvas.MapEntry{
		Key: &gvas.StructValue{StructType: gvas.StructGuid, Value: id},
		Value: &gvas.StructValue{StructType: gvas.StructGeneric, Value: gvas.Properties{
			{Name: "GroupType", Type: gvas.EnumProperty, Value: gvas.EnumValue{EnumType: "EPalGroupType", Value: groupType}},
			{Name: "RawData", Type: gvas.ArrayProperty, Value: &gvas.ArrayValue{ElementType: gvas.ByteProperty, Bytes: raw}},
		}},
	}
}

func characterEntry(header *gvas.Header, playerUID, instanceID ue.Guid, c *CharacterSaveParameter) gvas.MapEntry {
	entry, err := newCharacterEntry(header, PlayerIdentity{PlayerUID: playerUID, InstanceID: instanceID}, c)
	if err != nil {
		panic(err)
	}
	return entry
}

// testLevel builds a world save holding testGuild, a neutral group and a
// character record for the guild admin only.
func testLevel() *gvas.Save {
	header := testHeader()
	neutralID := ue.MustParseGuid("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	return &gvas.Save{
		Header: header,
		Properties: gvas.Properties{
			{Name: "Version", Type: gvas.IntProperty, Value: int32(100)},
			{Name: "worldSaveData", Type: gvas.StructProperty, Value: &gvas.StructValue{
				StructType: "PalWorldSaveData",
				Value: gvas.Properties{
					{Name: "CharacterSaveParameterMap", Type: gvas.MapProperty, Value: &gvas.MapValue{
						KeyType:   gvas.StructProperty,
						ValueType: gvas.StructProperty,
						Entries: []gvas.MapEntry{
							characterEntry(header, adminUID, adminInst, NewCharacterSaveParameter("Admin", guildID)),
						},
					}},
					{Name: "GroupSaveDataMap", Type: gvas.MapProperty, Value: &gvas.MapValue{
						KeyType:   gvas.StructProperty,
						ValueType: gvas.StructProperty,
						Entries: []gvas.MapEntry{
							groupEntry(neutralID, "EPalGroupType::Neutral", []byte{1, 2, 3}),
							groupEntry(guildID, "EPalGroupType::Guild", EncodeGroupGuild(testGuild())),
						},
					}},
				},
			}},
		},
		Trailer: []byte{0, 0, 0, 0},
	}
}

func testPlayer(playerUID, instanceID ue.Guid) *gvas.Save {
	return &gvas.Save{
		Header: testHeader(),
		Properties: gvas.Properties{
			{Name: "SaveData", Type: gvas.StructProperty, Value: &gvas.StructValue{
				StructType: "PalWorldPlayerSaveData",
				Value: gvas.Properties{
					{Name: "IndividualId", Type: gvas.StructProperty, Value: &gvas.StructValue{
						StructType: "PalInstanceID",
						Value: gvas.Properties{
							guidProperty("PlayerUId", playerUID),
							guidProperty("InstanceId", instanceID),
						},
					}},
				},
			}},
		},
		Trailer: []byte{0, 0, 0, 0},
	}
}
