package palworld

import (
	"pal-save-edit/gvas"
	"pal-save-edit/ue"
)

const (
	characterParameterStruct = "PalIndividualCharacterSaveParameter"
	saveParameterName        = "SaveParameter"
)

func intProperty(name string, v int32) gvas.Property {
	return gvas.Property{Name: name, Type: gvas.IntProperty, Value: v}
}

func floatProperty(name string, v float32) gvas.Property {
	return gvas.Property{Name: name, Type: gvas.FloatProperty, Value: v}
}

func strProperty(name, v string) gvas.Property {
	return gvas.Property{Name: name, Type: gvas.StrProperty, Value: v}
}

func structProperty(name, structType string, v interface{}) gvas.Property {
	return gvas.Property{
		Name:  name,
		Type:  gvas.StructProperty,
		Value: &gvas.StructValue{StructType: structType, Value: v},
	}
}

func guidProperty(name string, id ue.Guid) gvas.Property {
	return structProperty(name, gvas.StructGuid, id)
}

// fixedPoint64 is the game's FixedPoint64 struct: an Int64 scaled by 1000.
func fixedPoint64(name string, v int64) gvas.Property {
	return structProperty(name, "FixedPoint64", gvas.Properties{
		{Name: "Value", Type: gvas.Int64Property, Value: v},
	})
}

// CharacterTemplate returns the property list of a freshly created level 1
// player character. Every call returns a new tree.
func CharacterTemplate() gvas.Properties {
	return gvas.Properties{
		structProperty(saveParameterName, characterParameterStruct, gvas.Properties{
			intProperty("Level", 1),
			strProperty("NickName", ""),
			fixedPoint64("HP", 500000),
			floatProperty("FullStomach", 150),
			{Name: "IsPlayer", Type: gvas.BoolProperty, Value: true},
			fixedPoint64("MaxHP", 500000),
			intProperty("Support", 100),
			intProperty("CraftSpeed", 100),
			fixedPoint64("ShieldHP", 0),
			fixedPoint64("ShieldMaxHP", 0),
			fixedPoint64("MaxSP", 100000),
			floatProperty("SanityValue", 100),
		}),
	}
}

// NewCharacterSaveParameter builds a character record for a player from the
// built-in template, named nickName and belonging to groupID.
func NewCharacterSaveParameter(nickName string, groupID ue.Guid) *CharacterSaveParameter {
	props := CharacterTemplate()
	if err := setNickName(props, nickName); err != nil {
		panic(err)
	}
	return &CharacterSaveParameter{Properties: props, GroupID: groupID}
}

// setNickName replaces SaveParameter.NickName in a character property list.
func setNickName(props gvas.Properties, nickName string) error {
	s, err := props.Struct(saveParameterName)
	if err != nil {
		return err
	}
	params, err := s.Properties()
	if err != nil {
		return err
	}
	params.Set(strProperty("NickName", nickName))
	s.Value = params
	return nil
}

// isPlayerCharacter reports whether a character property list has
// SaveParameter.IsPlayer set. Pals carry no IsPlayer flag.
func isPlayerCharacter(props gvas.Properties) bool {
	params, err := props.StructProperties(saveParameterName)
	if err != nil {
		return false
	}
	isPlayer, err := params.Bool("IsPlayer")
	return err == nil && isPlayer
}
