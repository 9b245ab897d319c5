package palworld

import (
	"github.com/pkg/errors"

	"pal-save-edit/gvas"
	"pal-save-edit/ue"
)

const (
	guildGroupType = "EPalGroupType::Guild"
	rawDataName    = "RawData"
)

func WorldSaveData(save *gvas.Save) (gvas.Properties, error) {
	return save.Properties.StructProperties("worldSaveData")
}

func worldMap(save *gvas.Save, name string) (*gvas.MapValue, error) {
	world, err := WorldSaveData(save)
	if err != nil {
		return nil, err
	}
	return world.Map(name)
}

func GroupSaveDataMap(save *gvas.Save) (*gvas.MapValue, error) {
	return worldMap(save, "GroupSaveDataMap")
}

func CharacterSaveParameterMap(save *gvas.Save) (*gvas.MapValue, error) {
	return worldMap(save, "CharacterSaveParameterMap")
}

// IsGuild reports whether a GroupSaveDataMap entry describes a guild, as
// opposed to a neutral or organization group.
func IsGuild(entry gvas.MapEntry) (bool, error) {
	value, err := gvas.AsProperties(entry.Value)
	if err != nil {
		return false, err
	}
	groupType, err := value.Enum("GroupType")
	if errors.Is(err, gvas.ErrTypeMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return groupType.Value == guildGroupType, nil
}

func rawData(v interface{}) (gvas.Properties, []byte, error) {
	props, err := gvas.AsProperties(v)
	if err != nil {
		return nil, nil, err
	}
	data, err := props.ByteArray(rawDataName)
	if err != nil {
		return nil, nil, err
	}
	return props, data, nil
}

// GroupGuildOf decodes the guild record of a GroupSaveDataMap entry.
func GroupGuildOf(entry gvas.MapEntry) (*GroupGuild, error) {
	_, data, err := rawData(entry.Value)
	if err != nil {
		return nil, err
	}
	return DecodeGroupGuild(data)
}

// SetGroupGuild replaces the guild record of a GroupSaveDataMap entry.
func SetGroupGuild(entry gvas.MapEntry, g *GroupGuild) error {
	props, _, err := rawData(entry.Value)
	if err != nil {
		return err
	}
	return props.SetByteArray(rawDataName, EncodeGroupGuild(g))
}

// Guild is a guild record together with the group id it is keyed by.
type Guild struct {
	ID     ue.Guid
	Record *GroupGuild
}

// Guilds decodes every guild in GroupSaveDataMap.
func Guilds(save *gvas.Save) ([]Guild, error) {
	groups, err := GroupSaveDataMap(save)
	if err != nil {
		return nil, err
	}

	var guilds []Guild
	for i, entry := range groups.Entries {
		isGuild, err := IsGuild(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "group %d", i)
		}
		if !isGuild {
			continue
		}
		id, err := gvas.AsGuid(entry.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "group %d", i)
		}
		record, err := GroupGuildOf(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "guild %s", id)
		}
		guilds = append(guilds, Guild{ID: id, Record: record})
	}
	return guilds, nil
}

// CharacterSaveParameterOf decodes the character record of a
// CharacterSaveParameterMap entry.
func CharacterSaveParameterOf(header *gvas.Header, entry gvas.MapEntry) (*CharacterSaveParameter, error) {
	_, data, err := rawData(entry.Value)
	if err != nil {
		return nil, err
	}
	return DecodeCharacterSaveParameter(header, data)
}

// SetCharacterSaveParameter replaces the character record of a
// CharacterSaveParameterMap entry.
func SetCharacterSaveParameter(header *gvas.Header, entry gvas.MapEntry, c *CharacterSaveParameter) error {
	props, _, err := rawData(entry.Value)
	if err != nil {
		return err
	}
	data, err := EncodeCharacterSaveParameter(header, c)
	if err != nil {
		return err
	}
	return props.SetByteArray(rawDataName, data)
}

// CharacterInstanceID returns the InstanceId of a CharacterSaveParameterMap key.
func CharacterInstanceID(entry gvas.MapEntry) (ue.Guid, error) {
	key, err := gvas.AsProperties(entry.Key)
	if err != nil {
		return ue.Guid{}, err
	}
	return key.Guid("InstanceId")
}

// CharacterInstanceIDs collects the instance ids that have a character record.
func CharacterInstanceIDs(save *gvas.Save) (map[ue.Guid]struct{}, error) {
	characters, err := CharacterSaveParameterMap(save)
	if err != nil {
		return nil, err
	}
	ids := make(map[ue.Guid]struct{}, len(characters.Entries))
	for i, entry := range characters.Entries {
		id, err := CharacterInstanceID(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "character %d", i)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

// PlayerIdentity is the player id and character instance id stored in a
// player's own save.
type PlayerIdentity struct {
	PlayerUID  ue.Guid
	InstanceID ue.Guid
}

func ReadPlayerIdentity(player *gvas.Save) (PlayerIdentity, error) {
	individual, err := player.Properties.Path("SaveData", "IndividualId")
	if err != nil {
		return PlayerIdentity{}, err
	}
	playerUID, err := individual.Guid("PlayerUId")
	if err != nil {
		return PlayerIdentity{}, err
	}
	instanceID, err := individual.Guid("InstanceId")
	if err != nil {
		return PlayerIdentity{}, err
	}
	return PlayerIdentity{PlayerUID: playerUID, InstanceID: instanceID}, nil
}
