package palworld

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pal-save-edit/gvas"
	"pal-save-edit/ue"
)

type RepairOptions struct {
	// Logger defaults to a logger that discards everything.
	Logger logrus.FieldLogger
}

// RepairReport lists what Repair found and changed.
type RepairReport struct {
	Guilds  []Guild
	Missing []PlayerIdentity
	Created []PlayerIdentity
	// Skipped players have no character record and are not a member of any
	// guild, so there is no name or group to build one from.
	Skipped []PlayerIdentity
	// TemplateInstance is the instance id of the player character the new
	// records were copied from, or the nil Guid when the level holds no player
	// character and the built-in template was used.
	TemplateInstance ue.Guid
}

// Changed reports whether Repair added anything to the level save.
func (r *RepairReport) Changed() bool {
	return len(r.Created) > 0
}

func discardLogger() *logrus.Logger {
	return &logrus.Logger{
		Out:       io.Discard,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.PanicLevel,
	}
}

// Repair adds a character record to level for every player save whose
// character instance is missing from CharacterSaveParameterMap. The new
// record is a copy of an existing player character of the level, or of
// CharacterTemplate when there is none, named after the player's guild
// membership and belonging to that guild. level is modified in place.
func Repair(level *gvas.Save, players []*gvas.Save, opts RepairOptions) (*RepairReport, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	report := &RepairReport{}

	guilds, err := Guilds(level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read guilds")
	}
	report.Guilds = guilds
	for _, guild := range guilds {
		log.WithFields(logrus.Fields{
			"guild":   guild.Record.GuildName,
			"id":      guild.ID,
			"members": len(guild.Record.Players),
		}).Debug("found guild")
	}

	present, err := CharacterInstanceIDs(level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read character instance ids")
	}
	log.Debugf("level save has %d character records", len(present))

	characters, err := CharacterSaveParameterMap(level)
	if err != nil {
		return nil, err
	}

	var template *characterTemplate
	for i, player := range players {
		identity, err := ReadPlayerIdentity(player)
		if err != nil {
			return nil, errors.Wrapf(err, "player save %d", i)
		}
		entry := log.WithFields(logrus.Fields{
			"player":   identity.PlayerUID,
			"instance": identity.InstanceID,
		})
		if _, ok := present[identity.InstanceID]; ok {
			entry.Debug("character record present")
			continue
		}
		report.Missing = append(report.Missing, identity)

		guildID, member, ok := findMember(guilds, identity.PlayerUID)
		if !ok {
			entry.Warn("player has no character record and no guild, skipping")
			report.Skipped = append(report.Skipped, identity)
			continue
		}

		if template == nil {
			template = findCharacterTemplate(level.Header, characters, log)
			report.TemplateInstance = template.instanceID
		}
		record, err := template.newRecord(level.Header, member.PlayerName, guildID)
		if err != nil {
			return nil, errors.Wrapf(err, "player %s", identity.PlayerUID)
		}
		mapEntry, err := newCharacterEntry(level.Header, identity, record)
		if err != nil {
			return nil, errors.Wrapf(err, "player %s", identity.PlayerUID)
		}
		characters.Entries = append(characters.Entries, mapEntry)
		present[identity.InstanceID] = struct{}{}
		report.Created = append(report.Created, identity)
		entry.WithField("name", member.PlayerName).Info("created character record")
	}

	return report, nil
}

// characterTemplate is the RawData of the player character new records are
// copied from. A nil data means the built-in template.
type characterTemplate struct {
	instanceID ue.Guid
	data       []byte
}

func findCharacterTemplate(header *gvas.Header, characters *gvas.MapValue, log logrus.FieldLogger) *characterTemplate {
	for i, entry := range characters.Entries {
		c, err := CharacterSaveParameterOf(header, entry)
		if err != nil {
			log.WithError(err).Debugf("character %d is not usable as a template", i)
			continue
		}
		if !isPlayerCharacter(c.Properties) {
			continue
		}
		instanceID, err := CharacterInstanceID(entry)
		if err != nil {
			continue
		}
		_, data, _ := rawData(entry.Value)
		log.WithField("instance", instanceID).Debug("copying new character records from player character")
		return &characterTemplate{instanceID: instanceID, data: append([]byte(nil), data...)}
	}
	log.Debug("no player character in level save, using the built-in template")
	return &characterTemplate{}
}

// newRecord decodes a fresh copy of the template, so records never share a
// property tree.
func (t *characterTemplate) newRecord(header *gvas.Header, nickName string, groupID ue.Guid) (*CharacterSaveParameter, error) {
	if t.data == nil {
		return NewCharacterSaveParameter(nickName, groupID), nil
	}
	c, err := DecodeCharacterSaveParameter(header, t.data)
	if err != nil {
		return nil, err
	}
	if err := setNickName(c.Properties, nickName); err != nil {
		return nil, errors.Wrap(err, "template character")
	}
	c.GroupID = groupID
	return c, nil
}

func findMember(guilds []Guild, playerUID ue.Guid) (ue.Guid, *GuildPlayerInfo, bool) {
	for _, guild := range guilds {
		if member, ok := guild.Record.Player(playerUID); ok {
			return guild.ID, member, true
		}
	}
	return ue.Guid{}, nil, false
}

func newCharacterEntry(header *gvas.Header, identity PlayerIdentity, record *CharacterSaveParameter) (gvas.MapEntry, error) {
	data, err := EncodeCharacterSaveParameter(header, record)
	if err != nil {
		return gvas.MapEntry{}, err
	}
	key := gvas.Properties{
		guidProperty("PlayerUId", identity.PlayerUID),
		guidProperty("InstanceId", identity.InstanceID),
		strProperty("DebugName", ""),
	}
	value := gvas.Properties{
		{
			Name:  rawDataName,
			Type:  gvas.ArrayProperty,
			Value: &gvas.ArrayValue{ElementType: gvas.ByteProperty, Bytes: data},
		},
	}
	return gvas.MapEntry{
		Key:   &gvas.StructValue{StructType: gvas.StructGeneric, Value: key},
		Value: &gvas.StructValue{StructType: gvas.StructGeneric, Value: value},
	}, nil
}
