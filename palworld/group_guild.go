package palworld

import (
	"github.com/pkg/errors"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

// InstanceID identifies one character instance owned by a player.
type InstanceID struct {
	PlayerUID  ue.Guid
	InstanceID ue.Guid
}

type GuildPlayerInfo struct {
	PlayerUID          ue.Guid
	LastOnlineRealTime ue.DateTime
	PlayerName         string
}

// GroupGuild is the RawData blob of a guild entry in GroupSaveDataMap.
//
// Wire layout, in order:
//
//	guid        GroupID
//	fstring     MaybeOwner
//	[]InstanceID InstanceIDs
//	u8          Reserved
//	[]guid      UnknownGUIDs
//	u32         BaseCampLevel
//	[]guid      UnknownGUIDs2
//	fstring     GuildName
//	guid        AdminPlayerUID
//	[]GuildPlayerInfo Players
//
// Every array is a u32 count followed by its elements.
type GroupGuild struct {
	GroupID        ue.Guid
	MaybeOwner     string
	InstanceIDs    []InstanceID
	Reserved       uint8
	UnknownGUIDs   []ue.Guid
	BaseCampLevel  uint32
	UnknownGUIDs2  []ue.Guid
	GuildName      string
	AdminPlayerUID ue.Guid
	Players        []GuildPlayerInfo
}

// Player returns the member with the given player id.
func (g *GroupGuild) Player(playerUID ue.Guid) (*GuildPlayerInfo, bool) {
	for i := range g.Players {
		if g.Players[i].PlayerUID == playerUID {
			return &g.Players[i], true
		}
	}
	return nil, false
}

func readInstanceID(r *memory.Reader) (InstanceID, error) {
	playerUID, err := ue.ReadGuid(r)
	if err != nil {
		return InstanceID{}, err
	}
	instanceID, err := ue.ReadGuid(r)
	if err != nil {
		return InstanceID{}, err
	}
	return InstanceID{PlayerUID: playerUID, InstanceID: instanceID}, nil
}

func writeInstanceID(w *memory.Writer, id InstanceID) {
	ue.WriteGuid(w, id.PlayerUID)
	ue.WriteGuid(w, id.InstanceID)
}

func readGuildPlayerInfo(r *memory.Reader) (GuildPlayerInfo, error) {
	playerUID, err := ue.ReadGuid(r)
	if err != nil {
		return GuildPlayerInfo{}, err
	}
	lastOnline, err := ue.ReadDateTime(r)
	if err != nil {
		return GuildPlayerInfo{}, err
	}
	name, err := ue.ReadFString(r)
	if err != nil {
		return GuildPlayerInfo{}, err
	}
	return GuildPlayerInfo{
		PlayerUID:          playerUID,
		LastOnlineRealTime: lastOnline,
		PlayerName:         name,
	}, nil
}

func writeGuildPlayerInfo(w *memory.Writer, info GuildPlayerInfo) {
	ue.WriteGuid(w, info.PlayerUID)
	ue.WriteDateTime(w, info.LastOnlineRealTime)
	ue.WriteFString(w, info.PlayerName)
}

func DecodeGroupGuild(data []byte) (*GroupGuild, error) {
	r := memory.NewReader(data)
	g := &GroupGuild{}
	var err error

	if g.GroupID, err = ue.ReadGuid(r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: group id")
	}
	if g.MaybeOwner, err = ue.ReadFString(r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: owner")
	}
	if g.InstanceIDs, err = ue.ReadArray(r, 32, readInstanceID); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: instance ids")
	}
	if g.Reserved, err = memory.ReadInt[uint8](r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: reserved byte")
	}
	if g.UnknownGUIDs, err = ue.ReadArray(r, 16, ue.ReadGuid); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: first guid list")
	}
	if g.BaseCampLevel, err = memory.ReadInt[uint32](r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: base camp level")
	}
	if g.UnknownGUIDs2, err = ue.ReadArray(r, 16, ue.ReadGuid); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: second guid list")
	}
	if g.GuildName, err = ue.ReadFString(r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: guild name")
	}
	if g.AdminPlayerUID, err = ue.ReadGuid(r); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: admin")
	}
	// player id + ticks + empty string
	if g.Players, err = ue.ReadArray(r, 28, readGuildPlayerInfo); err != nil {
		return nil, errors.Wrap(err, "readGroupGuild: players")
	}

	if r.Len() > 0 {
		return nil, errors.Wrapf(ErrTrailingBytes, "%d bytes after guild record", r.Len())
	}
	return g, nil
}

func EncodeGroupGuild(g *GroupGuild) []byte {
	w := memory.NewWriter()
	ue.WriteGuid(w, g.GroupID)
	ue.WriteFString(w, g.MaybeOwner)
	ue.WriteArray(w, g.InstanceIDs, writeInstanceID)
	w.WriteByte(g.Reserved)
	ue.WriteArray(w, g.UnknownGUIDs, ue.WriteGuid)
	memory.WriteInt(w, g.BaseCampLevel)
	ue.WriteArray(w, g.UnknownGUIDs2, ue.WriteGuid)
	ue.WriteFString(w, g.GuildName)
	ue.WriteGuid(w, g.AdminPlayerUID)
	ue.WriteArray(w, g.Players, writeGuildPlayerInfo)
	return w.Bytes()
}
