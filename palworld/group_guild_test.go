package palworld

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

var (
	guildID     = ue.MustParseGuid("5b0e3f61-4bd1-4a3c-9e0f-2f2b8d6c1a77")
	adminUID    = ue.MustParseGuid("00000000-0000-0000-0000-000000000001")
	adminInst   = ue.MustParseGuid("c1d0a5e2-7f4b-4e1a-8a33-0b9f52de6e10")
	memberUID   = ue.MustParseGuid("2c7f9a10-0000-0000-0000-000000000000")
	memberInst  = ue.MustParseGuid("9f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	baseCampID  = ue.MustParseGuid("11111111-2222-3333-4444-555555555555")
	strangerUID = ue.MustParseGuid("deadbeef-0000-0000-0000-000000000000")
)

func testGuild() *GroupGuild {
	return &GroupGuild{
		GroupID:    guildID,
		MaybeOwner: "",
		InstanceIDs: []InstanceID{
			{PlayerUID: adminUID, InstanceID: adminInst},
			{PlayerUID: memberUID, InstanceID: memberInst},
		},
		Reserved:       1,
		UnknownGUIDs:   []ue.Guid{baseCampID},
		BaseCampLevel:  7,
		UnknownGUIDs2:  []ue.Guid{},
		GuildName:      "Lamball Lovers",
		AdminPlayerUID: adminUID,
		Players: []GuildPlayerInfo{
			{PlayerUID: adminUID, LastOnlineRealTime: ue.DateTime{Ticks: 638412345678901234}, PlayerName: "Admin"},
			{PlayerUID: memberUID, LastOnlineRealTime: ue.DateTime{Ticks: 1}, PlayerName: "メンバー"},
		},
	}
}

func TestGroupGuildRoundTrip(t *testing.T) {
	tests := map[string]*GroupGuild{
		"full": testGuild(),
		"empty lists": {
			GroupID:       guildID,
			InstanceIDs:   []InstanceID{},
			UnknownGUIDs:  []ue.Guid{},
			UnknownGUIDs2: []ue.Guid{},
			Players:       []GuildPlayerInfo{},
		},
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			data := EncodeGroupGuild(want)
			got, err := DecodeGroupGuild(data)
			require.NoError(t, err)
			if diff := deep.Equal(want, got); diff != nil {
				t.Error(diff)
			}
			assert.Equal(t, data, EncodeGroupGuild(got))
		})
	}
}

func TestGroupGuildLayout(t *testing.T) {
	g := &GroupGuild{
		GroupID:       guildID,
		InstanceIDs:   []InstanceID{},
		Reserved:      0xAB,
		UnknownGUIDs:  []ue.Guid{},
		BaseCampLevel: 0x01020304,
		UnknownGUIDs2: []ue.Guid{},
		GuildName:     "G",
		Players:       []GuildPlayerInfo{},
	}
	data := EncodeGroupGuild(g)

	wire := guildID.Wire()
	want := append([]byte{}, wire[:]...)
	want = append(want, 0, 0, 0, 0) // owner
	want = append(want, 0, 0, 0, 0) // instance ids
	want = append(want, 0xAB)
	want = append(want, 0, 0, 0, 0) // first guid list
	want = append(want, 0x04, 0x03, 0x02, 0x01)
	want = append(want, 0, 0, 0, 0)          // second guid list
	want = append(want, 2, 0, 0, 0, 'G', 0)  // guild name
	want = append(want, make([]byte, 16)...) // admin
	want = append(want, 0, 0, 0, 0)          // players
	assert.Equal(t, want, data)
}

func TestDecodeGroupGuildErrors(t *testing.T) {
	data := EncodeGroupGuild(testGuild())

	t.Run("every truncation fails", func(t *testing.T) {
		for n := 0; n < len(data); n++ {
			g, err := DecodeGroupGuild(data[:n])
			assert.Nil(t, g)
			assert.Error(t, err, "prefix of %d bytes", n)
		}
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := DecodeGroupGuild(append(append([]byte{}, data...), 0))
		assert.ErrorIs(t, err, ErrTrailingBytes)
	})

	t.Run("implausible player count", func(t *testing.T) {
		g := testGuild()
		g.Players = []GuildPlayerInfo{}
		bad := EncodeGroupGuild(g)
		copy(bad[len(bad)-4:], []byte{0xFF, 0xFF, 0xFF, 0x0F})
		_, err := DecodeGroupGuild(bad)
		assert.ErrorIs(t, err, memory.ErrImplausibleLength)
	})

	t.Run("truncated name", func(t *testing.T) {
		g := testGuild()
		g.Players = []GuildPlayerInfo{}
		g.AdminPlayerUID = ue.NilGuid
		full := EncodeGroupGuild(g)
		// drop the admin guid and player count, then cut into the guild name
		_, err := DecodeGroupGuild(full[:len(full)-16-4-3])
		assert.ErrorIs(t, err, memory.ErrTruncated)
	})
}

func TestGroupGuildPlayer(t *testing.T) {
	g := testGuild()

	member, ok := g.Player(memberUID)
	require.True(t, ok)
	assert.Equal(t, "メンバー", member.PlayerName)

	_, ok = g.Player(strangerUID)
	assert.False(t, ok)
}
