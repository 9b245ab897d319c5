package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pal-save-edit/palworld"
	"pal-save-edit/ue"
)

// guildsCmd represents the guilds command
var guildsCmd = &cobra.Command{
	Use:   "guilds <save dir>",
	Short: "List the guilds of a world and their members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := readSaveFile(filepath.Join(args[0], levelSaveName), palworld.SaveTypes())
		if err != nil {
			return err
		}
		guilds, err := palworld.Guilds(level.Save)
		if err != nil {
			return err
		}
		present, err := palworld.CharacterInstanceIDs(level.Save)
		if err != nil {
			return err
		}

		for _, guild := range guilds {
			g := guild.Record
			fmt.Printf("%s (%s) base camp level %d\n", cyan(g.GuildName), guild.ID, g.BaseCampLevel)
			for _, player := range g.Players {
				marker := ""
				if player.PlayerUID == g.AdminPlayerUID {
					marker = " " + yellow("admin")
				}
				if !hasCharacter(g, player.PlayerUID, present) {
					marker += " " + red("no character")
				}
				fmt.Printf("- %s (%s)%s\n", player.PlayerName, player.PlayerUID, marker)
			}
		}
		return nil
	},
}

// hasCharacter reports whether any instance the guild lists for playerUID has
// a character record.
func hasCharacter(g *palworld.GroupGuild, playerUID ue.Guid, present map[ue.Guid]struct{}) bool {
	for _, id := range g.InstanceIDs {
		if id.PlayerUID != playerUID {
			continue
		}
		if _, ok := present[id.InstanceID]; ok {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(guildsCmd)
}
