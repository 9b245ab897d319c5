package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pal-save-edit/palworld"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix <save dir>",
	Short: "Restore missing character records in Level.sav",
	Long: `Restore character records missing from a world save.

Every player save under <save dir>/Players whose character instance is not in
Level.sav gets a fresh level 1 character record, named after and assigned to
the player's guild. Level.sav is backed up before it is rewritten.

Example:
  pal-save-edit fix ./Saved/SaveGames/0/0123456789ABCDEF`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		levelPath := filepath.Join(dir, levelSaveName)

		level, err := readSaveFile(levelPath, palworld.SaveTypes())
		if err != nil {
			return err
		}
		log.Infof("%s read successfully", levelPath)

		players, err := readPlayerSaves(dir)
		if err != nil {
			return err
		}
		log.Infof("%d player saves read successfully", len(players))

		report, err := palworld.Repair(level.Save, players, palworld.RepairOptions{Logger: log})
		if err != nil {
			return err
		}

		for _, guild := range report.Guilds {
			fmt.Printf("Guild %s (%s) has %d members\n",
				cyan(guild.Record.GuildName), guild.ID, len(guild.Record.Players))
		}
		for _, p := range report.Skipped {
			fmt.Printf("%s player %s (instance %s) is in no guild\n", yellow("skipped"), p.PlayerUID, p.InstanceID)
		}
		for _, p := range report.Created {
			fmt.Printf("%s character record for player %s (instance %s)\n", green("created"), p.PlayerUID, p.InstanceID)
		}

		if !report.Changed() {
			fmt.Println("All players have a character save, nothing to do.")
			return nil
		}
		if report.TemplateInstance.IsNil() {
			fmt.Println("No player character in Level.sav, new records use the built-in template.")
		} else {
			fmt.Printf("New records copy the player character %s\n", report.TemplateInstance)
		}
		if dryRun {
			fmt.Println("Dry run, Level.sav left untouched.")
			return nil
		}

		if err := writeSaveFile(levelPath, level, cfg.Backup, cfg.BackupSuffix); err != nil {
			return err
		}
		fmt.Printf("%s written successfully\n", levelPath)
		return nil
	},
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "Report what would change without writing Level.sav")
	rootCmd.AddCommand(fixCmd)
}
