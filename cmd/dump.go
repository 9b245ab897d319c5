package cmd

import (
	"encoding/json"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"pal-save-edit/palworld"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file.sav>",
	Short: "Print the decoded property tree of a save",
	Long: `Print the decoded property tree of a save.

With --guilds, the guild records inside GroupSaveDataMap are decoded too.

Example:
  pal-save-edit dump --format spew Level.sav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		withGuilds, _ := cmd.Flags().GetBool("guilds")

		saveFile, err := readSaveFile(args[0], palworld.SaveTypes())
		if err != nil {
			return err
		}

		var v interface{} = saveFile.Save
		if withGuilds {
			guilds, err := palworld.Guilds(saveFile.Save)
			if err != nil {
				return err
			}
			v = guilds
		}

		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		case "spew":
			spew.Fdump(os.Stdout, v)
			return nil
		}
		return errors.Errorf("unknown format %q", format)
	},
}

func init() {
	dumpCmd.Flags().StringP("format", "f", "json", "Output format: json or spew")
	dumpCmd.Flags().Bool("guilds", false, "Dump the decoded guild records instead of the property tree")
	rootCmd.AddCommand(dumpCmd)
}
