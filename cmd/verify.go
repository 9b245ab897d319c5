package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"pal-save-edit/palworld"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file.sav>...",
	Short: "Check that saves survive a decode and re-encode unchanged",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			ok, err := verifySave(path)
			switch {
			case err != nil:
				fmt.Printf("%s %s: %v\n", red("error"), path, err)
				failed++
			case !ok:
				fmt.Printf("%s %s: re-encoded payload differs\n", red("mismatch"), path)
				failed++
			default:
				fmt.Printf("%s %s\n", green("ok"), path)
			}
		}
		if failed > 0 {
			return errors.Errorf("%d of %d saves failed", failed, len(args))
		}
		return nil
	},
}

// verifySave compares the decompressed payload with the re-encoded one.
// Compressed bytes are not compared since zlib output depends on the encoder.
func verifySave(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	container, err := palworld.DecodeContainer(data)
	if err != nil {
		return false, err
	}
	saveFile, err := container.SaveFile(palworld.SaveTypes())
	if err != nil {
		return false, err
	}
	reencoded, err := saveFile.Save.Bytes()
	if err != nil {
		return false, err
	}
	if !bytes.Equal(reencoded, container.Data) {
		log.Debugf("%s: %d bytes decoded, %d bytes re-encoded", path, len(container.Data), len(reencoded))
		return false, nil
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
