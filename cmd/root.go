package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pal-save-edit/config"
	"pal-save-edit/utils"
)

var (
	cfg    *config.Config
	log    *logrus.Logger
	dumper *utils.Dumper
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pal-save-edit",
	Short: "Inspect and repair Palworld save files",
	Long: `pal-save-edit reads Palworld .sav files (Level.sav and Players/*.sav),
lists guilds and restores character records missing from a world save.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if log, err = cfg.NewLogger(); err != nil {
			return err
		}
		dumper = utils.NewDumper(cfg)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ./palsave.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}
