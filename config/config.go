package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the options of the pal-save-edit commands.
type Config struct {
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// Full path to file to which logs will be written. Blank will write to stderr.
	LogFilePath string `mapstructure:"log_file_path"`

	// Keep a copy of Level.sav before overwriting it.
	Backup       bool   `mapstructure:"backup"`
	BackupSuffix string `mapstructure:"backup_suffix"`

	Debug struct {
		// Write the decoded property tree of every save read as JSON.
		SaveJSON bool `mapstructure:"save_json"`
		// Write the decompressed GVAS payload of every save read.
		SaveBinary bool   `mapstructure:"save_binary"`
		DumpDir    string `mapstructure:"dump_dir"`
	} `mapstructure:"debug"`
}

const (
	envVarPrefix = "PALSAVE"
	configName   = "palsave"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file_path", "")
	v.SetDefault("backup", true)
	v.SetDefault("backup_suffix", ".bak")
	v.SetDefault("debug.save_json", false)
	v.SetDefault("debug.save_binary", false)
	v.SetDefault("debug.dump_dir", "debug")
}

// Load reads the config file at path, or palsave.yaml from the working
// directory when path is empty. A missing default config file is not an
// error. Every key can be overridden with PALSAVE_<KEY>, nested keys joined
// with underscores (PALSAVE_DEBUG_SAVE_JSON).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}
	return config, nil
}

// NewLogger builds the logger described by c.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	var w io.Writer = os.Stderr
	if c.LogFilePath != "" {
		f, err := os.OpenFile(c.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}
		w = f
	}

	logLvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse log level")
	}

	return &logrus.Logger{
		Out: w,
		Formatter: &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableSorting:  true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLvl,
	}, nil
}
