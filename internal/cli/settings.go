package cli

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/txsync/internal/errors"
)

// Environment variable prefix for resolve settings, e.g. TXSYNC_OUTPUT
const envPrefix = "TXSYNC"

// Settings keys, named after the resolve flags
const (
	KeyDir          = "dir"
	KeyDescriptor   = "descriptor"
	KeyNoDescriptor = "no-descriptor"
	KeyModule       = "module"
	KeyOutput       = "output"
	KeyVerbose      = "verbose"
	KeyQuiet        = "quiet"
)

// SettingsLoader merges resolve settings from command flags, TXSYNC_*
// environment variables and an optional YAML settings file. Flags set on
// the command line win over the environment, which wins over the file.
type SettingsLoader struct {
	v *viper.Viper
}

// NewSettingsLoader creates a loader reading TXSYNC_* variables
func NewSettingsLoader() *SettingsLoader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDir, ".")
	v.SetDefault(KeyOutput, FormatText)

	return &SettingsLoader{v: v}
}

// BindFlags registers every flag of fs as a settings source
func (l *SettingsLoader) BindFlags(fs *pflag.FlagSet) error {
	if err := l.v.BindPFlags(fs); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "failed to bind flags", err)
	}
	return nil
}

// Load reads settingsFile, if given, and returns the merged configuration.
// Patterns are not a setting; callers fill them from the command arguments.
func (l *SettingsLoader) Load(settingsFile string) (Config, error) {
	if settingsFile != "" {
		l.v.SetConfigFile(settingsFile)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, errors.WrapFileSystemError("read settings", settingsFile, err)
		}
	}

	return Config{
		Dir:            l.v.GetString(KeyDir),
		DescriptorPath: l.v.GetString(KeyDescriptor),
		NoDescriptor:   l.v.GetBool(KeyNoDescriptor),
		ModuleName:     l.v.GetString(KeyModule),
		Format:         l.v.GetString(KeyOutput),
		Verbose:        l.v.GetBool(KeyVerbose),
		Quiet:          l.v.GetBool(KeyQuiet),
	}, nil
}
