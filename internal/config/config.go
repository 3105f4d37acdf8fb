// Package config provides Viper-backed configuration helpers shared by the
// CLI commands. Values resolve from flags, then AMENDMAP_* environment
// variables, then the optional config file.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "AMENDMAP"

// Init wires Viper's environment handling. Called once from the root command.
func Init(configFile string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	return nil
}

// BindFlags fills every flag the user did not set on the command line from
// Viper, so AMENDMAP_YEAR=2024 or a config-file `year: 2024` behaves exactly
// like --year 2024. An explicit flag always wins.
func BindFlags(flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(viper.GetString(f.Name)); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}
