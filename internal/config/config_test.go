package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/internal/config"
)

func TestBindFlagsFillsUnsetFlagsFromEnv(t *testing.T) {
	t.Setenv("AMENDMAP_YEAR", "2019")
	t.Setenv("AMENDMAP_OUT", "elsewhere/")
	require.NoError(t, config.Init(""))

	flags := pflag.NewFlagSet("aggregate", pflag.ContinueOnError)
	year := flags.Int("year", 2024, "")
	out := flags.String("out", "out", "")

	require.NoError(t, config.BindFlags(flags))
	assert.Equal(t, 2019, *year)
	assert.Equal(t, "elsewhere/", *out)
}

func TestBindFlagsExplicitFlagWins(t *testing.T) {
	t.Setenv("AMENDMAP_YEAR", "2019")
	require.NoError(t, config.Init(""))

	flags := pflag.NewFlagSet("aggregate", pflag.ContinueOnError)
	year := flags.Int("year", 2024, "")
	require.NoError(t, flags.Parse([]string{"--year", "2021"}))

	require.NoError(t, config.BindFlags(flags))
	assert.Equal(t, 2021, *year, "a flag given on the command line beats the environment")
}

func TestBindFlagsLeavesDefaultsAlone(t *testing.T) {
	require.NoError(t, config.Init(""))

	flags := pflag.NewFlagSet("aggregate", pflag.ContinueOnError)
	roster := flags.String("roster", "roster.json", "")

	require.NoError(t, config.BindFlags(flags))
	assert.Equal(t, "roster.json", *roster)
}
