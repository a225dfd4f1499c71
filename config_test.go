package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dogfight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:30000", cfg.Listen)
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval)
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 32, cfg.MaxConnections)
	assert.Equal(t, 24*time.Hour, cfg.Spectator.TokenTTL)
	assert.Equal(t, 64, cfg.Spectator.Max)
	assert.Equal(t, PowerupAmount, cfg.Game.PowerupAmount)
	assert.Equal(t, HurricaneProbability, cfg.Game.HurricaneProbability)
	for _, k := range AllPowerupKinds() {
		assert.Equal(t, k.Likelihood(), cfg.Game.PowerupWeights[k], k.String())
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:4000
tickInterval: 20ms
http:
  listen: ":8080"
game:
  powerupAmount: 3
  likelihood:
    slowtime: 0
    laser: 200
`)
	t.Setenv("DOGFIGHT_LISTEN", "0.0.0.0:5000")
	t.Setenv("DOGFIGHT_SPECTATOR_SECRET", "s3cret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.Listen, "env wins over file")
	assert.Equal(t, 20*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ":8080", cfg.HTTP.Listen)
	assert.Equal(t, "s3cret", cfg.Spectator.Secret)
	assert.Equal(t, 3, cfg.Game.PowerupAmount)
	assert.Equal(t, 0, cfg.Game.PowerupWeights[PowerupSlowTime])
	assert.Equal(t, 200, cfg.Game.PowerupWeights[PowerupLaser])
	assert.Equal(t, 70, cfg.Game.PowerupWeights[PowerupGun])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeConfig(t, `
tickInterval: 0s
maxConnections: -1
spectator:
  passwordHash: abc
game:
  hurricaneProbability: 2
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	for _, want := range []string{"tickInterval", "maxConnections", "hurricaneProbability", "passwordHash"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidateZeroWeights(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	for k := range cfg.Game.PowerupWeights {
		cfg.Game.PowerupWeights[k] = 0
	}
	assert.ErrorContains(t, cfg.Validate(), "likelihood")

	cfg.Game.PowerupAmount = 0
	assert.NoError(t, cfg.Validate())
}
