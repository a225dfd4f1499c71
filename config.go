package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DOGFIGHT"

// HTTPConfig is the optional spectator/stats HTTP surface
type HTTPConfig struct {
	Listen    string
	PublicURL string
}

// SpectatorConfig controls who may watch over websocket
type SpectatorConfig struct {
	Secret       string
	PasswordHash string
	TokenTTL     time.Duration
	Max          int
}

// Config is everything the server reads at startup
type Config struct {
	Listen         string
	TickInterval   time.Duration
	WriteTimeout   time.Duration
	LogLevel       string
	MaxConnections int
	HTTP           HTTPConfig
	Spectator      SpectatorConfig
	AnalyticsPath  string
	Game           GameConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "127.0.0.1:30000")
	v.SetDefault("tickInterval", DefaultTickInterval.String())
	v.SetDefault("writeTimeout", "2s")
	v.SetDefault("logLevel", "info")
	v.SetDefault("maxConnections", 32)

	v.SetDefault("http.listen", "")
	v.SetDefault("http.publicURL", "")

	v.SetDefault("spectator.secret", "")
	v.SetDefault("spectator.passwordHash", "")
	v.SetDefault("spectator.tokenTTL", "24h")
	v.SetDefault("spectator.max", 64)

	v.SetDefault("analytics.path", "")

	v.SetDefault("game.powerupAmount", PowerupAmount)
	v.SetDefault("game.hurricaneProbability", HurricaneProbability)
	v.SetDefault("game.debugLines", false)
	for _, k := range AllPowerupKinds() {
		v.SetDefault("game.likelihood."+k.String(), k.Likelihood())
	}
}

// LoadConfig reads defaults, then the optional file at path, then
// DOGFIGHT_* environment variables ("http.listen" -> DOGFIGHT_HTTP_LISTEN).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Listen:         v.GetString("listen"),
		TickInterval:   v.GetDuration("tickInterval"),
		WriteTimeout:   v.GetDuration("writeTimeout"),
		LogLevel:       v.GetString("logLevel"),
		MaxConnections: v.GetInt("maxConnections"),
		HTTP: HTTPConfig{
			Listen:    v.GetString("http.listen"),
			PublicURL: v.GetString("http.publicURL"),
		},
		Spectator: SpectatorConfig{
			Secret:       v.GetString("spectator.secret"),
			PasswordHash: v.GetString("spectator.passwordHash"),
			TokenTTL:     v.GetDuration("spectator.tokenTTL"),
			Max:          v.GetInt("spectator.max"),
		},
		AnalyticsPath: v.GetString("analytics.path"),
		Game: GameConfig{
			PowerupAmount:        v.GetInt("game.powerupAmount"),
			HurricaneProbability: v.GetFloat64("game.hurricaneProbability"),
			DebugLines:           v.GetBool("game.debugLines"),
			PowerupWeights:       make(map[PowerUpKind]int),
		},
	}
	for _, k := range AllPowerupKinds() {
		cfg.Game.PowerupWeights[k] = v.GetInt("game.likelihood." + k.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tickInterval must be positive, got %s", c.TickInterval))
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("writeTimeout must not be negative, got %s", c.WriteTimeout))
	}
	if c.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("maxConnections must not be negative, got %d", c.MaxConnections))
	}
	if c.Game.PowerupAmount < 0 {
		errs = append(errs, fmt.Errorf("game.powerupAmount must not be negative, got %d", c.Game.PowerupAmount))
	}
	if p := c.Game.HurricaneProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("game.hurricaneProbability must be in [0,1], got %g", p))
	}
	total := 0
	for _, w := range c.Game.PowerupWeights {
		if w > 0 {
			total += w
		}
	}
	if c.Game.PowerupAmount > 0 && total == 0 {
		errs = append(errs, errors.New("every powerup likelihood is zero"))
	}
	if c.Spectator.PasswordHash != "" && c.Spectator.Secret == "" {
		errs = append(errs, errors.New("spectator.passwordHash requires spectator.secret"))
	}
	return errors.Join(errs...)
}
