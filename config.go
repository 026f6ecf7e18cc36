package main

import (
	"time"

	"github.com/spf13/viper"
)

// WorldConfig holds every tunable of the simulation. It is loaded once
// at boot, never mutated afterwards, and delivered verbatim to each
// client inside the bootstrap message so client prediction uses the
// exact same constants as the server.
type WorldConfig struct {
	WorldWidth  float64 `mapstructure:"world_width" json:"worldWidth" msgpack:"ww"`
	WorldHeight float64 `mapstructure:"world_height" json:"worldHeight" msgpack:"wh"`

	MaxHealth int     `mapstructure:"max_health" json:"maxHealth" msgpack:"mh"`
	MoveSpeed float64 `mapstructure:"move_speed" json:"moveSpeed" msgpack:"ms"`

	BulletSpeed      float64 `mapstructure:"bullet_speed" json:"bulletSpeed" msgpack:"bs"`
	BulletDamage     int     `mapstructure:"bullet_damage" json:"bulletDamage" msgpack:"bd"`
	BulletLifetimeMs int     `mapstructure:"bullet_lifetime_ms" json:"bulletLifetime" msgpack:"bl"`
	HitRadius        float64 `mapstructure:"hit_radius" json:"hitRadius" msgpack:"hr"`

	ShootCooldownMs int     `mapstructure:"shoot_cooldown_ms" json:"shootCooldown" msgpack:"sc"`
	PingCooldownMs  int     `mapstructure:"ping_cooldown_ms" json:"pingCooldown" msgpack:"pc"`
	PingMaxRadius   float64 `mapstructure:"ping_max_radius" json:"pingMaxRadius" msgpack:"pr"`
	RespawnTimeMs   int     `mapstructure:"respawn_time_ms" json:"respawnTime" msgpack:"rt"`

	MinBots int `mapstructure:"min_bots" json:"minBots" msgpack:"nb"`
	MaxBots int `mapstructure:"max_bots" json:"maxBots" msgpack:"xb"`

	BotSpeed                 float64 `mapstructure:"bot_speed" json:"botSpeed" msgpack:"bsp"`
	BotAggressiveness        float64 `mapstructure:"bot_aggressiveness" json:"botAggressiveness" msgpack:"bag"`
	BotAccuracy              float64 `mapstructure:"bot_accuracy" json:"botAccuracy" msgpack:"bac"`
	BotDetectionRange        float64 `mapstructure:"bot_detection_range" json:"botDetectionRange" msgpack:"bdr"`
	BotShootRange            float64 `mapstructure:"bot_shoot_range" json:"botShootRange" msgpack:"bsr"`
	BotPingChance            float64 `mapstructure:"bot_ping_chance" json:"botPingChance" msgpack:"bpc"`
	BotDirectionChangeChance float64 `mapstructure:"bot_direction_change_chance" json:"botDirectionChangeChance" msgpack:"bdc"`
	BotShootCooldownMs       int     `mapstructure:"bot_shoot_cooldown_ms" json:"botShootCooldown" msgpack:"bsc"`
}

// Duration accessors — cooldowns are stored as milliseconds because the
// config is shipped raw to JS clients.

func (c *WorldConfig) BulletLifetime() time.Duration {
	return time.Duration(c.BulletLifetimeMs) * time.Millisecond
}

func (c *WorldConfig) ShootCooldown() time.Duration {
	return time.Duration(c.ShootCooldownMs) * time.Millisecond
}

func (c *WorldConfig) PingCooldown() time.Duration {
	return time.Duration(c.PingCooldownMs) * time.Millisecond
}

func (c *WorldConfig) RespawnTime() time.Duration {
	return time.Duration(c.RespawnTimeMs) * time.Millisecond
}

func (c *WorldConfig) BotShootCooldown() time.Duration {
	return time.Duration(c.BotShootCooldownMs) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world_width", 2000.0)
	v.SetDefault("world_height", 2000.0)
	v.SetDefault("max_health", 100)
	v.SetDefault("move_speed", 5.0)
	v.SetDefault("bullet_speed", 40.0)
	v.SetDefault("bullet_damage", 25)
	v.SetDefault("bullet_lifetime_ms", 3000)
	v.SetDefault("hit_radius", 15.0)
	v.SetDefault("shoot_cooldown_ms", 500)
	v.SetDefault("ping_cooldown_ms", 5000)
	v.SetDefault("ping_max_radius", 400.0)
	v.SetDefault("respawn_time_ms", 3000)
	v.SetDefault("min_bots", 4)
	v.SetDefault("max_bots", 10)
	v.SetDefault("bot_speed", 6.0)
	v.SetDefault("bot_aggressiveness", 0.7)
	v.SetDefault("bot_accuracy", 0.3)
	v.SetDefault("bot_detection_range", 500.0)
	v.SetDefault("bot_shoot_range", 300.0)
	v.SetDefault("bot_ping_chance", 0.02)
	v.SetDefault("bot_direction_change_chance", 0.05)
	v.SetDefault("bot_shoot_cooldown_ms", 1500)
}

// LoadConfig reads the world configuration from an optional YAML file
// and ARENA_* environment variables, falling back to defaults.
func LoadConfig(path string) (*WorldConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &WorldConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in tunables without touching files or
// the environment.
func DefaultConfig() *WorldConfig {
	v := viper.New()
	setDefaults(v)
	cfg := &WorldConfig{}
	// Unmarshal over defaults cannot fail
	_ = v.Unmarshal(cfg)
	return cfg
}
