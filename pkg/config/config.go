// Package config loads simulation settings from an optional JSON file and
// STARWARDS_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Navot-Ram/starwards/pkg/bot"
	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/validation"
)

// EnvPrefix prefixes every environment override, e.g. STARWARDS_TICKRATE or
// STARWARDS_TELEMETRY_TICKSPERSTATE.
const EnvPrefix = "STARWARDS"

// Die modes.
const (
	DieSeeded = "seeded"
	DieRandom = "random"
)

// Telemetry sinks.
const (
	SinkWriter = "writer"
	SinkInflux = "influx"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// SimConfig contains configuration for a simulation run
type SimConfig struct {
	TickRate  int               `json:"tickRate" mapstructure:"tickRate"`
	WorldSize float64           `json:"worldSize" mapstructure:"worldSize"`
	Seed      uint64            `json:"seed" mapstructure:"seed"`
	DieMode   string            `json:"dieMode" mapstructure:"dieMode"`
	LogLevel  string            `json:"logLevel" mapstructure:"logLevel"`
	Physics   PhysicsConfig     `json:"physics" mapstructure:"physics"`
	Ships     []ShipConfig      `json:"ships" mapstructure:"ships"`
	Asteroids []AsteroidConfig  `json:"asteroids" mapstructure:"asteroids"`
	Telemetry TelemetryConfig   `json:"telemetry" mapstructure:"telemetry"`
	Health    HealthCheckConfig `json:"health" mapstructure:"health"`
}

// PhysicsConfig tunes body collisions
type PhysicsConfig struct {
	CollisionDamageFactor float64 `json:"collisionDamageFactor" mapstructure:"collisionDamageFactor"`
	Restitution           float64 `json:"restitution" mapstructure:"restitution"`
}

// ShipConfig places a ship at start. Bot and Target are optional.
type ShipConfig struct {
	ID      string  `json:"id" mapstructure:"id"`
	Model   string  `json:"model" mapstructure:"model"`
	Faction string  `json:"faction" mapstructure:"faction"`
	X       float64 `json:"x" mapstructure:"x"`
	Y       float64 `json:"y" mapstructure:"y"`
	Angle   float64 `json:"angle" mapstructure:"angle"`
	Bot     string  `json:"bot" mapstructure:"bot"`
	Target  string  `json:"target" mapstructure:"target"`
}

// AsteroidConfig places an asteroid at start
type AsteroidConfig struct {
	ID     string  `json:"id" mapstructure:"id"`
	X      float64 `json:"x" mapstructure:"x"`
	Y      float64 `json:"y" mapstructure:"y"`
	Radius float64 `json:"radius" mapstructure:"radius"`
}

// TelemetryConfig controls the state sync stream
type TelemetryConfig struct {
	Enabled       bool          `json:"enabled" mapstructure:"enabled"`
	Sink          string        `json:"sink" mapstructure:"sink"`
	TicksPerState int           `json:"ticksPerState" mapstructure:"ticksPerState"`
	Path          string        `json:"path" mapstructure:"path"`
	Influx        InfluxConfig  `json:"influx" mapstructure:"influx"`
	Breaker       BreakerConfig `json:"breaker" mapstructure:"breaker"`
}

// InfluxConfig points the influx sink at a bucket
type InfluxConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Token  string `json:"token" mapstructure:"token"`
	Org    string `json:"org" mapstructure:"org"`
	Bucket string `json:"bucket" mapstructure:"bucket"`
}

// BreakerConfig tunes the circuit breaker in front of a telemetry sink
type BreakerConfig struct {
	MaxRequests         uint32        `json:"maxRequests" mapstructure:"maxRequests"`
	Interval            time.Duration `json:"interval" mapstructure:"interval"`
	Timeout             time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxConsecutiveFails uint32        `json:"maxConsecutiveFails" mapstructure:"maxConsecutiveFails"`
}

// HealthCheckConfig configures the health endpoints
type HealthCheckConfig struct {
	Port int `json:"port" mapstructure:"port"`
}

// TickSeconds is the fixed step length.
func (c *SimConfig) TickSeconds() float64 {
	return 1 / float64(c.TickRate)
}

// Load reads path (when not empty) over the defaults and applies
// environment overrides.
func Load(path string) (*SimConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg SimConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *SimConfig) {
	v.SetDefault("tickRate", d.TickRate)
	v.SetDefault("worldSize", d.WorldSize)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("dieMode", d.DieMode)
	v.SetDefault("logLevel", d.LogLevel)

	v.SetDefault("physics.collisionDamageFactor", d.Physics.CollisionDamageFactor)
	v.SetDefault("physics.restitution", d.Physics.Restitution)

	v.SetDefault("ships", d.Ships)
	v.SetDefault("asteroids", d.Asteroids)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.sink", d.Telemetry.Sink)
	v.SetDefault("telemetry.ticksPerState", d.Telemetry.TicksPerState)
	v.SetDefault("telemetry.path", d.Telemetry.Path)
	v.SetDefault("telemetry.influx.url", d.Telemetry.Influx.URL)
	v.SetDefault("telemetry.influx.token", d.Telemetry.Influx.Token)
	v.SetDefault("telemetry.influx.org", d.Telemetry.Influx.Org)
	v.SetDefault("telemetry.influx.bucket", d.Telemetry.Influx.Bucket)
	v.SetDefault("telemetry.breaker.maxRequests", d.Telemetry.Breaker.MaxRequests)
	v.SetDefault("telemetry.breaker.interval", d.Telemetry.Breaker.Interval)
	v.SetDefault("telemetry.breaker.timeout", d.Telemetry.Breaker.Timeout)
	v.SetDefault("telemetry.breaker.maxConsecutiveFails", d.Telemetry.Breaker.MaxConsecutiveFails)

	v.SetDefault("health.port", d.Health.Port)
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *SimConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tickRate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	}
	if c.WorldSize <= 0 {
		return fmt.Errorf("%w: worldSize must be positive, got %v", ErrInvalidConfig, c.WorldSize)
	}
	if c.DieMode != DieSeeded && c.DieMode != DieRandom {
		return fmt.Errorf("%w: dieMode %q, want %q or %q", ErrInvalidConfig, c.DieMode, DieSeeded, DieRandom)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("%w: physics.restitution %v outside [0, 1]", ErrInvalidConfig, c.Physics.Restitution)
	}
	if c.Physics.CollisionDamageFactor < 0 {
		return fmt.Errorf("%w: physics.collisionDamageFactor must not be negative", ErrInvalidConfig)
	}
	if err := c.validateShips(); err != nil {
		return err
	}
	for i, a := range c.Asteroids {
		if err := validation.ValidateObjectID(a.ID); err != nil {
			return fmt.Errorf("%w: asteroids[%d]: %v", ErrInvalidConfig, i, err)
		}
		if a.Radius <= 0 {
			return fmt.Errorf("%w: asteroids[%d] radius must be positive", ErrInvalidConfig, i)
		}
	}
	return c.validateTelemetry()
}

func (c *SimConfig) validateShips() error {
	ids := make(map[string]bool, len(c.Ships))
	for i, s := range c.Ships {
		if err := validation.ValidateObjectID(s.ID); err != nil {
			return fmt.Errorf("%w: ships[%d]: %v", ErrInvalidConfig, i, err)
		}
		if err := validation.ValidateFaction(s.Faction); err != nil {
			return fmt.Errorf("%w: ships[%d]: %v", ErrInvalidConfig, i, err)
		}
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate ship id %q", ErrInvalidConfig, s.ID)
		}
		ids[s.ID] = true
		if _, err := ship.LookupModel(s.Model); err != nil {
			return fmt.Errorf("%w: ships[%d]: %v", ErrInvalidConfig, i, err)
		}
		if s.Bot != "" {
			if _, err := bot.ByName(s.Bot); err != nil {
				return fmt.Errorf("%w: ships[%d]: %v", ErrInvalidConfig, i, err)
			}
		}
	}
	for i, s := range c.Ships {
		if s.Target != "" && (!ids[s.Target] || s.Target == s.ID) {
			return fmt.Errorf("%w: ships[%d] target %q is not another configured ship", ErrInvalidConfig, i, s.Target)
		}
	}
	return nil
}

func (c *SimConfig) validateTelemetry() error {
	t := c.Telemetry
	if !t.Enabled {
		return nil
	}
	if t.TicksPerState <= 0 {
		return fmt.Errorf("%w: telemetry.ticksPerState must be positive", ErrInvalidConfig)
	}
	switch t.Sink {
	case SinkWriter:
	case SinkInflux:
		if t.Influx.URL == "" || t.Influx.Bucket == "" {
			return fmt.Errorf("%w: influx sink needs telemetry.influx.url and telemetry.influx.bucket", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: telemetry.sink %q, want %q or %q", ErrInvalidConfig, t.Sink, SinkWriter, SinkInflux)
	}
	if t.Breaker.MaxConsecutiveFails == 0 {
		return fmt.Errorf("%w: telemetry.breaker.maxConsecutiveFails must be positive", ErrInvalidConfig)
	}
	return nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a jouster duel between two factions
func DefaultConfig() *SimConfig {
	return &SimConfig{
		TickRate:  20,
		WorldSize: 20000,
		Seed:      1,
		DieMode:   DieSeeded,
		LogLevel:  "info",
		Physics: PhysicsConfig{
			CollisionDamageFactor: 0.05,
			Restitution:           0.5,
		},
		Ships: []ShipConfig{
			{ID: "alpha", Model: "dragonfly-SF22", Faction: "raiders", X: -2000, Y: 0, Angle: 0, Bot: "jouster", Target: "beta"},
			{ID: "beta", Model: "dragonfly-SF22", Faction: "gvaram", X: 2000, Y: 0, Angle: 180, Bot: "jouster", Target: "alpha"},
		},
		Asteroids: []AsteroidConfig{},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			Sink:          SinkWriter,
			TicksPerState: 3,
			Path:          "",
			Influx: InfluxConfig{
				URL:    "http://localhost:8086",
				Org:    "starwards",
				Bucket: "simulation",
			},
			Breaker: BreakerConfig{
				MaxRequests:         1,
				Interval:            time.Minute,
				Timeout:             30 * time.Second,
				MaxConsecutiveFails: 5,
			},
		},
		Health: HealthCheckConfig{Port: 8080},
	}
}
