package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the simulation tuning. Distances are arena pixels, durations are ticks.
type Config struct {
	ArenaWidth          float64
	ArenaHeight         float64
	MaxSpeed            float64 // per-axis velocity cap
	MaxAngularSpeed     float64 // cannon degrees per tick cap
	MaxRange            float64 // shot travel distance at full power
	ShotStep            float64 // shot travel per tick
	PlayerSize          float64
	CannonLength        float64
	TickRate            int
	CountdownTicks      int
	DeathCooldownTicks  int
	RespawnGraceTicks   int
	ExplosionGrowRate   int
	ExplosionShrinkRate int
	ExplosionCap        int
	ExplosionRadius     float64 // blast radius at ExplosionCap
	MinShotSize         int
	Seed                int64
	Strict              bool // panic on internal invariant violations
}

// DefaultConfig returns the tuning the arena ships with
func DefaultConfig() Config {
	return Config{
		ArenaWidth:          1200,
		ArenaHeight:         800,
		MaxSpeed:            5,
		MaxAngularSpeed:     5,
		MaxRange:            600,
		ShotStep:            10,
		PlayerSize:          25,
		CannonLength:        25,
		TickRate:            60,
		CountdownTicks:      240,
		DeathCooldownTicks:  180,
		RespawnGraceTicks:   60,
		ExplosionGrowRate:   10,
		ExplosionShrinkRate: 20,
		ExplosionCap:        100,
		ExplosionRadius:     40,
		MinShotSize:         20,
		Seed:                time.Now().UnixNano(),
	}
}

// TickDuration is the target wall time between ticks
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate rejects tuning the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.ArenaWidth <= c.PlayerSize || c.ArenaHeight <= c.PlayerSize:
		return fmt.Errorf("arena %vx%v smaller than player size %v", c.ArenaWidth, c.ArenaHeight, c.PlayerSize)
	case c.TickRate <= 0:
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	case c.MaxSpeed < 0 || c.MaxAngularSpeed < 0:
		return fmt.Errorf("speed caps must not be negative")
	case c.ShotStep <= 0:
		return fmt.Errorf("shot_step must be positive, got %v", c.ShotStep)
	case c.MaxRange < 0:
		return fmt.Errorf("max_range must not be negative, got %v", c.MaxRange)
	case c.ExplosionCap <= 0 || c.ExplosionGrowRate <= 0 || c.ExplosionShrinkRate <= 0:
		return fmt.Errorf("explosion cap and rates must be positive")
	case c.PlayerSize <= 0:
		return fmt.Errorf("player_size must be positive, got %v", c.PlayerSize)
	case c.CountdownTicks < 0 || c.DeathCooldownTicks < 0 || c.RespawnGraceTicks < 0:
		return fmt.Errorf("tick budgets must not be negative")
	}
	return nil
}

// ServerConfig holds process settings around the simulation
type ServerConfig struct {
	Addr              string
	DBPath            string
	ClientDir         string
	PublicURL         string
	AdminPasswordHash string // bcrypt hash; empty disables the admin API
	JWTSecret         string
	MaxConnsPerIP     int
	MaxConns          int
	InputsPerSecond   float64
	InputBurst        int
}

// DefaultServerConfig returns the server defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		DBPath:          "rampage.db",
		PublicURL:       "http://localhost:8080",
		MaxConnsPerIP:   5,
		MaxConns:        64,
		InputsPerSecond: 120,
		InputBurst:      60,
	}
}

// LoadConfig reads an optional .env file and applies RAMPAGE_* overrides
func LoadConfig(envFile string) (Config, ServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, ServerConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		} else if err == nil {
			log.Printf("loaded environment from %s", envFile)
		}
	}

	cfg := DefaultConfig()
	cfg.ArenaWidth = getEnvFloat("RAMPAGE_ARENA_WIDTH", cfg.ArenaWidth)
	cfg.ArenaHeight = getEnvFloat("RAMPAGE_ARENA_HEIGHT", cfg.ArenaHeight)
	cfg.MaxSpeed = getEnvFloat("RAMPAGE_MAX_SPEED", cfg.MaxSpeed)
	cfg.MaxAngularSpeed = getEnvFloat("RAMPAGE_MAX_ANGULAR_SPEED", cfg.MaxAngularSpeed)
	cfg.MaxRange = getEnvFloat("RAMPAGE_MAX_RANGE", cfg.MaxRange)
	cfg.ShotStep = getEnvFloat("RAMPAGE_SHOT_STEP", cfg.ShotStep)
	cfg.PlayerSize = getEnvFloat("RAMPAGE_PLAYER_SIZE", cfg.PlayerSize)
	cfg.CannonLength = getEnvFloat("RAMPAGE_CANNON_LENGTH", cfg.CannonLength)
	cfg.TickRate = getEnvInt("RAMPAGE_TICK_RATE", cfg.TickRate)
	cfg.CountdownTicks = getEnvInt("RAMPAGE_COUNTDOWN_TICKS", cfg.CountdownTicks)
	cfg.DeathCooldownTicks = getEnvInt("RAMPAGE_DEATH_COOLDOWN_TICKS", cfg.DeathCooldownTicks)
	cfg.RespawnGraceTicks = getEnvInt("RAMPAGE_RESPAWN_GRACE_TICKS", cfg.RespawnGraceTicks)
	cfg.ExplosionGrowRate = getEnvInt("RAMPAGE_EXPLOSION_GROW_RATE", cfg.ExplosionGrowRate)
	cfg.ExplosionShrinkRate = getEnvInt("RAMPAGE_EXPLOSION_SHRINK_RATE", cfg.ExplosionShrinkRate)
	cfg.ExplosionCap = getEnvInt("RAMPAGE_EXPLOSION_CAP", cfg.ExplosionCap)
	cfg.ExplosionRadius = getEnvFloat("RAMPAGE_EXPLOSION_RADIUS", cfg.ExplosionRadius)
	cfg.MinShotSize = getEnvInt("RAMPAGE_MIN_SHOT_SIZE", cfg.MinShotSize)
	if s := os.Getenv("RAMPAGE_SEED"); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	cfg.Strict = os.Getenv("RAMPAGE_STRICT") == "true"

	srv := DefaultServerConfig()
	srv.Addr = getEnv("RAMPAGE_ADDR", srv.Addr)
	srv.DBPath = getEnv("RAMPAGE_DB", srv.DBPath)
	srv.ClientDir = getEnv("RAMPAGE_CLIENT_DIR", srv.ClientDir)
	srv.PublicURL = getEnv("RAMPAGE_PUBLIC_URL", srv.PublicURL)
	srv.AdminPasswordHash = os.Getenv("RAMPAGE_ADMIN_PASSWORD_HASH")
	srv.JWTSecret = os.Getenv("RAMPAGE_JWT_SECRET")
	srv.MaxConnsPerIP = getEnvInt("RAMPAGE_MAX_CONNS_PER_IP", srv.MaxConnsPerIP)
	srv.MaxConns = getEnvInt("RAMPAGE_MAX_CONNS", srv.MaxConns)
	srv.InputsPerSecond = getEnvFloat("RAMPAGE_INPUTS_PER_SECOND", srv.InputsPerSecond)
	srv.InputBurst = getEnvInt("RAMPAGE_INPUT_BURST", srv.InputBurst)

	if err := cfg.Validate(); err != nil {
		return Config{}, ServerConfig{}, err
	}
	return cfg, srv, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
