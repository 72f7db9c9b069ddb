/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration shared by the CLI, the http server,
// the seeder and the discord bot. Each reads only the fields it needs.
type Config struct {
	StoreURL string
	Prefix   string

	ListenAddr     string
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration
	SessionIdle    time.Duration
	SweepSchedule  string

	Courts        int
	SolverTimeout time.Duration
	SolverNodes   int
	StartTime     time.Time
	RoundDuration time.Duration

	DiscordToken  string
	DiscordPubKey string
	DiscordAppID  string
	DiscordCmdID  string
}

var ErrInvalidConfig = errors.New("invalid configuration")

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v=%q is not an integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v=%q is not a duration", ErrInvalidConfig, key, v)
	}
	return d, nil
}

// LoadConfig reads RR_* variables from the environment, after loading a
// .env file from the working directory when one exists.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		StoreURL:      getEnv("RR_STORE_URL", DefaultStoreURL),
		Prefix:        getEnv("RR_STORE_PREFIX", DefaultPrefix),
		ListenAddr:    getEnv("RR_LISTEN_ADDR", DefaultListen),
		JWTSecret:     getEnv("RR_JWT_SECRET", ""),
		SweepSchedule: getEnv("RR_SWEEP_SCHEDULE", "@every 5m"),
		DiscordToken:  getEnv("RR_DISCORD_TOKEN", ""),
		DiscordPubKey: getEnv("RR_DISCORD_PUBKEY", ""),
		DiscordAppID:  getEnv("RR_DISCORD_APP_ID", ""),
		DiscordCmdID:  getEnv("RR_DISCORD_CMD_ID", ""),
	}
	for _, origin := range strings.Split(getEnv("RR_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	var err error
	if cfg.Courts, err = getEnvInt("RR_COURTS", 2); err != nil {
		return nil, err
	}
	if cfg.SolverNodes, err = getEnvInt("RR_SOLVER_NODES", 5_000_000); err != nil {
		return nil, err
	}
	if cfg.SolverTimeout, err = getEnvDuration("RR_SOLVER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getEnvDuration("RR_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdle, err = getEnvDuration("RR_SESSION_IDLE", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RoundDuration, err = getEnvDuration("RR_ROUND_DURATION", 0); err != nil {
		return nil, err
	}
	if cfg.StartTime, err = ParseDateOrZero(getEnv("RR_START_TIME", "")); err != nil {
		return nil, fmt.Errorf("%w: RR_START_TIME: %w", ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Courts < 1 {
		return fmt.Errorf("%w: RR_COURTS must be at least 1, got %v",
			ErrInvalidConfig, c.Courts)
	}
	if c.SolverNodes < 0 || c.SolverTimeout < 0 {
		return fmt.Errorf("%w: solver budget cannot be negative", ErrInvalidConfig)
	}
	if c.RoundDuration < 0 {
		return fmt.Errorf("%w: RR_ROUND_DURATION cannot be negative",
			ErrInvalidConfig)
	}
	if c.StoreURL == "" {
		return fmt.Errorf("%w: RR_STORE_URL is empty", ErrInvalidConfig)
	}
	return nil
}
