// Package config loads application configuration with koanf.
//
// Sources are layered, later wins:
//
//	1. built-in defaults
//	2. optional YAML file (-config path)
//	3. environment variables prefixed FLASHCARD_ (FLASHCARD_SERVER_PORT → server.port)
//	4. command-line flags
//
// The result is unmarshalled into a plain Config struct so the rest of the
// application never touches koanf directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

// Config holds every runtime knob of the server.
type Config struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Database struct {
		Path string `koanf:"path"`
	} `koanf:"database"`

	Auth struct {
		// JWTSecret signs access tokens. Must be at least 16 characters;
		// there is no default on purpose — the server refuses to start
		// without one rather than running with a guessable key.
		JWTSecret string `koanf:"jwt_secret"`

		// TokenTTL is the fixed lifetime of issued tokens.
		TokenTTL time.Duration `koanf:"token_ttl"`

		// BcryptCost is the bcrypt work factor for password hashing.
		BcryptCost int `koanf:"bcrypt_cost"`
	} `koanf:"auth"`

	Log struct {
		Level string `koanf:"level"` // debug, info, warn, error
	} `koanf:"log"`
}

func defaults() Config {
	var c Config
	c.Server.Port = 8080
	c.Database.Path = "data/flashcards.db"
	c.Auth.TokenTTL = 24 * time.Hour
	c.Auth.BcryptCost = 12
	c.Log.Level = "info"
	return c
}

// Flags returns the flag set Load understands. Defined separately so main
// can parse os.Args once and also handle -help.
func Flags() *flag.FlagSet {
	f := flag.NewFlagSet("flashcard-api", flag.ExitOnError)
	f.String("config", "", "path to a YAML config file")
	f.Int("server.port", 0, "HTTP listen port")
	f.String("database.path", "", "path to the SQLite database file")
	f.String("auth.jwt_secret", "", "JWT signing secret")
	f.Duration("auth.token_ttl", 0, "access token lifetime")
	f.Int("auth.bcrypt_cost", 0, "bcrypt work factor for password hashing")
	f.String("log.level", "", "log level (debug, info, warn, error)")
	return f
}

// Load builds the final Config from defaults, file, env, and flags.
func Load(f *flag.FlagSet) (Config, error) {
	k := koanf.New(".")

	cfg := defaults()
	if err := k.Set("server.port", cfg.Server.Port); err != nil {
		return Config{}, fmt.Errorf("config: setting defaults: %w", err)
	}
	_ = k.Set("database.path", cfg.Database.Path)
	_ = k.Set("auth.token_ttl", cfg.Auth.TokenTTL)
	_ = k.Set("auth.bcrypt_cost", cfg.Auth.BcryptCost)
	_ = k.Set("log.level", cfg.Log.Level)

	// Optional YAML file. Missing file is only an error when the path was
	// given explicitly.
	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	// FLASHCARD_SERVER_PORT=9090 → server.port=9090
	err := k.Load(env.Provider("FLASHCARD_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FLASHCARD_")), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	// Flags win over everything. posflag only overrides flags that were
	// actually set on the command line.
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading flags: %w", err)
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}

	// Environment variables with underscores collapse ambiguously
	// (AUTH_JWT_SECRET → auth.jwt.secret), so map the two-word keys by hand.
	if v := os.Getenv("FLASHCARD_AUTH_JWT_SECRET"); v != "" {
		out.Auth.JWTSecret = v
	}
	if v := os.Getenv("FLASHCARD_AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid FLASHCARD_AUTH_TOKEN_TTL: %w", err)
		}
		out.Auth.TokenTTL = d
	}
	if v := os.Getenv("FLASHCARD_AUTH_BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid FLASHCARD_AUTH_BCRYPT_COST: %w", err)
		}
		out.Auth.BcryptCost = n
	}

	if out.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: auth.jwt_secret is required (set FLASHCARD_AUTH_JWT_SECRET)")
	}

	return out, nil
}
