// Package config resolves table settings from the environment, an optional
// .env file and command-line flags.
package config

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/theflywheel/dhash"
)

// Config holds the settings shared by the command-line tools.
type Config struct {
	MinBaseSize int
	MaxKeyLen   int
	MaxValueLen int
	MaxSlots    int
	Shards      int
	Verbose     bool
}

// LoadEnv loads .env files into the process environment. A missing file is
// not an error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found or failed to load, relying on system env vars")
	}
}

// FromEnv builds a Config from DHASH_* variables, falling back to defaults.
func FromEnv() (Config, error) {
	var (
		c   Config
		err error
	)
	if c.MinBaseSize, err = getEnvInt("DHASH_MIN_BASE_SIZE", dhash.DefaultMinBaseSize); err != nil {
		return c, err
	}
	if c.MaxKeyLen, err = getEnvInt("DHASH_MAX_KEY_LEN", 0); err != nil {
		return c, err
	}
	if c.MaxValueLen, err = getEnvInt("DHASH_MAX_VALUE_LEN", 0); err != nil {
		return c, err
	}
	if c.MaxSlots, err = getEnvInt("DHASH_MAX_SLOTS", dhash.DefaultMaxSlots); err != nil {
		return c, err
	}
	if c.Shards, err = getEnvInt("DHASH_SHARDS", 1); err != nil {
		return c, err
	}
	if c.Verbose, err = strconv.ParseBool(getEnv("DHASH_VERBOSE", "false")); err != nil {
		return c, fmt.Errorf("DHASH_VERBOSE: %w", err)
	}
	return c, nil
}

// RegisterFlags binds flags to c, using its current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.MinBaseSize, "min-base", c.MinBaseSize, "initial and minimum base size")
	fs.IntVar(&c.MaxKeyLen, "max-key", c.MaxKeyLen, "maximum key length in bytes (0 = unbounded)")
	fs.IntVar(&c.MaxValueLen, "max-value", c.MaxValueLen, "maximum value length in bytes (0 = unbounded)")
	fs.IntVar(&c.MaxSlots, "max-slots", c.MaxSlots, "maximum number of slots per table")
	fs.IntVar(&c.Shards, "shards", c.Shards, "number of independently locked segments")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log resize events")
}

// Options converts c into table options. Resize events go to logOut when
// Verbose is set.
func (c Config) Options(logOut io.Writer) dhash.Options {
	opts := dhash.Options{
		MinBaseSize: c.MinBaseSize,
		MaxKeyLen:   c.MaxKeyLen,
		MaxValueLen: c.MaxValueLen,
		MaxSlots:    c.MaxSlots,
	}
	if c.Verbose {
		opts.Logger = log.New(logOut, "dhash: ", log.LstdFlags)
	}
	return opts
}

// Open builds the store described by c: a single table, or a sharded one
// when Shards is above 1.
func (c Config) Open(logOut io.Writer) (dhash.Store, error) {
	if c.Shards > 1 {
		s, err := dhash.NewSharded(c.Shards, c.Options(logOut))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	t, err := dhash.NewWithOptions(c.Options(logOut))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
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
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
