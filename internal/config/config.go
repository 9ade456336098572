// Package config resolves the wordfreq run configuration.
//
// Layers, lowest precedence first:
//
//  1. built-in defaults
//  2. a YAML file (--config)
//  3. WC_* environment variables
//  4. command-line flags the user actually set
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/wordfreq/wordcount"
)

// Environment variable names.
const (
	EnvMaxBytes   = "WC_MAX_BYTES"
	EnvMaxWord    = "WC_MAX_WORD"
	EnvHashSeed   = "WC_HASH_SEED"
	EnvStaticSize = "WC_STATIC_SIZE"
)

// DefaultTop is the number of rows printed when Top is unset.
const DefaultTop = 10

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the resolved run configuration.
type Config struct {
	MaxWord      int    `yaml:"max_word"`
	MaxBytes     int    `yaml:"max_bytes"`
	InitCapacity int    `yaml:"init_capacity"`
	BlockSize    int    `yaml:"block_size"`
	StaticSize   int    `yaml:"static_size"`
	HashSeed     uint64 `yaml:"hash_seed"`
	ScanBuffer   string `yaml:"scan_buffer"`
	Encoding     string `yaml:"encoding"`
	Top          int    `yaml:"top"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScanBuffer: wordcount.DefaultScanBuffer.String(),
		Encoding:   "utf-8",
		Top:        DefaultTop,
	}
}

// LoadFile overlays the YAML file at path onto c. Unknown keys are errors.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	return nil
}

// LookupFunc reads an environment variable.
type LookupFunc func(string) (string, bool)

// ApplyEnv overlays WC_* variables read through lookup (os.LookupEnv when
// nil). Empty values are ignored; malformed numbers are errors.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMaxBytes, &c.MaxBytes},
		{EnvMaxWord, &c.MaxWord},
		{EnvStaticSize, &c.StaticSize},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := ParseSize(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, e.name, v, err)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvHashSeed); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvHashSeed, v, err)
		}
		c.HashSeed = seed
	}
	return nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    int
	}{
		{"max_word", c.MaxWord},
		{"max_bytes", c.MaxBytes},
		{"init_capacity", c.InitCapacity},
		{"block_size", c.BlockSize},
		{"static_size", c.StaticSize},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative (got %d)", f.name, f.v))
		}
	}
	if c.Top < 0 {
		errs = append(errs, fmt.Errorf("top must not be negative (got %d)", c.Top))
	}
	if _, err := wordcount.ParseScanBufferMode(c.ScanBuffer); err != nil {
		errs = append(errs, fmt.Errorf("scan_buffer: %q is not stack or resident", c.ScanBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Limits builds counter limits from c. A StaticSize allocates the static
// buffer here; it belongs to the counter built from the returned Limits.
func (c *Config) Limits() (*wordcount.Limits, error) {
	mode, err := wordcount.ParseScanBufferMode(c.ScanBuffer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	lim := &wordcount.Limits{
		MaxBytes:     c.MaxBytes,
		InitCapacity: c.InitCapacity,
		BlockSize:    c.BlockSize,
		HashSeed:     c.HashSeed,
		ScanBuffer:   mode,
	}
	if c.StaticSize > 0 {
		lim.StaticBuffer = make([]byte, c.StaticSize)
	}
	return lim, nil
}

// ParseSize parses a non-negative decimal byte count with an optional
// K, M or G suffix (powers of 1024).
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	mult := 1
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'k', 'K':
			mult, s = 1<<10, s[:n-1]
		case 'm', 'M':
			mult, s = 1<<20, s[:n-1]
		case 'g', 'G':
			mult, s = 1<<30, s[:n-1]
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative size %d", v)
	}
	if v > 0 && mult > 1 && v > int(^uint(0)>>1)/mult {
		return 0, strconv.ErrRange
	}
	return v * mult, nil
}
