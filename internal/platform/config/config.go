// Package config loads process configuration from the environment and the
// optional biometric tuning file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mcuadros/go-defaults"
)

// Tuning holds the fingerprint pipeline parameters. Zero fields take the
// value in their default tag; a TOML file may override any of them.
type Tuning struct {
	Engine             string  `toml:"engine" default:"native"`
	TolerancePx        float64 `toml:"tolerance_px" default:"12"`
	MatchThreshold     float64 `toml:"match_threshold" default:"60"`
	EnrollConfidence   float64 `toml:"enroll_confidence" default:"95"`
	DegradedConfidence float64 `toml:"degraded_confidence" default:"10"`
	BlockSize          int     `toml:"block_size" default:"11"`
	C                  float64 `toml:"c" default:"2"`
	FASTThreshold      int     `toml:"fast_threshold" default:"20"`
	MaxImagePixels     int     `toml:"max_image_pixels" default:"16777216"`
}

// DefaultMaxBodyBytes caps JSON request bodies (10 MiB).
const DefaultMaxBodyBytes = 10 << 20

// Config is the process configuration.
type Config struct {
	ServerAddr    string
	JWTSecret     string
	LogLevel      string
	LogDir        string
	CacheTTL      time.Duration
	RunMigrations bool
	MaxBodyBytes  int64
	Tuning        Tuning
}

// Load reads the environment. BIOMETRIC_TUNING_FILE, when set, is decoded on
// top of the defaults and BIOMETRIC_ENGINE overrides the engine name.
func Load() (*Config, error) {
	t, err := LoadTuning(os.Getenv("BIOMETRIC_TUNING_FILE"))
	if err != nil {
		return nil, err
	}
	if name := os.Getenv("BIOMETRIC_ENGINE"); name != "" {
		t.Engine = name
	}

	cfg := &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogDir:        os.Getenv("LOG_DIR"),
		CacheTTL:      10 * time.Minute,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
		MaxBodyBytes:  DefaultMaxBodyBytes,
		Tuning:        t,
	}
	if v := os.Getenv("ENROLLMENT_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ENROLLMENT_CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("MAX_REQUEST_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_REQUEST_BYTES %q", v)
		}
		cfg.MaxBodyBytes = n
	}
	return cfg, nil
}

// LoadTuning returns the default tuning, overridden by the TOML file at path
// when path is not empty.
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	defaults.SetDefaults(&t)

	if path != "" {
		md, err := toml.DecodeFile(path, &t)
		if err != nil {
			return Tuning{}, fmt.Errorf("failed to read tuning file %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = k.String()
			}
			slog.Warn("unknown keys in tuning file", "path", path, "keys", strings.Join(names, ","))
		}
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate rejects parameter sets the pipeline cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	if t.Engine == "" {
		errs = append(errs, errors.New("engine must not be empty"))
	}
	if t.TolerancePx <= 0 {
		errs = append(errs, fmt.Errorf("tolerance_px must be positive, got %v", t.TolerancePx))
	}
	if t.MatchThreshold <= 0 || t.MatchThreshold > 100 {
		errs = append(errs, fmt.Errorf("match_threshold must be in (0, 100], got %v", t.MatchThreshold))
	}
	if t.EnrollConfidence < 0 || t.EnrollConfidence > 100 {
		errs = append(errs, fmt.Errorf("enroll_confidence must be in [0, 100], got %v", t.EnrollConfidence))
	}
	if t.DegradedConfidence < 0 || t.DegradedConfidence >= t.MatchThreshold {
		errs = append(errs, fmt.Errorf("degraded_confidence must be in [0, match_threshold), got %v", t.DegradedConfidence))
	}
	if t.BlockSize < 3 || t.BlockSize%2 == 0 {
		errs = append(errs, fmt.Errorf("block_size must be an odd number >= 3, got %d", t.BlockSize))
	}
	if t.FASTThreshold <= 0 {
		errs = append(errs, fmt.Errorf("fast_threshold must be positive, got %d", t.FASTThreshold))
	}
	if t.MaxImagePixels <= 0 {
		errs = append(errs, fmt.Errorf("max_image_pixels must be positive, got %d", t.MaxImagePixels))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid biometric tuning: %w", errors.Join(errs...))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
