package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every Settings variable name.
const EnvPrefix = "PARAMGUARD_"

// Settings holds the engine-wide defaults shared by the validators and the demo server.
type Settings struct {
	// ChunkSize is the read size used when a payload length is unknown.
	ChunkSize int `env:"CHUNK_SIZE" envDefault:"65536"`
	// MultipartMaxMemory bounds in-memory multipart parsing.
	MultipartMaxMemory int64 `env:"MULTIPART_MAX_MEMORY" envDefault:"10485760"`
	// AspectRatioTolerance is the default absolute tolerance for image aspect ratios.
	AspectRatioTolerance float64 `env:"ASPECT_RATIO_TOLERANCE" envDefault:"0.05"`
	// CSVEncoding is the default allowed encoding for CSV payloads.
	CSVEncoding string `env:"CSV_ENCODING" envDefault:"utf-8"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	// LogValueLimit caps logged string values in runes; 0 disables the cap.
	LogValueLimit int    `env:"LOG_VALUE_LIMIT" envDefault:"1024"`
	Env           string `env:"ENV" envDefault:"development"`
}

// DefaultSettings returns the values used when no environment is set.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:            64 * 1024,
		MultipartMaxMemory:   10 << 20,
		AspectRatioTolerance: 0.05,
		CSVEncoding:          "utf-8",
		LogLevel:             "info",
		LogFormat:            "json",
		LogValueLimit:        1024,
		Env:                  "development",
	}
}

// Validate checks the numeric settings.
func (s Settings) Validate() error {
	switch {
	case s.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidSettings, s.ChunkSize)
	case s.MultipartMaxMemory <= 0:
		return fmt.Errorf("%w: multipart max memory must be positive, got %d", ErrInvalidSettings, s.MultipartMaxMemory)
	case s.AspectRatioTolerance < 0:
		return fmt.Errorf("%w: aspect ratio tolerance must not be negative, got %v", ErrInvalidSettings, s.AspectRatioTolerance)
	case s.CSVEncoding == "":
		return fmt.Errorf("%w: csv encoding is empty", ErrInvalidSettings)
	case s.LogValueLimit < 0:
		return fmt.Errorf("%w: log value limit must not be negative, got %d", ErrInvalidSettings, s.LogValueLimit)
	}
	return nil
}

// LoadSettings reads Settings from PARAMGUARD_* variables and validates them.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := LoadWith(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
