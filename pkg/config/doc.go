// Package config loads configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - An optional `.env` file in the working directory is loaded once, and
//     LoadEnvFiles loads explicitly named files on request.
//   - Load parses the environment into any struct using `env` tags and caches
//     the result per type, so each type is parsed at most once per process.
//   - Settings carries the engine defaults shared by the validators
//     (chunk size, multipart memory, aspect ratio tolerance, CSV encoding) and
//     the demo logger (level, format, value limit, environment). Its
//     variables use the PARAMGUARD_ prefix.
//
// # Usage
//
//	settings, err := config.LoadSettings()
//	if err != nil {
//	    log.Fatalf("config: %v", err)
//	}
//
// A failed parse is not cached; the next call retries.
//
// # Error Handling
//
//   - `ErrParsingConfig`   – failed to parse env vars into struct.
//   - `ErrConfigNotLoaded` – the cached value could not be read back.
//   - `ErrNilPointer`      – nil pointer passed to `Load`/`MustLoad`.
//   - `ErrEnvFile`         – LoadEnvFiles could not read a file.
//   - `ErrInvalidSettings` – Settings.Validate rejected a value.
//
// Use `ResetCache()` to clear the cache between tests.
package config
