package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hpungsan/quip/internal/errors"
)

// DefaultWordChars mirrors phrase.DefaultWordChars; config sits below the
// phrase package and cannot import it.
const DefaultWordChars = `[\p{L}\p{N}_]`

// Config holds application configuration.
type Config struct {
	// PredictiveLength is how many trailing characters of the buffer must
	// match the start of a phrase body for a predictive trigger.
	// Zero disables predictive triggering.
	PredictiveLength int `json:"predictive_length"`

	// WordChars is the word-character pattern used by nodes that do not set
	// their own. Used for abbreviation boundary detection.
	WordChars string `json:"word_chars,omitempty"`

	// LibraryPath is the phrase library file (.json, .toml, .yaml).
	// Relative paths are resolved against the base directory.
	LibraryPath string `json:"library_path,omitempty"`

	// HistoryLimit caps how many expansion records are returned per page.
	HistoryLimit int `json:"history_limit,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// Known types: "phrase", "history".
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"log_format,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PredictiveLength: 5,
		WordChars:        DefaultWordChars,
		LibraryPath:      "library.json",
		HistoryLimit:     50,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.PredictiveLength < 0 {
		return errors.NewInvalidRequest("predictive_length must be non-negative")
	}
	if c.HistoryLimit < 0 {
		return errors.NewInvalidRequest("history_limit must be non-negative")
	}
	if c.WordChars != "" {
		if _, err := regexp.Compile(c.WordChars); err != nil {
			return errors.NewInvalidPattern(c.WordChars, err)
		}
	}
	return nil
}

// ResolveLibraryPath returns LibraryPath, resolved against baseDir when relative.
func (c *Config) ResolveLibraryPath(baseDir string) string {
	if c.LibraryPath == "" || filepath.IsAbs(c.LibraryPath) {
		return c.LibraryPath
	}
	return filepath.Join(baseDir, c.LibraryPath)
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.quip.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.quip) and repo (.quip) directories.
// Repo config is found by walking upward from startDir to find the nearest .quip/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .quip/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".quip", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base.
	// A zero predictive_length in an overlay reads as unset.
	result.PredictiveLength = firstNonZero(overlay.PredictiveLength, base.PredictiveLength)
	result.HistoryLimit = firstNonZero(overlay.HistoryLimit, base.HistoryLimit)
	result.DBMaxOpenConns = firstNonZero(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = firstNonZero(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	result.WordChars = firstNonEmpty(overlay.WordChars, base.WordChars)
	result.LibraryPath = firstNonEmpty(overlay.LibraryPath, base.LibraryPath)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)
	result.LogFormat = firstNonEmpty(overlay.LogFormat, base.LogFormat)

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
