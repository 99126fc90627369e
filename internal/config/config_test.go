package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/quip/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PredictiveLength != DefaultConfig().PredictiveLength {
		t.Fatalf("PredictiveLength = %d, want %d", cfg.PredictiveLength, DefaultConfig().PredictiveLength)
	}
	if cfg.WordChars != DefaultWordChars {
		t.Fatalf("WordChars = %q, want default", cfg.WordChars)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"predictive_length": 3, "word_chars": "[a-z]", "log_format": "json"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PredictiveLength != 3 {
		t.Errorf("PredictiveLength = %d, want 3", cfg.PredictiveLength)
	}
	if cfg.WordChars != "[a-z]" {
		t.Errorf("WordChars = %q, want [a-z]", cfg.WordChars)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info (default)", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_InvalidWordChars(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"word_chars": "[a-"}`)

	_, err := Load(tmpDir)
	if !errors.Is(err, errors.ErrInvalidPattern) {
		t.Fatalf("Load() error = %v, want INVALID_PATTERN", err)
	}
}

func TestLoad_NegativePredictiveLength(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"predictive_length": -1}`)

	_, err := Load(tmpDir)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("Load() error = %v, want INVALID_REQUEST", err)
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["history_purge", "phrase_hotkey"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "history_purge" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "history_purge")
	}
	if cfg.DisabledTools[1] != "phrase_hotkey" {
		t.Errorf("DisabledTools[1] = %q, want %q", cfg.DisabledTools[1], "phrase_hotkey")
	}
}

func TestLoad_DisabledToolsEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 0 {
		t.Fatalf("DisabledTools = %v, want nil or empty", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"predictive_length": 4, "disabled_tools": ["history_purge"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".quip"), `{"predictive_length": 2, "disabled_tools": ["phrase_hotkey"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	// Repo overrides scalar
	if cfg.PredictiveLength != 2 {
		t.Errorf("PredictiveLength = %d, want 2 (repo override)", cfg.PredictiveLength)
	}

	// Arrays merged
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	repoDir := t.TempDir()

	writeConfig(t, globalDir, `{"predictive_length": 4, "disabled_tools": ["history_purge"]}`)

	cfg, err := LoadWithRepo(globalDir, repoDir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.PredictiveLength != 4 {
		t.Errorf("PredictiveLength = %d, want 4", cfg.PredictiveLength)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "history_purge" {
		t.Errorf("DisabledTools = %v, want [history_purge]", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.PredictiveLength != 5 {
		t.Errorf("PredictiveLength = %d, want 5", cfg.PredictiveLength)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	globalDir := t.TempDir()

	writeConfig(t, filepath.Join(tmpDir, ".quip"), `{"library_path": "/srv/phrases.toml"}`)

	subdir := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LibraryPath != "/srv/phrases.toml" {
		t.Errorf("LibraryPath = %q, want /srv/phrases.toml", cfg.LibraryPath)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{PredictiveLength: 5, DBMaxOpenConns: 5, LogLevel: "info"}
	overlay := &Config{PredictiveLength: 2, LogLevel: "debug"}

	result := Merge(base, overlay)

	if result.PredictiveLength != 2 {
		t.Errorf("PredictiveLength = %d, want 2 (overlay)", result.PredictiveLength)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", result.LogLevel)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTypes: []string{"history", " phrase "}}
	overlay := &Config{DisabledTypes: []string{"phrase", ""}}

	result := Merge(base, overlay)

	if len(result.DisabledTypes) != 2 {
		t.Errorf("DisabledTypes = %v, want 2 entries (merged, deduped)", result.DisabledTypes)
	}
}

func TestResolveLibraryPath(t *testing.T) {
	cfg := &Config{LibraryPath: "library.yaml"}
	if got := cfg.ResolveLibraryPath("/home/u/.quip"); got != filepath.Join("/home/u/.quip", "library.yaml") {
		t.Errorf("ResolveLibraryPath() = %q", got)
	}
	cfg.LibraryPath = "/abs/lib.json"
	if got := cfg.ResolveLibraryPath("/home/u/.quip"); got != "/abs/lib.json" {
		t.Errorf("ResolveLibraryPath() = %q", got)
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	quipDir := filepath.Join(tmpDir, ".quip")
	writeConfig(t, quipDir, `{}`)
	configPath := filepath.Join(quipDir, "config.json")

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(subdir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
	if found := FindRepoConfig(tmpDir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}
