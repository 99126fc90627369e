package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hpungsan/quip/internal/config"
	"github.com/hpungsan/quip/internal/db"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/library"
	"github.com/hpungsan/quip/internal/logging"
	"github.com/hpungsan/quip/internal/mcp"
	"github.com/hpungsan/quip/internal/ops"
	"github.com/hpungsan/quip/internal/phrase"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"check": true, "select": true, "hotkey": true,
	"tree": true, "show": true, "stats": true,
	"history": true, "purge": true,
	"ui": true, "validate": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
               _
    __ _ _   _(_)_ __
   / _' | | | | | '_ \
  | (_| | |_| | | |_) |
   \__, |\__,_|_| .__/
      |_|       |_|

  Phrase library and text expander

  Usage: quip <command> [options]
         quip --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".quip")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = homeDir
	}

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	logger, err := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fatal("invalid logging config: %v", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	libraryPath := cfg.ResolveLibraryPath(baseDir)
	opts := library.BuildOptions{WordChars: cfg.WordChars}

	root, err := loadLibrary(libraryPath, opts, logger)
	if err != nil {
		fatal("failed to load library %s: %v", libraryPath, err)
	}

	eng := engine.New(nil, cfg.PredictiveLength, logger)
	if _, err := ops.Install(context.Background(), database, eng, root); err != nil {
		fatal("failed to install library: %v", err)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, eng, cfg, logger)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'quip --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default), with the library reloaded on save
	watcher := library.NewWatcher(libraryPath, opts, logger)
	watcher.OnChange(func(root *phrase.Folder) {
		if _, err := ops.Install(context.Background(), database, eng, root); err != nil {
			logger.Error("install reloaded library", "error", err)
		}
	})
	if err := watcher.Start(); err != nil {
		logger.Warn("library hot reload disabled", "path", libraryPath, "error", err)
	}
	defer watcher.Close()

	if err := mcp.Run(database, eng, cfg, logger, Version); err != nil {
		fatal("%v", err)
	}
}

// loadLibrary reads the phrase library, falling back to an empty tree when
// the file has not been created yet.
func loadLibrary(path string, opts library.BuildOptions, logger *slog.Logger) (*phrase.Folder, error) {
	root, err := library.Load(path, opts)
	if err == nil {
		folders, phrases := library.Summary(root)
		logger.Debug("library loaded", "path", path, "folders", folders, "phrases", phrases)
		return root, nil
	}
	if stderrors.Is(err, os.ErrNotExist) {
		logger.Warn("library not found, starting empty", "path", path)
		return phrase.NewFolder("root"), nil
	}
	return nil, err
}
