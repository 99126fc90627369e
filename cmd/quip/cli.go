package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/quip/internal/config"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/library"
	"github.com/hpungsan/quip/internal/ops"
	"github.com/hpungsan/quip/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *cli.App {
	app := &cli.App{
		Name:    "quip",
		Usage:   "Phrase library and text expander",
		Version: Version,
		Commands: []*cli.Command{
			checkCmd(db, eng),
			selectCmd(db, eng),
			hotkeyCmd(db, eng),
			treeCmd(eng),
			showCmd(eng),
			statsCmd(eng),
			historyCmd(db, cfg),
			purgeCmd(db),
			uiCmd(db, eng, cfg, logger),
			validateCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func recordFlag() cli.Flag {
	return &cli.BoolFlag{Name: "record", Aliases: []string{"r"}, Usage: "Write the expansion to history"}
}

// checkCmd creates the check command.
func checkCmd(db *sql.DB, eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run typed text against the library and print what fires",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "buffer", Aliases: []string{"b"}, Usage: "Text typed so far (required)"},
			&cli.StringFlag{Name: "window", Aliases: []string{"w"}, Usage: "Title of the focused window"},
			recordFlag(),
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Check(c.Context, db, eng, ops.CheckInput{
				Buffer:      c.String("buffer"),
				WindowTitle: c.String("window"),
				Record:      c.Bool("record"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// selectCmd creates the select command.
func selectCmd(db *sql.DB, eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "Expand a phrase or open a folder by path",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "buffer", Aliases: []string{"b"}, Usage: "Text typed before the selection"},
			recordFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("path argument is required"))
			}
			output, err := ops.Select(c.Context, db, eng, ops.SelectInput{
				Path:   c.Args().First(),
				Buffer: c.String("buffer"),
				Record: c.Bool("record"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// hotkeyCmd creates the hotkey command.
func hotkeyCmd(db *sql.DB, eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:  "hotkey",
		Usage: "Fire the node bound to a key combination",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mods", Aliases: []string{"m"}, Usage: "Comma-separated modifiers, e.g. <ctrl>,<alt>"},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Key name (required)"},
			&cli.StringFlag{Name: "window", Aliases: []string{"w"}, Usage: "Title of the focused window"},
			&cli.StringFlag{Name: "buffer", Aliases: []string{"b"}, Usage: "Text typed before the hotkey"},
			recordFlag(),
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Hotkey(c.Context, db, eng, ops.HotkeyInput{
				Modifiers:   parseList(c.String("mods")),
				Key:         c.String("key"),
				WindowTitle: c.String("window"),
				Buffer:      c.String("buffer"),
				Record:      c.Bool("record"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// treeCmd creates the tree command.
func treeCmd(eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "List the children of a folder",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			output, err := ops.Tree(eng, ops.TreeInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one phrase with all its settings",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("path argument is required"))
			}
			output, err := ops.Phrase(eng, ops.PhraseInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(eng *engine.Engine) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Rank phrases under a folder by usage",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultStatsLimit, Usage: "Max results"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(eng, ops.StatsInput{
				Path:  c.Args().First(),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	defaultLimit := ops.DefaultHistoryLimit
	if cfg != nil && cfg.HistoryLimit > 0 {
		defaultLimit = cfg.HistoryLimit
	}
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded expansions, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: defaultLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(c.Context, db, ops.HistoryInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete expansion history",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge records older than N days (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(db *sql.DB, eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Browse the library and history in a web browser",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind to"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(db, eng, cfg, logger, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, logger)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a library file without installing it",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("file argument is required"))
			}
			path := c.Args().First()

			var opts library.BuildOptions
			if cfg != nil {
				opts.WordChars = cfg.WordChars
			}
			root, err := library.Load(path, opts)
			if err != nil {
				return outputError(err)
			}

			folders, phrases := library.Summary(root)
			format := library.FormatForPath(path)
			if format == library.FormatAuto {
				format = "auto"
			}
			return outputJSON(map[string]any{
				"valid":   true,
				"path":    path,
				"format":  format,
				"title":   root.Title,
				"folders": folders,
				"phrases": phrases,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var qErr *errors.QuipError
	if stderrors.As(err, &qErr) {
		msg := qErr.Message
		if at, ok := qErr.Details["path"]; ok {
			msg = fmt.Sprintf("%s (at %v)", msg, at)
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", qErr.Code, msg), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated string into trimmed, non-empty items.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			items = append(items, t)
		}
	}
	return items
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
