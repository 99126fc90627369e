package mcp

import "github.com/mark3labs/mcp-go/mcp"

var checkToolDef = mcp.NewTool("phrase_check",
	mcp.WithDescription("Run typed text against the phrase library. Returns the expansion of the first phrase "+
		"that triggers, or the menu of a folder that triggers, with the number of characters to erase first."),
	mcp.WithString("buffer", mcp.Required(), mcp.Description("Text typed so far, most recent character last")),
	mcp.WithString("window_title", mcp.Description("Title of the focused window, for window filters")),
	mcp.WithBoolean("record", mcp.Description("Write the result to expansion history (default true)")),
)

var selectToolDef = mcp.NewTool("phrase_select",
	mcp.WithDescription("Expand a phrase chosen by path, as when picking it from a folder menu. "+
		"Choosing a folder returns its menu."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Slash path from the library root, e.g. /Signatures/work")),
	mcp.WithString("buffer", mcp.Description("Text typed before the selection; decides how much to erase")),
	mcp.WithBoolean("record", mcp.Description("Write the result to expansion history (default true)")),
)

var hotkeyToolDef = mcp.NewTool("phrase_hotkey",
	mcp.WithDescription("Find the phrase or folder bound to a key chord and expand it."),
	mcp.WithString("key", mcp.Required(), mcp.Description("The non-modifier key")),
	mcp.WithArray("modifiers", mcp.Description("Held modifiers, e.g. [\"<ctrl>\", \"<alt>\"]; order does not matter"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("window_title", mcp.Description("Title of the focused window, for window filters")),
	mcp.WithString("buffer", mcp.Description("Text typed so far")),
	mcp.WithBoolean("record", mcp.Description("Write the result to expansion history (default true)")),
)

var treeToolDef = mcp.NewTool("phrase_tree",
	mcp.WithDescription("List the children of a folder: sub-folders first, then phrases, each in name order."),
	mcp.WithString("path", mcp.Description("Folder path (default /)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var showToolDef = mcp.NewTool("phrase_show",
	mcp.WithDescription("Show one phrase with its body and trigger settings."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Phrase path, e.g. /brb")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var statsToolDef = mcp.NewTool("phrase_stats",
	mcp.WithDescription("Rank the phrases below a folder by how often they were used."),
	mcp.WithString("path", mcp.Description("Folder path (default /)")),
	mcp.WithNumber("limit", mcp.Description("Maximum rows (default 20, max 100)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("Page through recorded expansions, newest first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default from config, max 500)")),
	mcp.WithNumber("offset", mcp.Description("Records to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyPurgeToolDef = mcp.NewTool("history_purge",
	mcp.WithDescription("Permanently delete expansion history. Usage rankings are rebuilt from history on the next reload."),
	mcp.WithNumber("older_than_days", mcp.Description("Only delete records older than N days (default: all)")),
	mcp.WithDestructiveHintAnnotation(true),
)
