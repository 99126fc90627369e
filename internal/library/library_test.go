package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/logging"
	"github.com/hpungsan/quip/internal/phrase"
)

const jsonLibrary = `{
  "title": "root",
  "folders": [
    {
      "title": "Work",
      "modes": ["abbreviation"],
      "window_filter": "Mail",
      "abbreviation": {"text": "wk"},
      "phrases": [
        {"description": "sig", "body": "Regards,%%", "modes": ["hotkey"],
         "hotkey": {"modifiers": ["<ctrl>"], "key": "s"}}
      ]
    }
  ],
  "phrases": [
    {"description": "brb", "body": "be right back", "modes": ["abbreviation"],
     "abbreviation": {"text": "brb", "ignore_case": true}, "match_case": true}
  ]
}`

const tomlLibrary = `title = "root"

[[folders]]
title = "Work"
modes = ["abbreviation"]
window_filter = "Mail"

[folders.abbreviation]
text = "wk"

[[folders.phrases]]
description = "sig"
body = "Regards,%%"
modes = ["hotkey"]

[folders.phrases.hotkey]
modifiers = ["<ctrl>"]
key = "s"

[[phrases]]
description = "brb"
body = "be right back"
modes = ["abbreviation"]
match_case = true

[phrases.abbreviation]
text = "brb"
ignore_case = true
`

const yamlLibrary = `title: root
folders:
  - title: Work
    modes: [abbreviation]
    window_filter: Mail
    abbreviation:
      text: wk
    phrases:
      - description: sig
        body: "Regards,%%"
        modes: [hotkey]
        hotkey:
          modifiers: ["<ctrl>"]
          key: s
phrases:
  - description: brb
    body: be right back
    modes: [abbreviation]
    match_case: true
    abbreviation:
      text: brb
      ignore_case: true
`

func assertSampleTree(t *testing.T, root *phrase.Folder) {
	t.Helper()

	assert.Equal(t, "root", root.Title)
	assert.Equal(t, 2, root.ChildCount())

	n, err := root.Child("Work")
	require.NoError(t, err)
	work := n.(*phrase.Folder)
	assert.True(t, work.Modes.Has(phrase.ModeAbbreviation))
	assert.Equal(t, "wk", work.Abbreviation.Text)
	assert.True(t, work.Abbreviation.Backspace, "backspace defaults to true")
	assert.Equal(t, "Mail", work.WindowFilter().Pattern())

	n, err = work.Child("sig")
	require.NoError(t, err)
	sig := n.(*phrase.Phrase)
	assert.Equal(t, "Regards,%%", sig.Body())
	assert.Equal(t, "<ctrl>+s", sig.Hotkey.String())
	assert.True(t, sig.Modes.Has(phrase.ModeHotkey))

	n, err = root.Child("brb")
	require.NoError(t, err)
	brb := n.(*phrase.Phrase)
	assert.True(t, brb.Abbreviation.IgnoreCase)
	assert.True(t, brb.MatchCase)
	assert.False(t, brb.Prompt)
}

func TestDecode_AllFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", jsonLibrary, FormatJSON},
		{"toml", tomlLibrary, FormatTOML},
		{"yaml", yamlLibrary, FormatYAML},
		{"auto json", jsonLibrary, FormatAuto},
		{"auto toml", tomlLibrary, FormatAuto},
		{"auto yaml", yamlLibrary, FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)

			root, err := Build(spec, BuildOptions{})
			require.NoError(t, err)
			assertSampleTree(t, root)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("lib.JSON"))
	assert.Equal(t, FormatTOML, FormatForPath("/x/lib.toml"))
	assert.Equal(t, FormatYAML, FormatForPath("lib.yml"))
	assert.Equal(t, FormatYAML, FormatForPath("lib.yaml"))
	assert.Equal(t, FormatAuto, FormatForPath("library"))
}

func TestDecode_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing title", `{"phrases": []}`},
		{"unknown field", `{"title": "root", "colour": "red"}`},
		{"phrase without body", `{"title": "root", "phrases": [{"description": "x"}]}`},
		{"wrong type", `{"title": "root", "folders": {"title": "x"}}`},
		{"abbreviation without text", `{"title": "root", "abbreviation": {"ignore_case": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatJSON)
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)

			qErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Contains(t, qErr.Details, "schema_error")
		})
	}
}

func TestDecode_SchemaSeesEveryFormat(t *testing.T) {
	inputs := map[Format]string{
		FormatTOML: "title = \"root\"\ncolour = \"red\"\n",
		FormatYAML: "title: root\ncolour: red\n",
	}
	for format, data := range inputs {
		_, err := Decode([]byte(data), format)
		qErr, ok := errors.As(err)
		require.True(t, ok, "%s: got %v", format, err)
		assert.Contains(t, qErr.Details, "schema_error", "%s", format)
	}
}

func TestDecode_Unparseable(t *testing.T) {
	_, err := Decode([]byte("{{{"), FormatAuto)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestBuild_InvalidPatternReportsPath(t *testing.T) {
	data := `{"title": "root", "folders": [{"title": "Work", "phrases": [
		{"description": "sig", "body": "x", "window_filter": "(unclosed"}]}]}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	_, err = Build(spec, BuildOptions{})
	qErr, ok := errors.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, errors.ErrInvalidPattern, qErr.Code)
	assert.Equal(t, "/Work/sig", qErr.Details["path"])
}

func TestBuild_InvalidWordChars(t *testing.T) {
	data := `{"title": "root", "abbreviation": {"text": "r", "word_chars": "[a-"}}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	_, err = Build(spec, BuildOptions{})
	qErr, ok := errors.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, errors.ErrInvalidPattern, qErr.Code)
	assert.Equal(t, "/", qErr.Details["path"])
}

func TestBuild_UnknownMode(t *testing.T) {
	data := `{"title": "root", "phrases": [{"description": "x", "body": "y", "modes": ["telepathy"]}]}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	_, err = Build(spec, BuildOptions{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestBuild_DuplicateKey(t *testing.T) {
	data := `{"title": "root", "phrases": [
		{"description": "x", "body": "1"}, {"description": "x", "body": "2"}]}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	_, err = Build(spec, BuildOptions{})
	assert.True(t, errors.Is(err, errors.ErrNameAlreadyExists), "got %v", err)
}

func TestBuild_TwoCursorMarkers(t *testing.T) {
	data := `{"title": "root", "phrases": [{"description": "x", "body": "%%a%%"}]}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	_, err = Build(spec, BuildOptions{})
	qErr, ok := errors.As(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, errors.ErrInvalidRequest, qErr.Code)
	assert.Equal(t, "/x", qErr.Details["path"])
}

func TestBuild_AbbreviationDefaults(t *testing.T) {
	data := `{"title": "root", "phrases": [
		{"description": "keep", "body": "k", "abbreviation": {"text": "kp", "backspace": false}},
		{"description": "own", "body": "o", "abbreviation": {"text": "ow", "word_chars": "[a-z]"}},
		{"description": "inherit", "body": "i", "abbreviation": {"text": "in"}}]}`
	spec, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	root, err := Build(spec, BuildOptions{WordChars: `[\w-]`})
	require.NoError(t, err)

	get := func(key string) *phrase.Phrase {
		n, err := root.Child(key)
		require.NoError(t, err)
		return n.(*phrase.Phrase)
	}

	assert.False(t, get("keep").Abbreviation.Backspace)
	assert.Equal(t, "[a-z]", get("own").Abbreviation.WordChars())
	assert.Equal(t, `[\w-]`, get("inherit").Abbreviation.WordChars())
	assert.True(t, get("inherit").Abbreviation.IsWordChar('-'))
}

func TestSummary(t *testing.T) {
	spec, err := Decode([]byte(jsonLibrary), FormatJSON)
	require.NoError(t, err)
	root, err := Build(spec, BuildOptions{})
	require.NoError(t, err)

	folders, phrases := Summary(root)
	assert.Equal(t, 1, folders)
	assert.Equal(t, 2, phrases)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlLibrary), 0600))

	root, err := Load(path, BuildOptions{})
	require.NoError(t, err)
	assertSampleTree(t, root)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), BuildOptions{})
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "v1"}`), 0600))

	w := NewWatcher(path, BuildOptions{}, logging.Discard())
	roots := make(chan *phrase.Folder, 4)
	w.OnChange(func(root *phrase.Folder) { roots <- root })
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"title": "v2"}`), 0600))

	select {
	case root := <-roots:
		assert.Equal(t, "v2", root.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not deliver a reloaded tree")
	}
}

func TestWatcher_BrokenFileKeepsCallbacksQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "root", "window_filter": "("}`), 0600))

	w := NewWatcher(path, BuildOptions{}, logging.Discard())
	called := false
	w.OnChange(func(*phrase.Folder) { called = true })

	w.Reload()

	select {
	case err := <-w.Errors():
		assert.True(t, errors.Is(err, errors.ErrInvalidPattern), "got %v", err)
	default:
		t.Fatal("expected a reload error")
	}
	assert.False(t, called)
}
