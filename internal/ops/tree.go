package ops

import (
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/phrase"
)

// TreeInput contains parameters for the Tree operation.
type TreeInput struct {
	Path string // default: "/"
}

// TreeOutput describes one folder and its children.
type TreeOutput struct {
	Path         string   `json:"path"`
	Title        string   `json:"title"`
	Modes        []string `json:"modes"`
	Abbreviation string   `json:"abbreviation,omitempty"`
	WindowFilter string   `json:"window_filter,omitempty"`
	Usage        int      `json:"usage"`
	Items        []Item   `json:"items"`
}

// Tree lists the children of the folder at Path.
func Tree(eng *engine.Engine, input TreeInput) (*TreeOutput, error) {
	n, err := eng.Resolve(input.Path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*phrase.Folder)
	if !ok {
		return nil, errors.NewInvalidRequest("path names a phrase, not a folder").WithDetail("path", input.Path)
	}

	path := engine.Path(f)
	items, err := folderItems(eng, f, path)
	if err != nil {
		return nil, err
	}

	out := &TreeOutput{
		Path:         path,
		Title:        f.Title,
		Modes:        f.Modes.Strings(),
		Abbreviation: f.Abbreviation.Text,
		WindowFilter: f.WindowFilter().Pattern(),
		Items:        items,
	}
	_ = eng.View(func(*phrase.Folder) error {
		out.Usage = f.UsageCount()
		return nil
	})
	return out, nil
}

// PhraseInput contains parameters for the Phrase operation.
type PhraseInput struct {
	Path string // required
}

// PhraseOutput is the full description of one phrase.
type PhraseOutput struct {
	Path         string   `json:"path"`
	Description  string   `json:"description"`
	Body         string   `json:"body"`
	Modes        []string `json:"modes"`
	Abbreviation string   `json:"abbreviation,omitempty"`
	IgnoreCase   bool     `json:"ignore_case,omitempty"`
	Immediate    bool     `json:"immediate,omitempty"`
	WordChars    string   `json:"word_chars"`
	Hotkey       string   `json:"hotkey,omitempty"`
	WindowFilter string   `json:"window_filter,omitempty"`
	Prompt       bool     `json:"prompt,omitempty"`
	OmitTrigger  bool     `json:"omit_trigger,omitempty"`
	MatchCase    bool     `json:"match_case,omitempty"`
	Usage        int      `json:"usage"`
}

// Phrase describes the phrase at Path.
func Phrase(eng *engine.Engine, input PhraseInput) (*PhraseOutput, error) {
	n, err := eng.Resolve(input.Path)
	if err != nil {
		return nil, err
	}
	p, ok := n.(*phrase.Phrase)
	if !ok {
		return nil, errors.NewInvalidRequest("path names a folder, not a phrase").WithDetail("path", input.Path)
	}

	out := &PhraseOutput{
		Path:         engine.Path(p),
		Description:  p.Description,
		Body:         p.Body(),
		Modes:        p.Modes.Strings(),
		Abbreviation: p.Abbreviation.Text,
		IgnoreCase:   p.Abbreviation.IgnoreCase,
		Immediate:    p.Abbreviation.Immediate,
		WordChars:    p.Abbreviation.WordChars(),
		WindowFilter: p.WindowFilter().Pattern(),
		Prompt:       p.Prompt,
		OmitTrigger:  p.OmitTrigger,
		MatchCase:    p.MatchCase,
	}
	if p.Hotkey.IsSet() {
		out.Hotkey = p.Hotkey.String()
	}
	_ = eng.View(func(*phrase.Folder) error {
		out.Usage = p.UsageCount()
		return nil
	})
	return out, nil
}
