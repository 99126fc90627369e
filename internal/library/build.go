package library

import (
	"fmt"
	"path"

	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/phrase"
)

// BuildOptions carries library-wide defaults.
type BuildOptions struct {
	// WordChars applies to every abbreviation that does not set its own.
	WordChars string
}

// Build constructs the phrase tree described by spec. Every pattern is
// compiled here; the first failure aborts the build and the returned error
// carries the offending node's path in its "path" detail.
func Build(spec *FolderSpec, opts BuildOptions) (*phrase.Folder, error) {
	if spec == nil {
		return nil, errors.NewInvalidRequest("library is empty")
	}
	return buildFolder(spec, "/", opts)
}

// Load reads, validates and builds the library at filePath.
func Load(filePath string, opts BuildOptions) (*phrase.Folder, error) {
	spec, err := ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return Build(spec, opts)
}

// Summary counts the folders and phrases below root, root excluded.
func Summary(root *phrase.Folder) (folders, phrases int) {
	root.Walk(func(n phrase.Node) bool {
		if n.Kind() == phrase.KindFolder {
			folders++
		} else {
			phrases++
		}
		return true
	})
	return folders, phrases
}

func buildFolder(spec *FolderSpec, at string, opts BuildOptions) (*phrase.Folder, error) {
	f := phrase.NewFolder(spec.Title)
	modes, err := parseModes(spec.Modes)
	if err != nil {
		return nil, atPath(err, at)
	}
	f.Modes = modes
	f.ShowInTrayMenu = spec.ShowInTrayMenu
	f.Hotkey = buildHotkey(spec.Hotkey)
	if f.Abbreviation, err = buildAbbreviation(spec.Abbreviation, opts); err != nil {
		return nil, atPath(err, at)
	}
	if err := f.SetWindowFilter(spec.WindowFilter); err != nil {
		return nil, atPath(err, at)
	}

	for i := range spec.Folders {
		child := &spec.Folders[i]
		childPath := path.Join(at, child.Title)
		sub, err := buildFolder(child, childPath, opts)
		if err != nil {
			return nil, err
		}
		if err := f.AddFolder(sub); err != nil {
			return nil, atPath(err, childPath)
		}
	}

	for i := range spec.Phrases {
		ps := &spec.Phrases[i]
		childPath := path.Join(at, ps.Description)
		p, err := buildPhrase(ps, opts)
		if err != nil {
			return nil, atPath(err, childPath)
		}
		if err := f.AddPhrase(p); err != nil {
			return nil, atPath(err, childPath)
		}
	}
	return f, nil
}

func buildPhrase(spec *PhraseSpec, opts BuildOptions) (*phrase.Phrase, error) {
	p, err := phrase.NewPhrase(spec.Description, spec.Body)
	if err != nil {
		return nil, err
	}
	if p.Modes, err = parseModes(spec.Modes); err != nil {
		return nil, err
	}
	if p.Abbreviation, err = buildAbbreviation(spec.Abbreviation, opts); err != nil {
		return nil, err
	}
	if err := p.SetWindowFilter(spec.WindowFilter); err != nil {
		return nil, err
	}
	p.Hotkey = buildHotkey(spec.Hotkey)
	p.ShowInTrayMenu = spec.ShowInTrayMenu
	p.Prompt = spec.Prompt
	p.OmitTrigger = spec.OmitTrigger
	p.MatchCase = spec.MatchCase
	return p, nil
}

func buildAbbreviation(spec *AbbreviationSpec, opts BuildOptions) (phrase.Abbreviation, error) {
	if spec == nil {
		a := phrase.NewAbbreviation("")
		return a, a.SetWordChars(opts.WordChars)
	}
	a := phrase.NewAbbreviation(spec.Text)
	if spec.Backspace != nil {
		a.Backspace = *spec.Backspace
	}
	a.IgnoreCase = spec.IgnoreCase
	a.Immediate = spec.Immediate
	a.TriggerInside = spec.TriggerInside

	wordChars := spec.WordChars
	if wordChars == "" {
		wordChars = opts.WordChars
	}
	if err := a.SetWordChars(wordChars); err != nil {
		return a, err
	}
	return a, nil
}

func buildHotkey(spec *HotkeySpec) phrase.Hotkey {
	if spec == nil {
		return phrase.Hotkey{}
	}
	return phrase.NewHotkey(spec.Modifiers, spec.Key)
}

func parseModes(names []string) (phrase.Modes, error) {
	var modes phrase.Modes
	for _, name := range names {
		m, err := phrase.ParseMode(name)
		if err != nil {
			return 0, err
		}
		modes = modes.With(m)
	}
	return modes, nil
}

// atPath records where in the library err happened.
func atPath(err error, at string) error {
	if qErr, ok := errors.As(err); ok {
		if _, set := qErr.Details["path"]; !set {
			qErr.WithDetail("path", at)
		}
		return qErr
	}
	return fmt.Errorf("%s: %w", at, err)
}
