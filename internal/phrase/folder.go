package phrase

import (
	"fmt"

	"github.com/hpungsan/quip/internal/errors"
)

// Folder groups sub-folders (keyed by title) and phrases (keyed by
// description). It may itself carry an abbreviation or hotkey that opens
// it as a menu.
type Folder struct {
	node

	Title string

	folders    map[string]*Folder
	phrases    map[string]*Phrase
	folderKeys sortedKeys
	phraseKeys sortedKeys
}

// NewFolder returns an empty folder with no active modes.
func NewFolder(title string) *Folder {
	return &Folder{
		node:    newNode(),
		Title:   title,
		folders: make(map[string]*Folder),
		phrases: make(map[string]*Phrase),
	}
}

func (f *Folder) Name() string { return f.Title }
func (f *Folder) Kind() Kind   { return KindFolder }

func (f *Folder) String() string { return f.Title }

// DisplayTuple returns the folder's tree-view row. Folders show no
// abbreviation column.
func (f *Folder) DisplayTuple() DisplayTuple {
	return DisplayTuple{Kind: KindFolder, Name: f.Title}
}

// CheckInput reports whether the folder's abbreviation fires in a window the
// folder accepts. Folders have no predictive mode.
func (f *Folder) CheckInput(buffer, windowTitle string, _ int) bool {
	return f.abbreviationFires(buffer) && f.window.Matches(windowTitle)
}

// AddFolder makes child a sub-folder of f.
func (f *Folder) AddFolder(child *Folder) error {
	if child == nil {
		return errors.NewInvalidRequest("folder must not be nil")
	}
	if child.parent != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("folder %q already has a parent", child.Title))
	}
	for a := f; a != nil; a = a.parent {
		if a == child {
			return errors.NewInvalidRequest(fmt.Sprintf("folder %q cannot contain itself", child.Title))
		}
	}
	if _, exists := f.folders[child.Title]; exists {
		return errors.NewNameAlreadyExists(f.Title, child.Title)
	}
	f.folders[child.Title] = child
	f.folderKeys.insert(child.Title)
	child.parent = f
	return nil
}

// AddPhrase makes p a phrase of f.
func (f *Folder) AddPhrase(p *Phrase) error {
	if p == nil {
		return errors.NewInvalidRequest("phrase must not be nil")
	}
	if p.parent != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("phrase %q already has a parent", p.Description))
	}
	if _, exists := f.phrases[p.Description]; exists {
		return errors.NewNameAlreadyExists(f.Title, p.Description)
	}
	f.phrases[p.Description] = p
	f.phraseKeys.insert(p.Description)
	p.parent = f
	return nil
}

// RemoveFolder detaches the sub-folder with the given title.
func (f *Folder) RemoveFolder(title string) error {
	child, ok := f.folders[title]
	if !ok {
		return errors.NewNotFound(title)
	}
	delete(f.folders, title)
	f.folderKeys.remove(title)
	child.parent = nil
	return nil
}

// RemovePhrase detaches the phrase with the given description.
func (f *Folder) RemovePhrase(description string) error {
	p, ok := f.phrases[description]
	if !ok {
		return errors.NewNotFound(description)
	}
	delete(f.phrases, description)
	f.phraseKeys.remove(description)
	p.parent = nil
	return nil
}

// Folders returns the sub-folders sorted by title.
func (f *Folder) Folders() []*Folder {
	out := make([]*Folder, len(f.folderKeys))
	for i, k := range f.folderKeys {
		out[i] = f.folders[k]
	}
	return out
}

// Phrases returns the phrases sorted by description.
func (f *Folder) Phrases() []*Phrase {
	out := make([]*Phrase, len(f.phraseKeys))
	for i, k := range f.phraseKeys {
		out[i] = f.phrases[k]
	}
	return out
}

// Tree model. Children are addressed by one combined index: sub-folders
// first in title order, then phrases in description order.

// Child returns the child with the given key, looking at sub-folders first.
// An unknown key is a caller error and yields NOT_FOUND.
func (f *Folder) Child(key string) (Node, error) {
	if child, ok := f.folders[key]; ok {
		return child, nil
	}
	if p, ok := f.phrases[key]; ok {
		return p, nil
	}
	return nil, errors.NewNotFound(key)
}

func (f *Folder) ChildCount() int {
	return len(f.folderKeys) + len(f.phraseKeys)
}

func (f *Folder) HasChildren() bool {
	return f.ChildCount() > 0
}

// FirstChild returns the first child in combined order, or false if f is
// empty.
func (f *Folder) FirstChild() (Node, bool) {
	return f.NthChild(0)
}

// NextChild returns the child after current in combined order. ok is false
// past the last child; an error means current is not a child of f.
func (f *Folder) NextChild(current Node) (next Node, ok bool, err error) {
	if !f.owns(current) {
		return nil, false, errors.NewNotFound(nodeName(current))
	}
	switch c := current.(type) {
	case *Folder:
		if sub, ok, _ := nextByKey(f.folderKeys, f.folders, c.Title); ok {
			return sub, true, nil
		}
		if p, ok := firstByKey(f.phraseKeys, f.phrases); ok {
			return p, true, nil
		}
		return nil, false, nil
	case *Phrase:
		if p, ok, _ := nextByKey(f.phraseKeys, f.phrases, c.Description); ok {
			return p, true, nil
		}
		return nil, false, nil
	}
	return nil, false, errors.NewNotFound(nodeName(current))
}

// NthChild returns the child at combined index, or false past the end.
func (f *Folder) NthChild(index int) (Node, bool) {
	if index < 0 || index >= f.ChildCount() {
		return nil, false
	}
	if index < len(f.folderKeys) {
		sub, _ := nthByKey(f.folderKeys, f.folders, index)
		return sub, true
	}
	p, _ := nthByKey(f.phraseKeys, f.phrases, index-len(f.folderKeys))
	return p, true
}

// ChildIndex returns the combined index of child. Sub-folders occupy
// [0, folders) and phrases [folders, folders+phrases).
func (f *Folder) ChildIndex(child Node) (int, error) {
	if f.owns(child) {
		switch c := child.(type) {
		case *Folder:
			i, _ := f.folderKeys.index(c.Title)
			return i, nil
		case *Phrase:
			i, _ := f.phraseKeys.index(c.Description)
			return len(f.folderKeys) + i, nil
		}
	}
	return -1, errors.NewNotFound(nodeName(child))
}

// Walk visits every descendant of f depth-first in combined child order,
// parents before children. The folder itself is not visited. Returning
// false from fn stops the walk; Walk then returns false.
func (f *Folder) Walk(fn func(Node) bool) bool {
	for _, sub := range f.Folders() {
		if !fn(sub) || !sub.Walk(fn) {
			return false
		}
	}
	for _, p := range f.Phrases() {
		if !fn(p) {
			return false
		}
	}
	return true
}

// owns reports whether n is one of f's direct children.
func (f *Folder) owns(n Node) bool {
	switch c := n.(type) {
	case *Folder:
		return c != nil && f.folders[c.Title] == c
	case *Phrase:
		return c != nil && f.phrases[c.Description] == c
	}
	return false
}

func nodeName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	switch c := n.(type) {
	case *Folder:
		if c == nil {
			return "<nil>"
		}
	case *Phrase:
		if c == nil {
			return "<nil>"
		}
	}
	return n.Name()
}
