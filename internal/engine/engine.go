// Package engine serves trigger lookups against a phrase tree that can be
// replaced while running.
//
// Trees are never edited in place once published. A reload builds a new
// tree, seeds its usage counts, and swaps it in; lookups always run against
// one consistent tree. Usage counters do change on a published tree, so
// every operation that reads or bumps them runs under the engine mutex.
package engine

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/phrase"
)

// Match is a node that fired, together with its path from the root.
type Match struct {
	Node phrase.Node
	Path string
}

// Engine owns the published phrase tree.
type Engine struct {
	root atomic.Pointer[phrase.Folder]
	mu   sync.Mutex

	predictiveLength int
	logger           *slog.Logger
}

// New creates an engine serving root.
func New(root *phrase.Folder, predictiveLength int, logger *slog.Logger) *Engine {
	if root == nil {
		root = phrase.NewFolder("root")
	}
	e := &Engine{predictiveLength: predictiveLength, logger: logger}
	e.root.Store(root)
	return e
}

// Root returns the published tree.
func (e *Engine) Root() *phrase.Folder {
	return e.root.Load()
}

// PredictiveLength returns the prefix length predictive triggers need.
func (e *Engine) PredictiveLength() int {
	return e.predictiveLength
}

// Swap publishes root after replaying usage onto it, and returns the tree
// it replaced.
func (e *Engine) Swap(root *phrase.Folder, usage map[string]int) *phrase.Folder {
	old, _ := e.SwapFrom(root, func() (map[string]int, error) { return usage, nil })
	return old
}

// SwapFrom is Swap with the usage counts read by load. load runs under the
// engine lock, so a node fired and committed before the swap is always
// part of what load sees, and nothing fires between the read and the
// publish. A nil load seeds nothing.
func (e *Engine) SwapFrom(root *phrase.Folder, load func() (map[string]int, error)) (*phrase.Folder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var usage map[string]int
	if load != nil {
		var err error
		if usage, err = load(); err != nil {
			return nil, err
		}
	}
	applied := SeedUsage(root, usage)
	old := e.root.Swap(root)

	e.logger.Debug("tree swapped", "title", root.Title, "seeded", applied)
	return old, nil
}

// View runs fn against the published tree while holding the engine lock.
func (e *Engine) View(fn func(root *phrase.Folder) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.root.Load())
}

// Match finds the first node, in depth-first combined child order, that
// triggers for buffer typed in a window titled windowTitle. The root itself
// never matches. Folders with no active mode are still searched.
func (e *Engine) Match(buffer, windowTitle string) (Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find(func(n phrase.Node) bool {
		return n.CheckInput(buffer, windowTitle, e.predictiveLength)
	})
}

// MatchHotkey is Match for a key chord.
func (e *Engine) MatchHotkey(modifiers []string, key, windowTitle string) (Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find(func(n phrase.Node) bool {
		return n.CheckHotkey(modifiers, key, windowTitle)
	})
}

func (e *Engine) find(pred func(phrase.Node) bool) (Match, bool) {
	var found phrase.Node
	e.root.Load().Walk(func(n phrase.Node) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return Match{}, false
	}
	return Match{Node: found, Path: Path(found)}, true
}

// Expand builds the expansion for p and records its use.
func (e *Engine) Expand(p *phrase.Phrase, buffer string) phrase.Expansion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expand(p, buffer)
}

func (e *Engine) expand(p *phrase.Phrase, buffer string) phrase.Expansion {
	exp := p.BuildExpansion(buffer, e.predictiveLength)
	e.logger.Debug("expanded", "phrase", p.Description, "backspaces", exp.Backspaces, "lefts", exp.Lefts)
	return exp
}

// BackspaceCount is n.BackspaceCount under the engine lock.
func (e *Engine) BackspaceCount(n phrase.Node, buffer string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return n.BackspaceCount(buffer)
}

// Fired is a node that triggered together with what firing it produced.
// A phrase carries its expansion; a folder carries only the number of
// characters to erase before its menu is shown.
type Fired struct {
	Match
	Expansion  *phrase.Expansion
	Backspaces int
}

// Commit receives a fired node while the engine lock that fired it is
// still held. It must not call back into the engine.
type Commit func(Fired) error

// Fire matches buffer like Match and fires the node in the same critical
// section, so the usage bump and commit land on the tree that matched.
// ok is false when nothing triggers. commit may be nil.
func (e *Engine) Fire(buffer, windowTitle string, commit Commit) (f Fired, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.find(func(n phrase.Node) bool {
		return n.CheckInput(buffer, windowTitle, e.predictiveLength)
	})
	if !ok {
		return Fired{}, false, nil
	}
	f, err = e.fire(m, buffer, commit)
	return f, true, err
}

// FireHotkey is Fire for a key chord. buffer is the text typed before the
// chord and only matters to expansions that erase it.
func (e *Engine) FireHotkey(modifiers []string, key, windowTitle, buffer string, commit Commit) (f Fired, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.find(func(n phrase.Node) bool {
		return n.CheckHotkey(modifiers, key, windowTitle)
	})
	if !ok {
		return Fired{}, false, nil
	}
	f, err = e.fire(m, buffer, commit)
	return f, true, err
}

// FirePath fires the node at path, as when it is picked from a menu.
func (e *Engine) FirePath(path, buffer string, commit Commit) (Fired, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := Resolve(e.root.Load(), path)
	if err != nil {
		return Fired{}, err
	}
	return e.fire(Match{Node: n, Path: Path(n)}, buffer, commit)
}

func (e *Engine) fire(m Match, buffer string, commit Commit) (Fired, error) {
	f := Fired{Match: m}
	if p, isPhrase := m.Node.(*phrase.Phrase); isPhrase {
		exp := e.expand(p, buffer)
		f.Expansion = &exp
		f.Backspaces = exp.Backspaces
	} else {
		f.Backspaces = m.Node.BackspaceCount(buffer)
	}
	if commit == nil {
		return f, nil
	}
	return f, commit(f)
}

// Resolve looks a node up by its slash path in the published tree.
func (e *Engine) Resolve(path string) (phrase.Node, error) {
	return Resolve(e.root.Load(), path)
}

// Resolve walks path from root. "/" and "" name the root itself.
func Resolve(root *phrase.Folder, path string) (phrase.Node, error) {
	var cur phrase.Node = root
	for _, key := range splitPath(path) {
		folder, ok := cur.(*phrase.Folder)
		if !ok {
			return nil, errors.NewNotFound(path)
		}
		child, err := folder.Child(key)
		if err != nil {
			return nil, errors.NewNotFound(path)
		}
		cur = child
	}
	return cur, nil
}

// Path returns the slash path of n from the root of its tree.
func Path(n phrase.Node) string {
	var keys []string
	for cur := n; cur.Parent() != nil; cur = cur.Parent() {
		keys = append(keys, cur.Name())
	}
	if len(keys) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(keys) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(keys[i])
	}
	return b.String()
}

// SeedUsage replays stored usage counts onto an unpublished tree. Each
// count goes through IncrementUsage so ancestors accumulate. Paths that no
// longer resolve are skipped; the number of applied paths is returned.
func SeedUsage(root *phrase.Folder, usage map[string]int) int {
	applied := 0
	for path, count := range usage {
		n, err := Resolve(root, path)
		if err != nil || n == phrase.Node(root) {
			continue
		}
		for range count {
			n.IncrementUsage()
		}
		applied++
	}
	return applied
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	keys := parts[:0]
	for _, p := range parts {
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}
