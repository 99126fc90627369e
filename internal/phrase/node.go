// Package phrase implements trigger detection and expansion construction
// for a tree of folders and phrases.
//
// Folders and phrases share three capabilities held by composition: an
// Abbreviation, a WindowFilter and a Hotkey. Usage counts propagate from a
// node up through every ancestor, and backspace counts are delegated up the
// same chain when a node did not itself match the buffer.
//
// Nothing in this package is safe for concurrent mutation; callers either
// serialize access or publish complete trees (see internal/engine).
package phrase

// Kind distinguishes folders from phrases.
type Kind string

const (
	KindFolder Kind = "folder"
	KindPhrase Kind = "phrase"
)

// Node is the behaviour shared by folders and phrases.
type Node interface {
	// Name is the key of the node inside its parent: a folder's title or a
	// phrase's description.
	Name() string
	Kind() Kind

	// CheckInput reports whether the node triggers for buffer typed in a
	// window titled windowTitle.
	CheckInput(buffer, windowTitle string, predictiveLength int) bool

	// CheckHotkey reports whether modifiers+key trigger the node in a window
	// titled windowTitle.
	CheckHotkey(modifiers []string, key, windowTitle string) bool

	// BackspaceCount is the number of characters to erase before inserting
	// text for this node, delegating to the parent when the node itself did
	// not match buffer.
	BackspaceCount(buffer string) int

	IncrementUsage()
	UsageCount() int
	Parent() *Folder
	DisplayTuple() DisplayTuple
}

// DisplayTuple is what a tree view shows for a node.
type DisplayTuple struct {
	Kind         Kind   `json:"kind"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// node carries the state common to folders and phrases.
type node struct {
	Abbreviation   Abbreviation
	Hotkey         Hotkey
	Modes          Modes
	ShowInTrayMenu bool

	window WindowFilter
	usage  int
	parent *Folder // non-owning; nil at the root
}

func newNode() node {
	return node{Abbreviation: NewAbbreviation("")}
}

// WindowFilter returns the node's window filter.
func (n *node) WindowFilter() WindowFilter {
	return n.window
}

// SetWindowFilter compiles pattern as the node's window filter. An empty
// pattern restores the default filter.
func (n *node) SetWindowFilter(pattern string) error {
	w, err := NewWindowFilter(pattern)
	if err != nil {
		return err
	}
	n.window = w
	return nil
}

// UsageCount returns how often the node or one of its descendants was used.
func (n *node) UsageCount() int {
	return n.usage
}

// Parent returns the owning folder, or nil at the root.
func (n *node) Parent() *Folder {
	return n.parent
}

// IncrementUsage bumps the node's counter and every ancestor's, ending at
// the root.
func (n *node) IncrementUsage() {
	n.usage++
	if n.parent != nil {
		n.parent.IncrementUsage()
	}
}

func (n *node) CheckHotkey(modifiers []string, key, windowTitle string) bool {
	if !n.Hotkey.IsSet() {
		return false
	}
	return n.window.Matches(windowTitle) && n.Hotkey.Matches(modifiers, key)
}

func (n *node) BackspaceCount(buffer string) int {
	if n.Modes.Has(ModeAbbreviation) && n.Abbreviation.Backspace {
		if _, after, ok := n.Abbreviation.match(buffer); ok {
			return n.Abbreviation.eraseCount(after)
		}
	}
	// Manual selection: the node never matched, but text typed to reach
	// an enclosing folder still has to go.
	if n.parent != nil {
		return n.parent.BackspaceCount(buffer)
	}
	return 0
}

// abbreviationFires reports whether the abbreviation mode is active and the
// abbreviation triggers for buffer.
func (n *node) abbreviationFires(buffer string) bool {
	return n.Modes.Has(ModeAbbreviation) && n.Abbreviation.ShouldTrigger(buffer)
}
