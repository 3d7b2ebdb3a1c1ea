package dom

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NodeType discriminates the kinds of nodes the adaptor keeps.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
)

// Attr is a single attribute. Names are lowercase.
type Attr struct {
	Name  string
	Value string
}

// Node is the internal DOM node. Element tag and attribute names are
// normalized to lowercase. Text nodes preserve whitespace in Data.
// Comments are retained but ignored by later pipeline stages.
type Node struct {
	Type     NodeType
	Tag      string // element nodes only
	Data     string // text and comment nodes only
	Attrs    []Attr // document order, duplicates removed (first wins)
	Parent   *Node
	Children []*Node
}

// Attr returns the value of the named attribute (case-insensitive) and
// whether it was present. The first occurrence wins for duplicates.
func (n *Node) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether the attribute is present, regardless of value.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// ID returns the value of the id attribute, or "".
func (n *Node) ID() string { return n.AttrOr("id", "") }

// Classes returns the class attribute split on whitespace.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports whether cls is one of the element's classes.
func (n *Node) HasClass(cls string) bool {
	for _, c := range n.Classes() {
		if c == cls {
			return true
		}
	}
	return false
}

// IsElement reports whether the node is an element with the given tag.
func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.Tag == tag
}

// Walk visits n and its descendants depth-first, left to right. When fn
// returns false the node's subtree is not descended into.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (depth-first) for which fn returns true.
func (n *Node) Find(fn func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c != n && fn(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FirstChildElement returns the first element child with the given tag,
// or nil.
func (n *Node) FirstChildElement(tag string) *Node {
	for _, c := range n.Children {
		if c.IsElement(tag) {
			return c
		}
	}
	return nil
}

// ElementChildren returns the element children of n.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the collected descendant text of n with runs of whitespace
// collapsed to single spaces and the result NFC-normalized. Script and
// style subtrees do not contribute.
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return CollapseSpace(sb.String())
}

// RawText returns the concatenated direct text children of n with
// whitespace preserved. Style and script bodies need this form.
func (n *Node) RawText() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// OwnText returns only the direct text-node children of n, collapsed.
func (n *Node) OwnText() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
	}
	return CollapseSpace(sb.String())
}

func (n *Node) collectText(sb *strings.Builder) {
	switch n.Type {
	case TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	case ElementNode:
		switch n.Tag {
		case "script", "style", "noscript", "template":
			return
		}
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

// CollapseSpace collapses whitespace runs to single spaces, trims the
// result and applies NFC normalization.
func CollapseSpace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(collapsed)
}

// Ancestor returns the nearest ancestor for which fn returns true, or nil.
func (n *Node) Ancestor(fn func(*Node) bool) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if fn(p) {
			return p
		}
	}
	return nil
}
