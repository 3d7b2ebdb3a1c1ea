package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parse reads an HTML document and returns the document root node.
// The reader is wrapped with charset detection so documents declaring a
// non-UTF-8 encoding come out as UTF-8. contentType may carry a charset
// hint from the transport (e.g. "text/html; charset=windows-1251") and
// may be empty. Malformed HTML never produces an error; the underlying
// parser recovers per the HTML5 algorithm.
func Parse(r io.Reader, contentType string) (*Node, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(cr)
	if err != nil {
		return nil, err
	}
	return convert(root, nil), nil
}

// ParseString parses an in-memory UTF-8 HTML document.
func ParseString(s string) (*Node, error) {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	return convert(root, nil), nil
}

func convert(h *html.Node, parent *Node) *Node {
	n := &Node{Parent: parent}
	switch h.Type {
	case html.DocumentNode:
		n.Type = DocumentNode
	case html.ElementNode:
		n.Type = ElementNode
		n.Tag = strings.ToLower(h.Data)
		n.Attrs = convertAttrs(h.Attr)
	case html.TextNode:
		n.Type = TextNode
		n.Data = h.Data
	case html.CommentNode:
		n.Type = CommentNode
		n.Data = h.Data
	default:
		// Doctype and raw nodes carry nothing later stages use; keep the
		// children (if any) under a comment-typed placeholder.
		n.Type = CommentNode
		n.Data = h.Data
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		n.Children = append(n.Children, convert(c, n))
	}
	return n
}

func convertAttrs(attrs []html.Attribute) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		name := strings.ToLower(a.Key)
		if _, dup := seen[name]; dup {
			continue // first occurrence wins
		}
		seen[name] = struct{}{}
		out = append(out, Attr{Name: name, Value: a.Val})
	}
	return out
}

// Body returns the body element of a parsed document, or nil.
func (n *Node) Body() *Node {
	return n.Find(func(c *Node) bool { return c.IsElement("body") })
}

// Title returns the text of the document's title element, or "".
func (n *Node) Title() string {
	t := n.Find(func(c *Node) bool { return c.IsElement("title") })
	if t == nil {
		return ""
	}
	return t.Text()
}
