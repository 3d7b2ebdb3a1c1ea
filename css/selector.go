package css

import (
	"errors"
	"strings"

	"github.com/GhostPeony/browsy/dom"
)

// AttrOp is the operator of an attribute selector.
type AttrOp int

const (
	AttrExists    AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrIncludes                // [a~=v]
	AttrDashMatch               // [a|=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

// AttrMatcher is one attribute condition of a compound selector.
type AttrMatcher struct {
	Name  string
	Op    AttrOp
	Value string
}

// Match evaluates the attribute condition against a node.
func (m AttrMatcher) Match(n *dom.Node) bool {
	v, ok := n.Attr(m.Name)
	if !ok {
		return false
	}
	switch m.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return v == m.Value
	case AttrIncludes:
		for _, f := range strings.Fields(v) {
			if f == m.Value {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return v == m.Value || strings.HasPrefix(v, m.Value+"-")
	case AttrPrefix:
		return m.Value != "" && strings.HasPrefix(v, m.Value)
	case AttrSuffix:
		return m.Value != "" && strings.HasSuffix(v, m.Value)
	case AttrSubstring:
		return m.Value != "" && strings.Contains(v, m.Value)
	}
	return false
}

// Compound is a compound selector: everything between two combinators.
// Pseudo-classes are parsed for specificity but never constrain matching.
type Compound struct {
	Tag       string // lowercase tag, "" when absent
	Universal bool   // *
	ID        string
	Classes   []string
	Attrs     []AttrMatcher
	Pseudos   int // count of pseudo-classes, specificity only
}

func (c Compound) empty() bool {
	return c.Tag == "" && !c.Universal && c.ID == "" && len(c.Classes) == 0 &&
		len(c.Attrs) == 0 && c.Pseudos == 0
}

// MatchNode evaluates the compound selector against one element.
func (c Compound) MatchNode(n *dom.Node) bool {
	if n.Type != dom.ElementNode {
		return false
	}
	if c.Tag != "" && n.Tag != c.Tag {
		return false
	}
	if c.ID != "" && n.ID() != c.ID {
		return false
	}
	for _, cls := range c.Classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for _, am := range c.Attrs {
		if !am.Match(n) {
			return false
		}
	}
	return true
}

// Combinator joins two compounds of a complex selector.
type Combinator int

const (
	Descendant Combinator = iota // whitespace
	Child                        // >
)

// Selector is a complex selector: compounds joined by combinators. The
// last compound is the subject. Combinators[i] sits between
// Compounds[i] and Compounds[i+1].
type Selector struct {
	Raw         string
	Compounds   []Compound
	Combinators []Combinator
}

// Specificity returns the selector weight: id=100, class/attr/pseudo=10,
// tag/universal=1.
func (s Selector) Specificity() int {
	w := 0
	for _, c := range s.Compounds {
		if c.ID != "" {
			w += 100
		}
		w += 10 * (len(c.Classes) + len(c.Attrs) + c.Pseudos)
		if c.Tag != "" || c.Universal {
			w++
		}
	}
	return w
}

// Matches reports whether the selector's subject matches n, walking
// combinators toward the root.
func (s Selector) Matches(n *dom.Node) bool {
	if len(s.Compounds) == 0 {
		return false
	}
	return matchFrom(s.Compounds, s.Combinators, len(s.Compounds)-1, n)
}

func matchFrom(parts []Compound, combs []Combinator, idx int, n *dom.Node) bool {
	if !parts[idx].MatchNode(n) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch combs[idx-1] {
	case Child:
		p := n.Parent
		if p == nil || p.Type != dom.ElementNode {
			return false
		}
		return matchFrom(parts, combs, idx-1, p)
	default: // Descendant
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Type == dom.ElementNode && matchFrom(parts, combs, idx-1, p) {
				return true
			}
		}
		return false
	}
}

var errUnsupportedSelector = errors.New("unsupported selector")

// ParseSelector parses a single complex selector. Sibling combinators
// (+, ~) and functional pseudo-classes with selector arguments are not
// supported and return an error.
func ParseSelector(s string) (Selector, error) {
	sel := Selector{Raw: strings.TrimSpace(s)}
	if sel.Raw == "" {
		return sel, errUnsupportedSelector
	}

	sp := selParser{src: sel.Raw}
	for {
		sp.skipSpace()
		if sp.done() {
			break
		}
		// Sibling combinators are out of scope.
		if sp.peek() == '+' || sp.peek() == '~' {
			return sel, errUnsupportedSelector
		}
		if len(sel.Compounds) > 0 {
			comb := Descendant
			if sp.peek() == '>' {
				sp.next()
				sp.skipSpace()
				comb = Child
			}
			sel.Combinators = append(sel.Combinators, comb)
		}
		c, err := sp.compound()
		if err != nil {
			return sel, err
		}
		if c.empty() {
			return sel, errUnsupportedSelector
		}
		sel.Compounds = append(sel.Compounds, c)
	}
	if len(sel.Compounds) == 0 {
		return sel, errUnsupportedSelector
	}
	return sel, nil
}

// selParser is a tiny scanner over a single selector string.
type selParser struct {
	src string
	pos int
}

func (p *selParser) done() bool  { return p.pos >= len(p.src) }
func (p *selParser) peek() byte  { return p.src[p.pos] }
func (p *selParser) next() byte  { b := p.src[p.pos]; p.pos++; return b }
func (p *selParser) skipSpace() {
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.pos++
	}
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' ||
		b == '-' || b == '_' || b >= 0x80
}

func (p *selParser) name() string {
	start := p.pos
	for !p.done() && isNameByte(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *selParser) compound() (Compound, error) {
	var c Compound
	for !p.done() {
		switch b := p.peek(); {
		case b == '*':
			p.next()
			c.Universal = true
		case b == '#':
			p.next()
			id := p.name()
			if id == "" {
				return c, errUnsupportedSelector
			}
			c.ID = id
		case b == '.':
			p.next()
			cls := p.name()
			if cls == "" {
				return c, errUnsupportedSelector
			}
			c.Classes = append(c.Classes, cls)
		case b == '[':
			am, err := p.attrMatcher()
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, am)
		case b == ':':
			p.next()
			if !p.done() && p.peek() == ':' {
				// Pseudo-element: layout-irrelevant, treated like a pseudo-class.
				p.next()
			}
			if p.name() == "" {
				return c, errUnsupportedSelector
			}
			// Functional pseudo-classes with arguments are unsupported.
			if !p.done() && p.peek() == '(' {
				return c, errUnsupportedSelector
			}
			c.Pseudos++
		case isNameByte(b):
			c.Tag = strings.ToLower(p.name())
		default:
			return c, nil // combinator or whitespace ends the compound
		}
	}
	return c, nil
}

func (p *selParser) attrMatcher() (AttrMatcher, error) {
	var am AttrMatcher
	p.next() // consume [
	p.skipSpace()
	am.Name = strings.ToLower(p.name())
	if am.Name == "" {
		return am, errUnsupportedSelector
	}
	p.skipSpace()
	if p.done() {
		return am, errUnsupportedSelector
	}
	switch p.peek() {
	case ']':
		p.next()
		am.Op = AttrExists
		return am, nil
	case '=':
		p.next()
		am.Op = AttrEquals
	case '~', '|', '^', '$', '*':
		switch p.next() {
		case '~':
			am.Op = AttrIncludes
		case '|':
			am.Op = AttrDashMatch
		case '^':
			am.Op = AttrPrefix
		case '$':
			am.Op = AttrSuffix
		case '*':
			am.Op = AttrSubstring
		}
		if p.done() || p.next() != '=' {
			return am, errUnsupportedSelector
		}
	default:
		return am, errUnsupportedSelector
	}
	p.skipSpace()
	am.Value = p.attrValue()
	p.skipSpace()
	if p.done() || p.next() != ']' {
		return am, errUnsupportedSelector
	}
	return am, nil
}

func (p *selParser) attrValue() string {
	if p.done() {
		return ""
	}
	if q := p.peek(); q == '"' || q == '\'' {
		p.next()
		start := p.pos
		for !p.done() && p.peek() != q {
			p.pos++
		}
		v := p.src[start:p.pos]
		if !p.done() {
			p.next() // closing quote
		}
		return v
	}
	start := p.pos
	for !p.done() && p.peek() != ']' && p.peek() != ' ' {
		p.pos++
	}
	return p.src[start:p.pos]
}
