package css

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/dom"
)

// ruleEntry is one (selector, declarations) pair flattened out of the
// applicable stylesheets, tagged with its global source order.
type ruleEntry struct {
	sel   Selector
	decls []Declaration
	order int
}

// Engine computes styled trees from DOM trees and stylesheets.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates a style engine.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.Named("css-engine")}
}

// ComputeStyles resolves the cascade for every element under root and
// returns the styled tree. Stylesheets are considered in slice order;
// within equal specificity later rules win; the inline style attribute
// outranks all stylesheet rules. Malformed values drop their
// declaration, never the element.
func (e *Engine) ComputeStyles(root *dom.Node, vp Viewport, sheets []*Stylesheet) *StyledNode {
	var entries []ruleEntry
	order := 0
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules(vp) {
			for _, sel := range rule.Selectors {
				entries = append(entries, ruleEntry{sel: sel, decls: rule.Declarations, order: order})
				order++
			}
		}
	}
	e.log.Debug("cascade prepared", zap.Int("selectors", len(entries)))

	htmlEl := root.Find(func(n *dom.Node) bool { return n.IsElement("html") })
	if htmlEl == nil {
		htmlEl = root
	}

	// The root font size feeds rem resolution everywhere; resolve the
	// html element's own font-size first against the default.
	rootEnv := NewVarEnv(nil)
	rootDecls := matchedDeclarations(entries, htmlEl)
	collectCustomProps(rootDecls, rootEnv)
	rootFontSize := resolveFontSize(rootDecls, rootEnv, DefaultFontSize, DefaultFontSize)

	parent := Style{FontSize: rootFontSize}
	return e.styleNode(htmlEl, entries, rootEnv, parent, rootFontSize)
}

// styleNode computes one node's style and recurses into its children.
func (e *Engine) styleNode(n *dom.Node, entries []ruleEntry, parentEnv *VarEnv, parent Style, rootFontSize float64) *StyledNode {
	sn := &StyledNode{Node: n}

	env := parentEnv
	if n.Type == dom.ElementNode {
		decls := matchedDeclarations(entries, n)
		if hasCustomProps(decls) {
			env = NewVarEnv(parentEnv)
			collectCustomProps(decls, env)
		}
		sn.Style = applyDeclarations(n.Tag, decls, env, parent, rootFontSize)
		// The HTML hidden attribute maps to display:none in the UA sheet.
		if n.HasAttr("hidden") {
			sn.Style.Display = DisplayNone
		}
	} else {
		// Text nodes inherit the parent style wholesale.
		sn.Style = parent
		sn.Style.Display = DisplayInline
	}

	for _, c := range n.Children {
		switch c.Type {
		case dom.ElementNode:
			sn.Children = append(sn.Children, e.styleNode(c, entries, env, sn.Style, rootFontSize))
		case dom.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			sn.Children = append(sn.Children, e.styleNode(c, entries, env, sn.Style, rootFontSize))
		}
	}
	return sn
}

// matchedDeclarations returns the element's declarations in cascade
// order: stylesheet rules sorted by (specificity, source order) with
// later winning on ties, then the inline style attribute last.
func matchedDeclarations(entries []ruleEntry, n *dom.Node) []Declaration {
	type match struct {
		spec  int
		order int
		decls []Declaration
	}
	var matches []match
	for _, en := range entries {
		if en.sel.Matches(n) {
			matches = append(matches, match{spec: en.sel.Specificity(), order: en.order, decls: en.decls})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].spec != matches[j].spec {
			return matches[i].spec < matches[j].spec
		}
		return matches[i].order < matches[j].order
	})

	var decls []Declaration
	for _, m := range matches {
		decls = append(decls, m.decls...)
	}
	if style, ok := n.Attr("style"); ok {
		decls = append(decls, ParseInlineStyle(style)...)
	}
	return decls
}

func hasCustomProps(decls []Declaration) bool {
	for _, d := range decls {
		if strings.HasPrefix(d.Property, "--") {
			return true
		}
	}
	return false
}

func collectCustomProps(decls []Declaration, env *VarEnv) {
	for _, d := range decls {
		if strings.HasPrefix(d.Property, "--") {
			env.Set(d.Property, d.Value)
		}
	}
}

// resolveFontSize finds the winning font-size declaration and computes
// it; em values resolve against the parent font size.
func resolveFontSize(decls []Declaration, env *VarEnv, parentFontSize, rootFontSize float64) float64 {
	size := parentFontSize
	for _, d := range decls {
		if d.Property != "font-size" {
			continue
		}
		v := strings.ToLower(env.Substitute(d.Value))
		switch strings.TrimSpace(v) {
		case "smaller":
			size = parentFontSize / 1.2
			continue
		case "larger":
			size = parentFontSize * 1.2
			continue
		case "xx-small":
			size = rootFontSize * 3 / 5
			continue
		case "x-small":
			size = rootFontSize * 3 / 4
			continue
		case "small":
			size = rootFontSize * 8 / 9
			continue
		case "medium":
			size = rootFontSize
			continue
		case "large":
			size = rootFontSize * 6 / 5
			continue
		case "x-large":
			size = rootFontSize * 3 / 2
			continue
		case "xx-large":
			size = rootFontSize * 2
			continue
		}
		if dim, ok := parseDimension(v, parentFontSize, rootFontSize); ok && !dim.IsAuto() {
			size = dim.Resolve(parentFontSize, size)
		}
	}
	return size
}

// applyDeclarations folds the cascade-ordered declarations into a Style.
func applyDeclarations(tag string, decls []Declaration, env *VarEnv, parent Style, rootFontSize float64) Style {
	s := defaultStyle(tag, parent.FontSize)

	// Inherited properties.
	s.Visibility = parent.Visibility
	if parent.LineHeight > 0 {
		s.LineHeight = parent.LineHeight
	}

	// Font size first: every em in the remaining properties resolves
	// against the element's own computed size.
	s.FontSize = resolveFontSize(decls, env, applyFontScale(tag, parent.FontSize), rootFontSize)

	for _, d := range decls {
		if strings.HasPrefix(d.Property, "--") {
			continue
		}
		value := strings.TrimSpace(env.Substitute(d.Value))
		if value == "" {
			continue
		}
		for _, ld := range expandShorthand(Declaration{Property: d.Property, Value: value, Important: d.Important}) {
			applyProperty(&s, ld.Property, ld.Value, rootFontSize)
		}
	}
	return s
}

// applyFontScale returns the user-agent font size for the tag given the
// inherited size (headings scale, everything else inherits).
func applyFontScale(tag string, parentFontSize float64) float64 {
	return defaultStyle(tag, parentFontSize).FontSize
}

// applyProperty sets a single longhand property. Unknown properties and
// malformed values are discarded silently.
func applyProperty(s *Style, prop, value string, rootFontSize float64) {
	fs := s.FontSize
	lower := strings.ToLower(value)

	dim := func() (Dimension, bool) { return parseDimension(value, fs, rootFontSize) }

	switch prop {
	case "display":
		switch lower {
		case "none":
			s.Display = DisplayNone
		case "block":
			s.Display = DisplayBlock
		case "inline":
			s.Display = DisplayInline
		case "inline-block":
			s.Display = DisplayInlineBlock
		case "flex":
			s.Display = DisplayFlex
		case "inline-flex":
			s.Display = DisplayInlineFlex
		case "grid", "inline-grid":
			s.Display = DisplayGrid
		case "list-item", "table", "table-row", "table-cell", "flow-root":
			s.Display = DisplayBlock
		}
	case "position":
		switch lower {
		case "static":
			s.Position = PositionStatic
		case "relative":
			s.Position = PositionRelative
		case "absolute":
			s.Position = PositionAbsolute
		case "fixed":
			s.Position = PositionFixed
		case "sticky":
			s.Position = PositionSticky
		}
	case "visibility":
		switch lower {
		case "visible":
			s.Visibility = VisibilityVisible
		case "hidden":
			s.Visibility = VisibilityHidden
		case "collapse":
			s.Visibility = VisibilityCollapse
		}
	case "box-sizing":
		switch lower {
		case "content-box":
			s.BoxSizing = ContentBox
		case "border-box":
			s.BoxSizing = BorderBox
		}
	case "overflow", "overflow-x", "overflow-y":
		switch lower {
		case "visible":
			s.Overflow = OverflowVisible
		case "hidden", "clip":
			s.Overflow = OverflowHidden
		case "scroll":
			s.Overflow = OverflowScroll
		case "auto":
			s.Overflow = OverflowAuto
		}

	case "width":
		if d, ok := dim(); ok {
			s.Width = d
		}
	case "height":
		if d, ok := dim(); ok {
			s.Height = d
		}
	case "min-width":
		if d, ok := dim(); ok {
			s.MinWidth = d
		}
	case "min-height":
		if d, ok := dim(); ok {
			s.MinHeight = d
		}
	case "max-width":
		if d, ok := dim(); ok {
			s.MaxWidth = d
		}
	case "max-height":
		if d, ok := dim(); ok {
			s.MaxHeight = d
		}

	case "margin-top":
		if d, ok := dim(); ok {
			s.MarginTop = d
		}
	case "margin-right":
		if d, ok := dim(); ok {
			s.MarginRight = d
		}
	case "margin-bottom":
		if d, ok := dim(); ok {
			s.MarginBottom = d
		}
	case "margin-left":
		if d, ok := dim(); ok {
			s.MarginLeft = d
		}
	case "padding-top":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.PaddingTop = d
		}
	case "padding-right":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.PaddingRight = d
		}
	case "padding-bottom":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.PaddingBottom = d
		}
	case "padding-left":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.PaddingLeft = d
		}
	case "border-top-width":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.BorderTop = d
		}
	case "border-right-width":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.BorderRight = d
		}
	case "border-bottom-width":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.BorderBottom = d
		}
	case "border-left-width":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.BorderLeft = d
		}

	case "top":
		if d, ok := dim(); ok {
			s.Top = d
		}
	case "right":
		if d, ok := dim(); ok {
			s.Right = d
		}
	case "bottom":
		if d, ok := dim(); ok {
			s.Bottom = d
		}
	case "left":
		if d, ok := dim(); ok {
			s.Left = d
		}

	case "flex-direction":
		switch lower {
		case "row":
			s.FlexDirection = FlexRow
		case "row-reverse":
			s.FlexDirection = FlexRowReverse
		case "column":
			s.FlexDirection = FlexColumn
		case "column-reverse":
			s.FlexDirection = FlexColumnReverse
		}
	case "flex-wrap":
		switch lower {
		case "nowrap":
			s.FlexWrap = NoWrap
		case "wrap":
			s.FlexWrap = Wrap
		case "wrap-reverse":
			s.FlexWrap = WrapReverse
		}
	case "flex-grow":
		if n, ok := parseNumber(value); ok && n >= 0 {
			s.FlexGrow = n
		}
	case "flex-shrink":
		if n, ok := parseNumber(value); ok && n >= 0 {
			s.FlexShrink = n
		}
	case "flex-basis":
		if d, ok := dim(); ok {
			s.FlexBasis = d
		}
	case "align-items":
		if a, ok := parseAlign(lower); ok {
			s.AlignItems = a
		}
	case "align-self":
		if a, ok := parseAlign(lower); ok {
			s.AlignSelf = a
		}
	case "justify-content":
		if a, ok := parseAlign(lower); ok {
			s.JustifyContent = a
		}
	case "row-gap":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.RowGap = d
		}
	case "column-gap":
		if d, ok := dim(); ok && !d.IsAuto() {
			s.ColumnGap = d
		}

	case "grid-template-columns":
		if tracks := parseGridTracks(value, fs, rootFontSize); len(tracks) > 0 {
			s.GridTemplateColumns = tracks
		}
	case "grid-template-rows":
		if tracks := parseGridTracks(value, fs, rootFontSize); len(tracks) > 0 {
			s.GridTemplateRows = tracks
		}
	case "grid-column":
		s.GridColumn = parseGridPlacement(value)
	case "grid-row":
		s.GridRow = parseGridPlacement(value)

	case "font-size":
		// Already resolved up front.
	case "line-height":
		if lower == "normal" {
			s.LineHeight = 0
			return
		}
		if n, ok := parseNumber(value); ok {
			s.LineHeight = n * fs
			return
		}
		if d, ok := parseDimension(value, fs, rootFontSize); ok && !d.IsAuto() {
			s.LineHeight = d.Resolve(fs, 0)
		}
	}
}

func parseAlign(v string) (Align, bool) {
	switch v {
	case "stretch":
		return AlignStretch, true
	case "flex-start", "start", "self-start":
		return AlignStart, true
	case "flex-end", "end", "self-end":
		return AlignEnd, true
	case "center":
		return AlignCenter, true
	case "baseline":
		return AlignBaseline, true
	case "space-between":
		return AlignSpaceBetween, true
	case "space-around":
		return AlignSpaceAround, true
	case "space-evenly":
		return AlignSpaceEvenly, true
	default:
		return AlignAuto, false
	}
}
