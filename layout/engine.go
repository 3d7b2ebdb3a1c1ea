package layout

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
)

// charWidthFactor approximates average glyph advance as a fraction of
// the font size. Good enough for spatial placement without font metrics.
const charWidthFactor = 0.5

// Engine lays out styled trees against a viewport.
type Engine struct {
	log *zap.Logger
	vpW float64
	vpH float64
}

// New creates a layout engine.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.Named("layout")}
}

// Layout computes bounding boxes for the whole tree. The returned root
// box spans the document; its height may exceed the viewport.
func (e *Engine) Layout(root *css.StyledNode, vp css.Viewport) *Box {
	e.vpW, e.vpH = float64(vp.Width), float64(vp.Height)
	box := e.layoutNode(root, 0, 0, e.vpW, e.vpH)
	e.log.Debug("layout complete", zap.Float64("docHeight", box.H))
	return box
}

// layoutNode places the node's margin box at (flowX, flowY) inside a
// containing block availW wide and availH tall, returning the computed
// border box.
func (e *Engine) layoutNode(sn *css.StyledNode, flowX, flowY, availW, availH float64) *Box {
	if sn.IsText() {
		return e.layoutText(sn, flowX, flowY, availW)
	}
	s := &sn.Style
	switch s.Display {
	case css.DisplayNone:
		return e.zeroBox(sn, flowX, flowY)
	case css.DisplayFlex, css.DisplayInlineFlex:
		return e.layoutFlex(sn, flowX, flowY, availW, availH)
	case css.DisplayGrid:
		return e.layoutGrid(sn, flowX, flowY, availW, availH)
	default:
		return e.layoutBlock(sn, flowX, flowY, availW, availH)
	}
}

// zeroBox emits a zero-size box for display:none subtrees so hidden
// elements stay addressable downstream.
func (e *Engine) zeroBox(sn *css.StyledNode, x, y float64) *Box {
	box := &Box{Styled: sn, X: x, Y: y}
	for _, c := range sn.Children {
		box.Children = append(box.Children, e.zeroBox(c, x, y))
	}
	return box
}

func (e *Engine) layoutText(sn *css.StyledNode, x, y, availW float64) *Box {
	text := dom.CollapseSpace(sn.Node.Data)
	fs := sn.Style.FontSize
	w := float64(len([]rune(text))) * fs * charWidthFactor
	lineH := sn.Style.LineHeightOr()
	lines := 1.0
	if availW > 0 && w > availW {
		lines = float64(int(w/availW) + 1)
		w = availW
	}
	return &Box{Styled: sn, X: x, Y: y, W: w, H: lines * lineH}
}

// borderBoxWidth resolves the node's border-box width inside availW,
// honoring box-sizing. The bool reports whether the width was specified.
func borderBoxWidth(s *css.Style, ed edges, availW float64) (float64, bool) {
	if s.Width.IsAuto() {
		return clampSize(availW-ed.marginLeft-ed.marginRight, s.MinWidth, s.MaxWidth, availW), false
	}
	w := s.Width.Resolve(availW, availW)
	if s.BoxSizing == css.ContentBox {
		w += ed.horizontalBP()
	}
	return clampSize(w, s.MinWidth, s.MaxWidth, availW), true
}

func borderBoxHeight(s *css.Style, ed edges, contentH, availH float64) float64 {
	h := contentH + ed.verticalBP()
	if !s.Height.IsAuto() {
		h = s.Height.Resolve(availH, h)
		if s.BoxSizing == css.ContentBox {
			h += ed.verticalBP()
		}
	}
	return clampSize(h, s.MinHeight, s.MaxHeight, availH)
}

// isInlineLevel reports whether the styled child participates in an
// inline run rather than breaking the flow.
func isInlineLevel(sn *css.StyledNode) bool {
	if sn.IsText() {
		return true
	}
	switch sn.Style.Display {
	case css.DisplayInline, css.DisplayInlineBlock, css.DisplayInlineFlex:
		return true
	}
	return false
}

func isOutOfFlow(sn *css.StyledNode) bool {
	switch sn.Style.Position {
	case css.PositionAbsolute, css.PositionFixed:
		return true
	}
	return false
}

// shift translates a box subtree.
func shift(b *Box, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.Walk(func(c *Box) bool {
		c.X += dx
		c.Y += dy
		return true
	})
}

func (e *Engine) layoutBlock(sn *css.StyledNode, flowX, flowY, availW, availH float64) *Box {
	s := &sn.Style
	ed := resolveEdges(s, availW)

	borderW, specified := borderBoxWidth(s, ed, availW)
	if !specified && isInlineLevel(sn) {
		// Shrink-to-fit for inline-blocks and inline boxes.
		if iw := e.intrinsicWidth(sn) + ed.horizontalBP(); iw < borderW {
			borderW = clampSize(iw, s.MinWidth, s.MaxWidth, availW)
		}
	}
	contentW := borderW - ed.horizontalBP()
	if contentW < 0 {
		contentW = 0
	}

	x := flowX + ed.marginLeft
	y := flowY + ed.marginTop
	box := &Box{Styled: sn, X: x, Y: y, W: borderW}

	contentX := x + ed.borderLeft + ed.paddingLeft
	contentY := y + ed.borderTop + ed.paddingTop

	contentH := e.flowChildren(sn, box, contentX, contentY, contentW, availH)
	if contentH == 0 {
		contentH = e.intrinsicHeight(sn)
	}
	box.H = borderBoxHeight(s, ed, contentH, availH)

	e.placeOutOfFlow(sn, box, availW, availH)
	applyRelativeOffset(box, availW, availH)
	return box
}

// flowChildren runs normal block/inline flow inside the content box and
// returns the flowed content height.
func (e *Engine) flowChildren(sn *css.StyledNode, parent *Box, contentX, contentY, contentW, availH float64) float64 {
	if sn.Node.IsElement("select") {
		// Options of a closed dropdown take no space on the page.
		for _, child := range sn.Children {
			parent.Children = append(parent.Children, e.zeroBox(child, contentX, contentY))
		}
		return 0
	}
	cursorY := contentY
	lineX := 0.0
	lineH := 0.0

	flushLine := func() {
		if lineX > 0 || lineH > 0 {
			cursorY += lineH
			lineX = 0
			lineH = 0
		}
	}

	for _, child := range sn.Children {
		if isOutOfFlow(child) {
			continue // positioned later
		}
		if child.Style.Display == css.DisplayNone && !child.IsText() {
			parent.Children = append(parent.Children, e.zeroBox(child, contentX, cursorY))
			continue
		}
		if isInlineLevel(child) {
			item := e.layoutNode(child, 0, 0, contentW, availH)
			ced := resolveEdges(&child.Style, contentW)
			itemW := item.W + ced.marginLeft + ced.marginRight
			if lineX > 0 && lineX+itemW > contentW {
				flushLine()
			}
			shift(item, contentX+lineX, cursorY)
			lineX += itemW
			if h := item.H + ced.marginTop + ced.marginBottom; h > lineH {
				lineH = h
			}
			parent.Children = append(parent.Children, item)
			continue
		}
		flushLine()
		childBox := e.layoutNode(child, contentX, cursorY, contentW, availH)
		ced := resolveEdges(&child.Style, contentW)
		cursorY += ced.marginTop + childBox.H + ced.marginBottom
		parent.Children = append(parent.Children, childBox)
	}
	flushLine()
	return cursorY - contentY
}

// placeOutOfFlow lays out absolute/fixed children against this box
// (absolute) or the viewport (fixed).
func (e *Engine) placeOutOfFlow(sn *css.StyledNode, box *Box, availW, availH float64) {
	for _, child := range sn.Children {
		if !isOutOfFlow(child) {
			continue
		}
		cs := &child.Style
		cbX, cbY, cbW, cbH := box.X, box.Y, box.W, box.H
		if cs.Position == css.PositionFixed {
			cbX, cbY, cbW, cbH = 0, 0, e.vpW, e.vpH
		}
		item := e.layoutNode(child, 0, 0, cbW, cbH)
		x := cbX
		switch {
		case !cs.Left.IsAuto():
			x = cbX + cs.Left.Resolve(cbW, 0)
		case !cs.Right.IsAuto():
			x = cbX + cbW - cs.Right.Resolve(cbW, 0) - item.W
		}
		y := cbY
		switch {
		case !cs.Top.IsAuto():
			y = cbY + cs.Top.Resolve(cbH, 0)
		case !cs.Bottom.IsAuto():
			y = cbY + cbH - cs.Bottom.Resolve(cbH, 0) - item.H
		}
		shift(item, x, y)
		box.Children = append(box.Children, item)
	}
}

// applyRelativeOffset nudges relatively positioned boxes.
func applyRelativeOffset(box *Box, availW, availH float64) {
	s := box.Style()
	if s.Position != css.PositionRelative {
		return
	}
	dx, dy := 0.0, 0.0
	if !s.Left.IsAuto() {
		dx = s.Left.Resolve(availW, 0)
	} else if !s.Right.IsAuto() {
		dx = -s.Right.Resolve(availW, 0)
	}
	if !s.Top.IsAuto() {
		dy = s.Top.Resolve(availH, 0)
	} else if !s.Bottom.IsAuto() {
		dy = -s.Bottom.Resolve(availH, 0)
	}
	shift(box, dx, dy)
}

// intrinsicWidth estimates the preferred content width of a node.
func (e *Engine) intrinsicWidth(sn *css.StyledNode) float64 {
	if sn.IsText() {
		text := dom.CollapseSpace(sn.Node.Data)
		return float64(len([]rune(text))) * sn.Style.FontSize * charWidthFactor
	}
	if w, ok := formControlSize(sn); ok {
		return w
	}
	if !sn.Style.Width.IsAuto() && sn.Style.Width.Kind == css.DimPx {
		return sn.Style.Width.Px
	}
	sum := 0.0
	max := 0.0
	for _, c := range sn.Children {
		cw := e.intrinsicWidth(c)
		sum += cw
		if cw > max {
			max = cw
		}
	}
	if isInlineLevel(sn) || sn.Style.Display == css.DisplayFlex {
		ed := resolveEdges(&sn.Style, 0)
		return sum + ed.horizontalBP()
	}
	return max
}

// intrinsicHeight supplies fallback heights for replaced and form
// elements that have no flowed content.
func (e *Engine) intrinsicHeight(sn *css.StyledNode) float64 {
	if sn.IsText() {
		return sn.Style.LineHeightOr()
	}
	n := sn.Node
	if n.Type != dom.ElementNode {
		return 0
	}
	lineH := sn.Style.LineHeightOr()
	switch n.Tag {
	case "input":
		if t, _ := n.Attr("type"); t == "hidden" {
			return 0
		}
		return lineH + 8
	case "select", "button":
		return lineH + 8
	case "textarea":
		rows := 2.0
		if r, ok := n.Attr("rows"); ok {
			if v, err := strconv.Atoi(r); err == nil && v > 0 {
				rows = float64(v)
			}
		}
		return rows*lineH + 8
	case "img", "svg":
		if h, ok := attrPx(n, "height"); ok {
			return h
		}
		return 20
	case "br", "hr":
		return lineH
	}
	return 0
}

// formControlSize returns the intrinsic width of form controls and
// replaced elements, honoring presentational width attributes.
func formControlSize(sn *css.StyledNode) (float64, bool) {
	n := sn.Node
	if n.Type != dom.ElementNode {
		return 0, false
	}
	switch n.Tag {
	case "input":
		if t, _ := n.Attr("type"); t == "hidden" {
			return 0, true
		}
		if size, ok := n.Attr("size"); ok {
			if v, err := strconv.Atoi(size); err == nil && v > 0 {
				return float64(v) * sn.Style.FontSize * charWidthFactor, true
			}
		}
		return 180, true
	case "select":
		return 140, true
	case "textarea":
		if cols, ok := n.Attr("cols"); ok {
			if v, err := strconv.Atoi(cols); err == nil && v > 0 {
				return float64(v) * sn.Style.FontSize * charWidthFactor, true
			}
		}
		return 300, true
	case "button":
		text := dom.CollapseSpace(n.Text())
		return float64(len([]rune(text)))*sn.Style.FontSize*charWidthFactor + 24, true
	case "img", "svg":
		if w, ok := attrPx(n, "width"); ok {
			return w, true
		}
		return 20, true
	}
	return 0, false
}

func attrPx(n *dom.Node, name string) (float64, bool) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
