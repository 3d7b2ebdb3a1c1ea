// Package layout computes bounding boxes for a styled tree. It covers
// block flow, flexbox and CSS-Grid containers plus absolute/fixed
// positioning — enough geometry to place every element for spatial
// reasoning, not a pixel-faithful renderer.
package layout

import (
	"math"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
)

// Box is one laid-out node. Coordinates are document-origin pixels of
// the border box.
type Box struct {
	Styled   *css.StyledNode
	X, Y     float64
	W, H     float64
	Children []*Box
}

// Node returns the underlying DOM node.
func (b *Box) Node() *dom.Node { return b.Styled.Node }

// Style returns the computed style of the node.
func (b *Box) Style() *css.Style { return &b.Styled.Style }

// Bounds returns the box rectangle rounded to integer pixels.
func (b *Box) Bounds() (x, y, w, h int) {
	return int(math.Round(b.X)), int(math.Round(b.Y)), int(math.Round(b.W)), int(math.Round(b.H))
}

// Walk visits the box and its descendants depth-first, left to right.
func (b *Box) Walk(fn func(*Box) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// edges is the resolved margin/border/padding of one box.
type edges struct {
	marginTop, marginRight, marginBottom, marginLeft     float64
	borderTop, borderRight, borderBottom, borderLeft     float64
	paddingTop, paddingRight, paddingBottom, paddingLeft float64
}

func (e edges) horizontalMBP() float64 {
	return e.marginLeft + e.marginRight + e.borderLeft + e.borderRight + e.paddingLeft + e.paddingRight
}

func (e edges) horizontalBP() float64 {
	return e.borderLeft + e.borderRight + e.paddingLeft + e.paddingRight
}

func (e edges) verticalBP() float64 {
	return e.borderTop + e.borderBottom + e.paddingTop + e.paddingBottom
}

func resolveEdges(s *css.Style, availW float64) edges {
	r := func(d css.Dimension) float64 { return d.Resolve(availW, 0) }
	return edges{
		marginTop: r(s.MarginTop), marginRight: r(s.MarginRight),
		marginBottom: r(s.MarginBottom), marginLeft: r(s.MarginLeft),
		borderTop: r(s.BorderTop), borderRight: r(s.BorderRight),
		borderBottom: r(s.BorderBottom), borderLeft: r(s.BorderLeft),
		paddingTop: r(s.PaddingTop), paddingRight: r(s.PaddingRight),
		paddingBottom: r(s.PaddingBottom), paddingLeft: r(s.PaddingLeft),
	}
}

// clampSize applies min/max constraints to a computed size.
func clampSize(v float64, min, max css.Dimension, containing float64) float64 {
	if !max.IsAuto() {
		if m := max.Resolve(containing, v); v > m {
			v = m
		}
	}
	if !min.IsAuto() {
		if m := min.Resolve(containing, 0); v < m {
			v = m
		}
	}
	if v < 0 {
		return 0
	}
	return v
}
