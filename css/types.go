package css

import (
	"github.com/GhostPeony/browsy/dom"
)

// DefaultFontSize is the root font size when nothing overrides it.
const DefaultFontSize = 16.0

// Viewport is the device-independent viewport the document is styled
// and laid out against.
type Viewport struct {
	Width  int
	Height int
}

// DimensionKind tags the representation of a CSS length.
type DimensionKind int

const (
	DimAuto DimensionKind = iota
	DimPx
	DimPercent
	DimCalc // mixed px + percent, both components carried
)

// Dimension is a layout-facing CSS length. Px carries the absolute
// component in pixels, Percent the relative component in percent of the
// containing dimension. For DimPx only Px is meaningful, for DimPercent
// only Percent, for DimCalc both.
type Dimension struct {
	Kind    DimensionKind
	Px      float64
	Percent float64
}

// Auto returns the auto dimension.
func Auto() Dimension { return Dimension{Kind: DimAuto} }

// Px returns an absolute pixel dimension.
func Px(v float64) Dimension { return Dimension{Kind: DimPx, Px: v} }

// Percent returns a relative dimension.
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Percent: v} }

// IsAuto reports whether the dimension is auto.
func (d Dimension) IsAuto() bool { return d.Kind == DimAuto }

// Resolve computes the dimension in pixels against the given containing
// size. Auto resolves to the fallback.
func (d Dimension) Resolve(containing, fallback float64) float64 {
	switch d.Kind {
	case DimPx:
		return d.Px
	case DimPercent:
		return d.Percent / 100 * containing
	case DimCalc:
		return d.Px + d.Percent/100*containing
	default:
		return fallback
	}
}

// Display is the subset of display values the layout stage understands.
type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayInlineFlex
	DisplayGrid
	DisplayNone
)

// Position is the CSS positioning scheme.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Visibility mirrors the CSS visibility property.
type Visibility int

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
	VisibilityCollapse
)

// BoxSizing selects how width/height relate to the border box.
type BoxSizing int

const (
	ContentBox BoxSizing = iota
	BorderBox
)

// FlexDirection is the main axis of a flex container.
type FlexDirection int

const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// FlexWrap controls flex line wrapping.
type FlexWrap int

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

// Align covers justify-content, align-items and align-self values.
type Align int

const (
	AlignAuto Align = iota
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
)

// Overflow mirrors the CSS overflow property.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// GridTrack is one entry of grid-template-columns/rows. Fr tracks carry
// the flexible fraction, fixed tracks a Dimension.
type GridTrack struct {
	Fr   float64 // > 0 for fr tracks
	Size Dimension
}

// GridPlacement is a parsed grid-column / grid-row value. Lines are
// 1-based; 0 means auto. Span is the span count when the "span n" form
// is used (0 otherwise).
type GridPlacement struct {
	Start int
	End   int
	Span  int
}

// Style is the computed, layout-affecting style of one element. All
// lengths are resolved to Dimensions; font-relative units are already
// resolved against the computed font size.
type Style struct {
	Display    Display
	Position   Position
	Visibility Visibility
	BoxSizing  BoxSizing
	Overflow   Overflow

	Width, Height       Dimension
	MinWidth, MinHeight Dimension
	MaxWidth, MaxHeight Dimension

	MarginTop, MarginRight, MarginBottom, MarginLeft     Dimension
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft Dimension
	BorderTop, BorderRight, BorderBottom, BorderLeft     Dimension

	Top, Right, Bottom, Left Dimension

	FlexDirection  FlexDirection
	FlexWrap       FlexWrap
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      Dimension
	AlignItems     Align
	AlignSelf      Align
	JustifyContent Align
	RowGap         Dimension
	ColumnGap      Dimension

	GridTemplateColumns []GridTrack
	GridTemplateRows    []GridTrack
	GridColumn          GridPlacement
	GridRow             GridPlacement

	FontSize   float64 // computed px
	LineHeight float64 // computed px, 0 means normal
}

// LineHeightOr returns the computed line height, substituting the normal
// value when unset.
func (s *Style) LineHeightOr() float64 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return s.FontSize * 1.2
}

// StyledNode pairs a DOM node with its computed style. Text nodes carry
// the parent's style.
type StyledNode struct {
	Node     *dom.Node
	Style    Style
	Children []*StyledNode
}

// IsText reports whether the styled node wraps a text node.
func (sn *StyledNode) IsText() bool { return sn.Node.Type == dom.TextNode }

// defaultStyle returns the initial style for an element of the given
// tag, seeded with the user-agent display type and font scaling.
func defaultStyle(tag string, parentFontSize float64) Style {
	s := Style{
		FlexShrink: 1,
		FontSize:   parentFontSize,
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Auto(),
		MinHeight:  Auto(),
		MaxWidth:   Auto(),
		MaxHeight:  Auto(),
		FlexBasis:  Auto(),
		Top:        Auto(),
		Right:      Auto(),
		Bottom:     Auto(),
		Left:       Auto(),
	}
	s.Display = defaultDisplay(tag)
	switch tag {
	case "h1":
		s.FontSize = parentFontSize * 2
	case "h2":
		s.FontSize = parentFontSize * 1.5
	case "h3":
		s.FontSize = parentFontSize * 1.17
	case "h5":
		s.FontSize = parentFontSize * 0.83
	case "h6":
		s.FontSize = parentFontSize * 0.67
	case "small":
		s.FontSize = parentFontSize * 0.83
	}
	return s
}

// inlineTags is the user-agent default set of inline-level elements.
var inlineTags = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "bdi": {}, "bdo": {}, "br": {}, "cite": {},
	"code": {}, "data": {}, "dfn": {}, "em": {}, "i": {}, "img": {}, "kbd": {},
	"label": {}, "mark": {}, "q": {}, "s": {}, "samp": {}, "small": {},
	"span": {}, "strong": {}, "sub": {}, "sup": {}, "svg": {}, "time": {},
	"u": {}, "var": {}, "wbr": {},
}

// inlineBlockTags default to inline-block per the user-agent sheet.
var inlineBlockTags = map[string]struct{}{
	"button": {}, "input": {}, "select": {}, "textarea": {}, "meter": {},
	"progress": {},
}

func defaultDisplay(tag string) Display {
	switch tag {
	case "script", "style", "meta", "link", "head", "title", "base", "noscript", "template":
		return DisplayNone
	}
	if _, ok := inlineTags[tag]; ok {
		return DisplayInline
	}
	if _, ok := inlineBlockTags[tag]; ok {
		return DisplayInlineBlock
	}
	return DisplayBlock
}
