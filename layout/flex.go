package layout

import (
	"github.com/GhostPeony/browsy/css"
)

// flexItem is one in-flow child of a flex container during resolution.
type flexItem struct {
	styled *css.StyledNode
	basis  float64
	main   float64 // resolved main size
	cross  float64 // resolved cross size
	box    *Box
}

func (e *Engine) layoutFlex(sn *css.StyledNode, flowX, flowY, availW, availH float64) *Box {
	s := &sn.Style
	ed := resolveEdges(s, availW)

	borderW, _ := borderBoxWidth(s, ed, availW)
	contentW := borderW - ed.horizontalBP()
	if contentW < 0 {
		contentW = 0
	}

	x := flowX + ed.marginLeft
	y := flowY + ed.marginTop
	box := &Box{Styled: sn, X: x, Y: y, W: borderW}
	contentX := x + ed.borderLeft + ed.paddingLeft
	contentY := y + ed.borderTop + ed.paddingTop

	horizontal := s.FlexDirection == css.FlexRow || s.FlexDirection == css.FlexRowReverse
	reversed := s.FlexDirection == css.FlexRowReverse || s.FlexDirection == css.FlexColumnReverse

	mainSize := contentW
	if !horizontal {
		// Column main size: the specified height, else grows with content.
		mainSize = s.Height.Resolve(availH, 0)
		if s.BoxSizing == css.BorderBox && !s.Height.IsAuto() {
			mainSize -= ed.verticalBP()
		}
	}

	mainGap := s.ColumnGap.Resolve(contentW, 0)
	crossGap := s.RowGap.Resolve(availH, 0)
	if !horizontal {
		mainGap, crossGap = crossGap, mainGap
	}

	// Gather in-flow items and their flex bases.
	var items []flexItem
	for _, child := range sn.Children {
		if isOutOfFlow(child) {
			continue
		}
		if child.Style.Display == css.DisplayNone && !child.IsText() {
			box.Children = append(box.Children, e.zeroBox(child, contentX, contentY))
			continue
		}
		items = append(items, flexItem{styled: child, basis: e.flexBasis(child, horizontal, contentW, availH)})
	}

	// Split into lines (single line when nowrap or no main limit).
	var lines [][]flexItem
	if s.FlexWrap == css.NoWrap || mainSize <= 0 {
		if len(items) > 0 {
			lines = append(lines, items)
		}
	} else {
		var line []flexItem
		used := 0.0
		for _, it := range items {
			need := it.basis
			if len(line) > 0 {
				need += mainGap
			}
			if len(line) > 0 && used+need > mainSize {
				lines = append(lines, line)
				line = nil
				used = 0
				need = it.basis
			}
			line = append(line, it)
			used += need
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}

	// Resolve each line, stacking along the cross axis.
	crossCursor := 0.0
	for li, line := range lines {
		if li > 0 {
			crossCursor += crossGap
		}
		e.resolveFlexLine(line, s, horizontal, reversed, mainSize, contentW, availH)

		lineCross := 0.0
		for i := range line {
			if line[i].cross > lineCross {
				lineCross = line[i].cross
			}
		}

		// Main-axis placement with justify-content.
		totalMain := mainGap * float64(len(line)-1)
		for i := range line {
			totalMain += line[i].main
		}
		free := mainSize - totalMain
		if mainSize <= 0 {
			free = 0
		}
		offset, spacing := justifyOffsets(s.JustifyContent, free, len(line))

		mainCursor := offset
		for i := range line {
			it := &line[i]
			crossOffset := alignOffset(alignFor(it.styled, s), lineCross, it.cross)
			var ix, iy float64
			if horizontal {
				ix = contentX + mainCursor
				iy = contentY + crossCursor + crossOffset
			} else {
				ix = contentX + crossOffset
				iy = contentY + mainCursor
			}
			shift(it.box, ix-it.box.X, iy-it.box.Y)
			box.Children = append(box.Children, it.box)
			mainCursor += it.main + mainGap + spacing
		}
		crossCursor += lineCross
	}

	contentH := crossCursor
	if !horizontal {
		// Column: content height is the main extent of the longest line.
		contentH = 0
		for _, line := range lines {
			lineMain := mainGap * float64(len(line)-1)
			for i := range line {
				lineMain += line[i].main
			}
			if lineMain > contentH {
				contentH = lineMain
			}
		}
	}
	box.H = borderBoxHeight(s, ed, contentH, availH)

	e.placeOutOfFlow(sn, box, availW, availH)
	applyRelativeOffset(box, availW, availH)
	return box
}

// flexBasis determines an item's starting main size.
func (e *Engine) flexBasis(sn *css.StyledNode, horizontal bool, contentW, availH float64) float64 {
	s := &sn.Style
	if !s.FlexBasis.IsAuto() {
		if horizontal {
			return s.FlexBasis.Resolve(contentW, 0)
		}
		return s.FlexBasis.Resolve(availH, 0)
	}
	if horizontal {
		if !s.Width.IsAuto() {
			return s.Width.Resolve(contentW, 0)
		}
		w := e.intrinsicWidth(sn)
		if w > contentW && contentW > 0 {
			w = contentW
		}
		return w
	}
	if !s.Height.IsAuto() {
		return s.Height.Resolve(availH, 0)
	}
	probe := e.layoutNode(sn, 0, 0, contentW, availH)
	return probe.H
}

// resolveFlexLine distributes free space and lays each item out at its
// resolved main size.
func (e *Engine) resolveFlexLine(line []flexItem, s *css.Style, horizontal, reversed bool, mainSize, contentW, availH float64) {
	if reversed {
		for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
			line[i], line[j] = line[j], line[i]
		}
	}

	gap := s.ColumnGap.Resolve(contentW, 0)
	if !horizontal {
		gap = s.RowGap.Resolve(availH, 0)
	}
	total := gap * float64(len(line)-1)
	growSum, shrinkSum := 0.0, 0.0
	for i := range line {
		total += line[i].basis
		growSum += line[i].styled.Style.FlexGrow
		shrinkSum += line[i].styled.Style.FlexShrink * line[i].basis
	}

	for i := range line {
		it := &line[i]
		it.main = it.basis
		if mainSize > 0 {
			free := mainSize - total
			if free > 0 && growSum > 0 {
				it.main += free * it.styled.Style.FlexGrow / growSum
			} else if free < 0 && shrinkSum > 0 {
				it.main += free * (it.styled.Style.FlexShrink * it.basis) / shrinkSum
			}
		}
		if it.main < 0 {
			it.main = 0
		}

		if horizontal {
			it.box = e.layoutNode(it.styled, 0, 0, it.main, availH)
			it.box.W = it.main
			it.cross = it.box.H
		} else {
			it.box = e.layoutNode(it.styled, 0, 0, contentW, availH)
			it.box.H = it.main
			it.cross = it.box.W
		}
	}
}

// justifyOffsets converts justify-content into a start offset and
// per-gap extra spacing.
func justifyOffsets(j css.Align, free float64, count int) (offset, spacing float64) {
	if free <= 0 || count == 0 {
		return 0, 0
	}
	switch j {
	case css.AlignEnd:
		return free, 0
	case css.AlignCenter:
		return free / 2, 0
	case css.AlignSpaceBetween:
		if count > 1 {
			return 0, free / float64(count-1)
		}
		return 0, 0
	case css.AlignSpaceAround:
		s := free / float64(count)
		return s / 2, s
	case css.AlignSpaceEvenly:
		s := free / float64(count+1)
		return s, s
	default:
		return 0, 0
	}
}

func alignFor(sn *css.StyledNode, container *css.Style) css.Align {
	if sn.Style.AlignSelf != css.AlignAuto {
		return sn.Style.AlignSelf
	}
	if container.AlignItems != css.AlignAuto {
		return container.AlignItems
	}
	return css.AlignStretch
}

func alignOffset(a css.Align, lineCross, itemCross float64) float64 {
	switch a {
	case css.AlignCenter:
		return (lineCross - itemCross) / 2
	case css.AlignEnd:
		return lineCross - itemCross
	default:
		return 0
	}
}
