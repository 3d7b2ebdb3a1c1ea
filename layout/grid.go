package layout

import (
	"github.com/GhostPeony/browsy/css"
)

// gridCell records where an item landed during placement.
type gridCell struct {
	styled   *css.StyledNode
	col, row int // 0-based
	colSpan  int
	rowSpan  int
	box      *Box
}

func (e *Engine) layoutGrid(sn *css.StyledNode, flowX, flowY, availW, availH float64) *Box {
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

	colGap := s.ColumnGap.Resolve(contentW, 0)
	rowGap := s.RowGap.Resolve(availH, 0)

	colWidths := resolveTracks(s.GridTemplateColumns, contentW, colGap)
	if len(colWidths) == 0 {
		colWidths = []float64{contentW}
	}
	cols := len(colWidths)

	// Place in-flow items: explicit placement wins, the rest auto-flow
	// row-major.
	var cells []gridCell
	occupied := map[[2]int]bool{}
	autoCol, autoRow := 0, 0
	advance := func() {
		autoCol++
		if autoCol >= cols {
			autoCol = 0
			autoRow++
		}
	}
	for _, child := range sn.Children {
		if isOutOfFlow(child) {
			continue
		}
		if child.Style.Display == css.DisplayNone && !child.IsText() {
			box.Children = append(box.Children, e.zeroBox(child, contentX, contentY))
			continue
		}
		cell := gridCell{styled: child, colSpan: 1, rowSpan: 1}

		gc, gr := child.Style.GridColumn, child.Style.GridRow
		if gc.Span > 0 {
			cell.colSpan = gc.Span
		} else if gc.Start > 0 && gc.End > gc.Start {
			cell.colSpan = gc.End - gc.Start
		}
		if gr.Span > 0 {
			cell.rowSpan = gr.Span
		} else if gr.Start > 0 && gr.End > gr.Start {
			cell.rowSpan = gr.End - gr.Start
		}
		if cell.colSpan > cols {
			cell.colSpan = cols
		}

		switch {
		case gc.Start > 0 && gr.Start > 0:
			cell.col, cell.row = gc.Start-1, gr.Start-1
		case gc.Start > 0:
			cell.col, cell.row = gc.Start-1, autoRow
		default:
			for occupied[[2]int{autoCol, autoRow}] || autoCol+cell.colSpan > cols {
				advance()
			}
			cell.col, cell.row = autoCol, autoRow
			advance()
		}
		if cell.col >= cols {
			cell.col = cols - 1
		}
		for c := cell.col; c < cell.col+cell.colSpan && c < cols; c++ {
			for r := cell.row; r < cell.row+cell.rowSpan; r++ {
				occupied[[2]int{c, r}] = true
			}
		}
		cells = append(cells, cell)
	}

	// Lay out each item within its spanned columns to learn row heights.
	rowCount := 0
	for i := range cells {
		if end := cells[i].row + cells[i].rowSpan; end > rowCount {
			rowCount = end
		}
	}
	rowHeights := make([]float64, rowCount)
	templRows := resolveTracks(s.GridTemplateRows, availH, rowGap)
	for i := range rowHeights {
		if i < len(templRows) {
			rowHeights[i] = templRows[i]
		}
	}

	for i := range cells {
		cell := &cells[i]
		w := spanSize(colWidths, cell.col, cell.colSpan, colGap)
		cell.box = e.layoutNode(cell.styled, 0, 0, w, availH)
		if cell.box.W < w {
			cell.box.W = w
		}
		if cell.row < rowCount && cell.rowSpan == 1 && cell.row < len(rowHeights) {
			if cell.box.H > rowHeights[cell.row] {
				rowHeights[cell.row] = cell.box.H
			}
		}
	}

	// Final placement.
	colOffsets := offsets(colWidths, colGap)
	rowOffsets := offsets(rowHeights, rowGap)
	for i := range cells {
		cell := &cells[i]
		cx := contentX + colOffsets[cell.col]
		cy := contentY
		if cell.row < len(rowOffsets) {
			cy = contentY + rowOffsets[cell.row]
		}
		shift(cell.box, cx-cell.box.X, cy-cell.box.Y)
		box.Children = append(box.Children, cell.box)
	}

	contentH := 0.0
	for i, h := range rowHeights {
		if i > 0 {
			contentH += rowGap
		}
		contentH += h
	}
	box.H = borderBoxHeight(s, ed, contentH, availH)

	e.placeOutOfFlow(sn, box, availW, availH)
	applyRelativeOffset(box, availW, availH)
	return box
}

// resolveTracks turns grid template tracks into pixel sizes: fixed
// tracks resolve directly, fr tracks share what remains.
func resolveTracks(tracks []css.GridTrack, total, gap float64) []float64 {
	if len(tracks) == 0 {
		return nil
	}
	out := make([]float64, len(tracks))
	remaining := total - gap*float64(len(tracks)-1)
	frSum := 0.0
	for i, t := range tracks {
		if t.Fr > 0 {
			frSum += t.Fr
			continue
		}
		out[i] = t.Size.Resolve(total, 0)
		remaining -= out[i]
	}
	if remaining < 0 {
		remaining = 0
	}
	for i, t := range tracks {
		if t.Fr > 0 {
			out[i] = remaining * t.Fr / frSum
		}
	}
	return out
}

func spanSize(sizes []float64, start, span int, gap float64) float64 {
	total := 0.0
	for i := start; i < start+span && i < len(sizes); i++ {
		if i > start {
			total += gap
		}
		total += sizes[i]
	}
	return total
}

func offsets(sizes []float64, gap float64) []float64 {
	out := make([]float64, len(sizes)+1)
	for i, s := range sizes {
		out[i+1] = out[i] + s + gap
	}
	return out
}
