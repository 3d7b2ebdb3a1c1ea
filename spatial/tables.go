package spatial

import "sort"

// Table is the cell grid reconstructed from emitted th/td elements.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// rowClusterTolerance merges cells whose y coordinates differ by at
// most this many pixels into one row.
const rowClusterTolerance = 5

// Tables groups the emitted th and td cells into rows by clustering
// their y coordinates, sorting cells left to right within each row.
// The first row becomes the headers when it consists purely of th
// cells; any later all-th row is kept as an ordinary row.
func (d *Dom) Tables() []Table {
	var cells []*Element
	for _, el := range d.Els {
		if el.Hidden {
			continue
		}
		if el.Tag == "th" || el.Tag == "td" {
			cells = append(cells, el)
		}
	}
	if len(cells) == 0 {
		return nil
	}

	// Cluster by y.
	type row struct {
		y     int
		cells []*Element
	}
	var rows []*row
	for _, c := range cells {
		var target *row
		for _, r := range rows {
			if abs(r.y-c.Bounds.Y) <= rowClusterTolerance {
				target = r
				break
			}
		}
		if target == nil {
			target = &row{y: c.Bounds.Y}
			rows = append(rows, target)
		}
		target.cells = append(target.cells, c)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y < rows[j].y })

	var t Table
	for _, r := range rows {
		sort.SliceStable(r.cells, func(i, j int) bool { return r.cells[i].Bounds.X < r.cells[j].Bounds.X })
		texts := make([]string, len(r.cells))
		allHeader := true
		for i, c := range r.cells {
			texts[i] = c.Text
			if c.Tag != "th" {
				allHeader = false
			}
		}
		if allHeader && t.Headers == nil && len(t.Rows) == 0 {
			t.Headers = texts
			continue
		}
		t.Rows = append(t.Rows, texts)
	}
	return []Table{t}
}

// Alerts returns the elements carrying an alert classification.
func (d *Dom) Alerts() []*Element {
	var out []*Element
	for _, el := range d.Els {
		if el.AlertType != "" {
			out = append(out, el)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
