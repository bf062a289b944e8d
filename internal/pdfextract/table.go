package pdfextract

import (
	"math"
	"sort"
	"strings"
)

const (
	minTableLines   = 3
	columnTolerance = 10.0
	alignmentRatio  = 0.7
	rowTolerance    = 5.0
)

// IsTable reports whether the block looks like a grid: at least three lines,
// at least two columns per line, column counts within one of each other, and
// span origins aligned line to line in at least 70% of comparisons.
func IsTable(b Block) bool {
	if len(b.Lines) < minTableLines {
		return false
	}

	var columns [][]float64
	for _, l := range b.Lines {
		if len(l.Spans) == 0 {
			continue
		}
		xs := make([]float64, 0, len(l.Spans))
		for _, s := range l.Spans {
			xs = append(xs, s.X)
		}
		sort.Float64s(xs)
		columns = append(columns, xs)
	}
	if len(columns) == 0 {
		return false
	}

	minCols, maxCols := len(columns[0]), len(columns[0])
	for _, xs := range columns[1:] {
		if len(xs) < minCols {
			minCols = len(xs)
		}
		if len(xs) > maxCols {
			maxCols = len(xs)
		}
	}
	if minCols < 2 || maxCols-minCols > 1 {
		return false
	}

	aligned, compared := 0, 0
	for i := 1; i < len(columns); i++ {
		prev, curr := columns[i-1], columns[i]
		n := len(prev)
		if len(curr) < n {
			n = len(curr)
		}
		for j := 0; j < n; j++ {
			compared++
			if math.Abs(prev[j]-curr[j]) <= columnTolerance {
				aligned++
			}
		}
	}
	if compared == 0 {
		return false
	}
	return float64(aligned)/float64(compared) >= alignmentRatio
}

// ExtractTable flattens the block's spans, orders them by (y, x) and groups
// them into rows by baseline proximity. Empty cells are dropped.
func ExtractTable(b Block) Table {
	var spans []Span
	for _, l := range b.Lines {
		for _, s := range l.Spans {
			spans = append(spans, Span{Text: strings.TrimSpace(s.Text), X: s.X, Y: s.Y})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Y != spans[j].Y {
			return spans[i].Y < spans[j].Y
		}
		return spans[i].X < spans[j].X
	})

	var (
		rows    Table
		row     []string
		rowY    float64
		started bool
	)
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if !started || math.Abs(s.Y-rowY) > rowTolerance {
			if len(row) > 0 {
				rows = append(rows, row)
			}
			row = []string{s.Text}
			rowY = s.Y
			started = true
			continue
		}
		row = append(row, s.Text)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// Markdown renders the table with the first row as header. Tables with fewer
// than two rows or two columns render as "".
func (t Table) Markdown() string {
	if len(t) < 2 {
		return ""
	}
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		return ""
	}

	pad := func(row []string) []string {
		out := make([]string, width)
		copy(out, row)
		return out
	}
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}

	lines := make([]string, 0, len(t)+1)
	lines = append(lines, "| "+strings.Join(pad(t[0]), " | ")+" |")
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	for _, row := range t[1:] {
		lines = append(lines, "| "+strings.Join(pad(row), " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
