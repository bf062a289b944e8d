package pdfextract

import (
	"math"
	"sort"
	"strings"
)

// Glyph is a positioned piece of text as reported by the PDF content stream.
// Y grows downward.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

const (
	defaultFontSize = 10.0
	// fractions of the font size
	baselineJitter = 0.3
	wordGap        = 0.15
	columnGap      = 1.5
	paragraphGap   = 2.0
)

type glyphLine struct {
	y      float64
	size   float64
	glyphs []Glyph
}

// BuildPage groups glyphs into spans, lines and blocks.
func BuildPage(glyphs []Glyph) Page {
	var gs []Glyph
	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		if g.FontSize <= 0 {
			g.FontSize = defaultFontSize
		}
		gs = append(gs, g)
	}
	if len(gs) == 0 {
		return Page{}
	}
	sort.SliceStable(gs, func(i, j int) bool {
		if gs[i].Y != gs[j].Y {
			return gs[i].Y < gs[j].Y
		}
		return gs[i].X < gs[j].X
	})

	var lines []*glyphLine
	for _, g := range gs {
		if n := len(lines); n > 0 {
			last := lines[n-1]
			if math.Abs(g.Y-last.y) <= baselineJitter*math.Max(last.size, g.FontSize) {
				last.glyphs = append(last.glyphs, g)
				continue
			}
		}
		lines = append(lines, &glyphLine{y: g.Y, size: g.FontSize, glyphs: []Glyph{g}})
	}

	var (
		page    Page
		current *Block
		prevY   float64
		prevSz  float64
	)
	for _, gl := range lines {
		sort.SliceStable(gl.glyphs, func(i, j int) bool { return gl.glyphs[i].X < gl.glyphs[j].X })
		line, box := buildLine(gl)
		if len(line.Spans) == 0 {
			continue
		}

		if current == nil || gl.y-prevY > paragraphGap*math.Max(prevSz, gl.size) {
			if current != nil {
				page.Blocks = append(page.Blocks, *current)
			}
			current = &Block{BBox: box}
		} else {
			current.BBox = union(current.BBox, box)
		}
		current.Lines = append(current.Lines, line)
		prevY, prevSz = gl.y, gl.size
	}
	if current != nil {
		page.Blocks = append(page.Blocks, *current)
	}
	return page
}

func buildLine(gl *glyphLine) (Line, Rect) {
	var (
		line Line
		text strings.Builder
		span Span
		end  float64
		box  = Rect{X0: math.Inf(1), Y0: gl.y - gl.size, X1: math.Inf(-1), Y1: gl.y}
	)
	flush := func() {
		if t := strings.TrimSpace(text.String()); t != "" {
			span.Text = t
			line.Spans = append(line.Spans, span)
		}
		text.Reset()
	}

	for i, g := range gl.glyphs {
		box.X0 = math.Min(box.X0, g.X)
		box.X1 = math.Max(box.X1, g.X+g.W)

		if i == 0 {
			span = Span{X: g.X, Y: gl.y}
		} else {
			gap := g.X - end
			switch {
			case gap > columnGap*g.FontSize:
				flush()
				span = Span{X: g.X, Y: gl.y}
			case gap > wordGap*g.FontSize && !strings.HasSuffix(text.String(), " ") && !strings.HasPrefix(g.Text, " "):
				text.WriteString(" ")
			}
		}
		if text.Len() == 0 && strings.TrimSpace(g.Text) == "" {
			// leading blanks do not start a span
			end = g.X + g.W
			span.X = end
			continue
		}
		text.WriteString(g.Text)
		end = g.X + g.W
	}
	flush()
	return line, box
}

func union(a, b Rect) Rect {
	return Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
