package pdfextract

// Rect is a box in top-down page coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Span is a run of text with its origin (x of the first glyph, baseline y).
type Span struct {
	Text string
	X    float64
	Y    float64
}

// Line is a sequence of spans sharing a baseline.
type Line struct {
	Spans []Span
}

// Block is a group of vertically adjacent lines.
type Block struct {
	BBox  Rect
	Lines []Line
}

// Page holds the layout blocks of one page.
type Page struct {
	Blocks []Block
}

// Table is a list of rows of cell texts.
type Table [][]string
