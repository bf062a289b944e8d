package pdfextract

import "context"

// Extractor converts PDFs to Markdown, rendering grid-like blocks as tables.
type Extractor interface {
	// Extract returns the Markdown for the PDF at path.
	Extract(ctx context.Context, path string) (string, error)
	// Convert writes the Markdown for pdfPath to mdPath.
	Convert(ctx context.Context, pdfPath, mdPath string) error
}
