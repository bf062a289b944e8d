package pdfextract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

func (e *implExtractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("pdf not found: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		e.l.Debug(ctx, "pdfextract: page %d/%d of %s", i, total, filepath.Base(path))

		glyphs, err := pageGlyphs(r.Page(i))
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		pages = append(pages, RenderPage(BuildPage(glyphs)))
	}

	return e.cleaner.Clean(JoinPages(pages)), nil
}

func (e *implExtractor) Convert(ctx context.Context, pdfPath, mdPath string) error {
	md, err := e.Extract(ctx, pdfPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	e.l.Info(ctx, "pdfextract: converted %s -> %s", filepath.Base(pdfPath), filepath.Base(mdPath))
	return nil
}

// pageGlyphs reads the text glyphs of p with y flipped to grow downward.
// The content parser panics on some malformed streams.
func pageGlyphs(p pdf.Page) (glyphs []Glyph, err error) {
	if p.V.IsNull() {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse content: %v", r)
		}
	}()

	for _, t := range p.Content().Text {
		glyphs = append(glyphs, Glyph{
			Text:     t.S,
			X:        t.X,
			Y:        -t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return glyphs, nil
}
