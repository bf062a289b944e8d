package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/nguyentantai21042004/echoflow/internal/artifact"
	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/frontmatter"
	"github.com/nguyentantai21042004/echoflow/internal/naming"
	"github.com/nguyentantai21042004/echoflow/internal/tools"
)

// BuiltinProcessor identifies notes converted by the built-in extractor.
const BuiltinProcessor = "echoflow-pdfextract"

// processPDF archives a PDF and converts it into a document note.
func (p *implProcessor) processPDF(ctx context.Context, s *Session) StageResult {
	outDir := p.cfg.Paths.Output
	sourceName := filepath.Base(s.Source)
	ext := filepath.Ext(sourceName)

	var size int64
	if info, err := os.Stat(s.Source); err == nil {
		size = info.Size()
	}

	prefix, err := naming.GeneratePrefix(s.Timestamp, 0)
	if err != nil {
		return failed("", "generate prefix: %v", err)
	}
	s.Prefix = naming.Disambiguate(prefix, taken(outDir,
		func(c string) string { return naming.ArchiveName(c, naming.KindDocument, ext) },
		func(c string) string { return c + "_" + naming.KindDocument },
		func(c string) string { return naming.ErrorNoteName(c, naming.KindDocument) },
	))

	created, err := naming.CreatedAt(s.Timestamp)
	if err != nil {
		return failed("", "format created date: %v", err)
	}
	docStem := s.Prefix + "_" + naming.KindDocument
	archiveName := naming.ArchiveName(s.Prefix, naming.KindDocument, ext)
	archivePath := filepath.Join(outDir, archiveName)
	nestedDir := filepath.Join(outDir, docStem)
	expected := filepath.Join(nestedDir, docStem+".md")

	fi := fileInfo{Name: sourceName, Size: size, Created: created}
	reportPath := filepath.Join(outDir, naming.ErrorNoteName(s.Prefix, naming.KindDocument))

	if err := p.moveFile(ctx, s.Source, archivePath); err != nil {
		return p.documentFailure(ctx, s, fi, reportPath, nil, "archive source: %v", err)
	}
	s.produced(archivePath)
	fi.MovedTo = archiveName

	pages, err := api.PageCountFile(archivePath)
	if err != nil {
		p.logger.Warn(ctx, "Could not read page count of %s: %v", archiveName, err)
		pages = 0
	}

	processorID, out, err := p.convertPDF(ctx, archivePath, expected)
	if err != nil {
		return p.documentFailure(ctx, s, fi, reportPath, out, "%v", err)
	}

	mdPath, err := resolveOutput(nestedDir, expected)
	if err != nil {
		return p.documentFailure(ctx, s, fi, reportPath, out, "%v", err)
	}

	fm, body, err := frontmatter.ReadFile(mdPath)
	if fm == nil {
		return p.documentFailure(ctx, s, fi, reportPath, out, "%v", err)
	}
	if errors.Is(err, frontmatter.ErrMalformed) {
		p.logger.Warn(ctx, "Converter output has unreadable frontmatter, keeping it as text: %v", err)
	}
	fm.Created = created
	fm.OriginalFilename = naming.VaultLink(archiveName, sourceName)
	fm.ProcessedFilename = filepath.Base(mdPath)
	fm.Processor = processorID
	fm.Pages = pages

	if err := frontmatter.WriteFile(mdPath, fm, body); err != nil {
		return p.documentFailure(ctx, s, fi, reportPath, out, "write frontmatter: %v", err)
	}
	s.produced(mdPath)

	metaPath := filepath.Join(nestedDir, docStem+"_meta.json")
	if removed, err := artifact.RemoveIfExists(metaPath); err != nil {
		p.logger.Warn(ctx, "Failed to delete %s: %v", filepath.Base(metaPath), err)
	} else if removed {
		p.logger.Debug(ctx, "Deleted converter metadata %s", filepath.Base(metaPath))
	}

	return succeeded(mdPath)
}

// convertPDF runs the configured converter and returns its processor id.
func (p *implProcessor) convertPDF(ctx context.Context, pdfPath, expected string) (string, *output, error) {
	if p.cfg.PDF.Mode == config.PDFModeBuiltin {
		if p.extractor == nil {
			return BuiltinProcessor, nil, fmt.Errorf("built-in PDF extractor is not configured")
		}
		if err := p.extractor.Convert(ctx, pdfPath, expected); err != nil {
			return BuiltinProcessor, nil, fmt.Errorf("built-in conversion: %w", err)
		}
		return BuiltinProcessor, nil, nil
	}

	res, err := p.tools.ConvertPDF(ctx, tools.ConvertRequest{
		PDFPath:   pdfPath,
		OutputDir: p.cfg.Paths.Output,
	})
	out := &output{Stdout: res.Stdout, Stderr: res.Stderr}
	return filepath.Base(p.cfg.PDF.Command), out, err
}

// resolveOutput accepts the converter run only when dir holds exactly the
// expected Markdown file.
func resolveOutput(dir, expected string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("converter produced no output directory %s", filepath.Base(dir))
		}
		return "", fmt.Errorf("list converter output: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			candidates = append(candidates, e.Name())
		}
	}
	sort.Strings(candidates)

	switch {
	case len(candidates) == 0:
		return "", fmt.Errorf("converter produced no Markdown file in %s", filepath.Base(dir))
	case len(candidates) > 1:
		return "", fmt.Errorf("converter produced %d Markdown files in %s: %s",
			len(candidates), filepath.Base(dir), strings.Join(candidates, ", "))
	case candidates[0] != filepath.Base(expected):
		return "", fmt.Errorf("converter produced %s instead of %s", candidates[0], filepath.Base(expected))
	}
	return expected, nil
}

func (p *implProcessor) documentFailure(ctx context.Context, s *Session, fi fileInfo, reportPath string, out *output, format string, args ...interface{}) StageResult {
	reason := fmt.Sprintf(format, args...)
	data, err := errorReport(fi, reason, "", out, documentCauses)
	if err == nil {
		err = p.writeNote(s, reportPath, data)
	}
	if err != nil {
		p.logger.Error(ctx, "Error creating error information note: %v", err)
		return failed("", "%s; report not written: %v", reason, err)
	}
	return failed(reportPath, "%s", reason)
}
