package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/artifact"
	"github.com/nguyentantai21042004/echoflow/internal/naming"
	"github.com/nguyentantai21042004/echoflow/internal/tools"
	"github.com/nguyentantai21042004/echoflow/internal/transcript"
)

// processAudio transcribes an audio capture into a dialogue note.
func (p *implProcessor) processAudio(ctx context.Context, s *Session) StageResult {
	outDir := p.cfg.Paths.Output
	sourceName := filepath.Base(s.Source)
	ext := filepath.Ext(sourceName)
	stem := strings.TrimSuffix(sourceName, ext)

	var size int64
	if info, err := os.Stat(s.Source); err == nil {
		size = info.Size()
	}

	duration, err := p.tools.ProbeDuration(ctx, s.Source)
	if err != nil {
		p.logger.Warn(ctx, "Error getting audio duration: %v", err)
		duration = 0
	}
	s.Duration = duration
	p.logger.Info(ctx, "Audio duration: %s", naming.FormatDuration(duration))

	prefix, err := naming.GeneratePrefix(s.Timestamp, duration)
	if err != nil {
		return failed("", "generate prefix: %v", err)
	}
	s.Prefix = naming.Disambiguate(prefix, taken(outDir,
		func(c string) string { return naming.NoteName(c, naming.KindTranscript) },
		func(c string) string { return naming.ErrorNoteName(c, naming.KindTranscript) },
		func(c string) string { return naming.ArchiveName(c, naming.KindTranscript, ext) },
	))
	if s.Prefix != prefix {
		p.logger.Warn(ctx, "Prefix %s already in use, using %s", prefix, s.Prefix)
	}

	created, err := naming.CreatedAt(s.Timestamp)
	if err != nil {
		return failed("", "format created date: %v", err)
	}
	archiveName := naming.ArchiveName(s.Prefix, naming.KindTranscript, ext)
	archivePath := filepath.Join(outDir, archiveName)
	notePath := filepath.Join(outDir, naming.NoteName(s.Prefix, naming.KindTranscript))
	arts := artifact.New(p.logger, outDir)

	run, runErr := p.tools.Transcribe(ctx, tools.TranscribeRequest{
		AudioPath: s.Source,
		OutputDir: outDir,
		Timestamp: s.Timestamp,
	})

	var (
		jsonPath     string
		blocks       []transcript.Block
		finalCreated bool
		silent       = run.NoSpeech
		detail       string
		reason       string
	)

	switch {
	case runErr != nil:
		reason = fmt.Sprintf("transcription engine failed: %v", runErr)
	case run.NoSpeech:
		p.logger.Info(ctx, "No active speech detected in the audio file")
	default:
		var found bool
		jsonPath, found = locateJSON(outDir, stem, s.Timestamp, ext)
		if !found {
			reason = fmt.Sprintf("JSON file not found in directory %s", outDir)
			break
		}
		p.logger.Info(ctx, "Found JSON file: %s", filepath.Base(jsonPath))

		res := p.formatTranscript(ctx, s, arts, jsonPath, notePath, transcript.Header{
			Created:          created,
			OriginalFilename: naming.VaultLink(archiveName, sourceName),
			Duration:         naming.FormatDuration(duration),
		})
		switch res.Outcome {
		case OutcomeSuccess:
			finalCreated = true
			blocks = res.blocks
		case OutcomeNoSpeech:
			silent = true
			detail = res.Reason
		default:
			reason = res.Reason
		}
	}

	moved := archiveName
	if err := p.moveFile(ctx, s.Source, archivePath); err != nil {
		p.logger.Error(ctx, "Failed to archive %s: %v", sourceName, err)
		moved = ""
		if reason == "" && !finalCreated && !silent {
			reason = err.Error()
		}
	} else {
		s.produced(archivePath)
	}

	byproducts, err := arts.Find(stem, s.Timestamp, archivePath, notePath)
	if err != nil {
		p.logger.Warn(ctx, "Error searching intermediate files: %v", err)
	}
	rec := arts.Reconcile(byproducts, finalCreated, silent)
	preserved := ""
	for _, f := range rec.Preserved {
		if f == jsonPath {
			preserved = f
		}
	}

	if finalCreated {
		p.exportDOCX(ctx, s, blocks)
		if p.enricher != nil {
			r := p.enricher.CheckNote(ctx, notePath)
			p.logger.Info(ctx, "Metadata check for %s: %s", filepath.Base(notePath), r.Outcome)
		}
		return succeeded(notePath)
	}

	fi := fileInfo{
		Name:     sourceName,
		Size:     size,
		MovedTo:  moved,
		Created:  created,
		Duration: naming.FormatDuration(duration),
	}
	reportPath := filepath.Join(outDir, naming.ErrorNoteName(s.Prefix, naming.KindTranscript))

	var data []byte
	if silent {
		data, err = noSpeechReport(fi, detail)
	} else {
		data, err = errorReport(fi, reason, preserved, &output{Stdout: run.Stdout, Stderr: run.Stderr}, transcriptCauses)
	}
	if err == nil {
		err = p.writeNote(s, reportPath, data)
	}
	if err != nil {
		p.logger.Error(ctx, "Error creating error information note: %v", err)
		return failed("", "%s; report not written: %v", reason, err)
	}

	if silent {
		return noSpeech(reportPath, detail)
	}
	return failed(reportPath, "%s", reason)
}

type formatResult struct {
	StageResult
	blocks []transcript.Block
}

// formatTranscript converts the engine JSON into the dialogue note.
func (p *implProcessor) formatTranscript(ctx context.Context, s *Session, arts artifact.Manager, jsonPath, notePath string, h transcript.Header) formatResult {
	p.logger.Info(ctx, "Extracting segments from %s...", filepath.Base(jsonPath))
	segments, err := transcript.LoadSegments(jsonPath)
	if errors.Is(err, transcript.ErrNoSegments) {
		return formatResult{StageResult: noSpeech("", "The transcript produced by the engine contained no segments.")}
	}
	if err != nil {
		return formatResult{StageResult: failed("", "%v", err)}
	}

	lines := transcript.TimestampedLines(segments)
	formattedPath := filepath.Join(p.cfg.Paths.Output, naming.FormattedName(s.Prefix))
	if err := os.WriteFile(formattedPath, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return formatResult{StageResult: failed("", "write formatted transcript: %v", err)}
	}
	arts.Track(formattedPath)
	p.logger.Info(ctx, "Segments with timestamps saved to file: %s", filepath.Base(formattedPath))

	p.logger.Info(ctx, "Formatting dialog to Markdown...")
	blocks := transcript.GroupDialogue(lines, func(n int, line string) {
		p.logger.Warn(ctx, "Line %d does not match format: %s", n, line)
	})
	data, err := transcript.RenderMarkdown(h, blocks)
	if err != nil {
		return formatResult{StageResult: failed("", "render transcript: %v", err)}
	}
	if err := p.writeNote(s, notePath, data); err != nil {
		return formatResult{StageResult: failed("", "%v", err)}
	}
	p.logger.Info(ctx, "Markdown file saved: %s", filepath.Base(notePath))

	return formatResult{StageResult: succeeded(notePath), blocks: blocks}
}

func (p *implProcessor) exportDOCX(ctx context.Context, s *Session, blocks []transcript.Block) {
	if !p.cfg.Export.DOCX {
		return
	}
	path := filepath.Join(p.cfg.Paths.Output, s.Prefix+"_"+naming.KindTranscript+".docx")
	if err := transcript.WriteDOCX(s.Prefix, blocks, path); err != nil {
		p.logger.Warn(ctx, "Failed to export DOCX: %v", err)
		return
	}
	s.produced(path)
	p.logger.Info(ctx, "DOCX saved: %s", filepath.Base(path))
}
