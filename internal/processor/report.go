package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/frontmatter"
	"github.com/nguyentantai21042004/echoflow/internal/naming"
	"github.com/nguyentantai21042004/echoflow/internal/watcher"
)

// Values of the error key in report notes.
const (
	ErrorNoSpeech   = "No speech detected"
	ErrorProcessing = "Processing error"
)

// fileInfo describes the source of a session for report notes.
type fileInfo struct {
	Name     string
	Size     int64
	MovedTo  string
	Created  string
	Duration string
}

// output is captured subprocess output embedded into an error report.
type output struct {
	Stdout string
	Stderr string
}

func (fi fileInfo) frontmatter(errValue string) *frontmatter.Frontmatter {
	fm := frontmatter.New()
	fm.Created = fi.Created
	fm.OriginalFilename = naming.VaultLink(fi.MovedTo, fi.Name)
	if fi.MovedTo == "" {
		fm.OriginalFilename = fi.Name
	}
	fm.Duration = fi.Duration
	fm.Error = errValue
	return fm
}

func (fi fileInfo) section(b *strings.Builder) {
	b.WriteString("## File Information\n\n")
	fmt.Fprintf(b, "- Filename: %s\n", fi.Name)
	fmt.Fprintf(b, "- Size: %d bytes\n", fi.Size)
	if fi.MovedTo != "" {
		fmt.Fprintf(b, "- Moved to: %s\n", fi.MovedTo)
	}
}

// noSpeechReport renders the informational note for audio without speech.
func noSpeechReport(fi fileInfo, detail string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# No speech detected in file %s\n\n", fi.Name)
	fmt.Fprintf(&b, "Processing date and time: %s\n\n", fi.Created)
	fi.section(&b)
	b.WriteString("\n")
	if detail != "" {
		b.WriteString(detail + "\n\n")
	}
	b.WriteString("The audio file was processed, but no speech was detected. This could be due to:\n\n")
	b.WriteString("- Silent audio file\n")
	b.WriteString("- Very low volume speech\n")
	b.WriteString("- Non-speech audio content\n")
	b.WriteString("- Format not compatible with speech recognition\n")

	return frontmatter.Render(fi.frontmatter(ErrorNoSpeech), b.String())
}

// errorReport renders the failure note with the best diagnostics available.
func errorReport(fi fileInfo, reason, preserved string, out *output, causes []string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Error processing file %s\n\n", fi.Name)
	fmt.Fprintf(&b, "Processing date and time: %s\n\n", fi.Created)
	if reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n\n", reason)
	}
	if preserved != "" {
		fmt.Fprintf(&b, "JSON file preserved for debugging: `%s`\n\n", filepath.Base(preserved))
	}

	b.WriteString("## Processing Output\n\n")
	b.WriteString("```\n")
	if out != nil && (out.Stdout != "" || out.Stderr != "") {
		b.WriteString(strings.TrimRight(out.Stdout, "\n"))
		if out.Stderr != "" {
			b.WriteString("\n\n### Errors:\n")
			b.WriteString(strings.TrimRight(out.Stderr, "\n"))
		}
	} else {
		b.WriteString("No processing output available.")
	}
	b.WriteString("\n```\n\n")

	if len(causes) > 0 {
		b.WriteString("## Possible Error Causes\n\n")
		for _, c := range causes {
			b.WriteString("- " + c + "\n")
		}
		b.WriteString("\n")
	}
	fi.section(&b)

	return frontmatter.Render(fi.frontmatter(ErrorProcessing), b.String())
}

var transcriptCauses = []string{
	"File format not supported",
	"File does not contain speech",
	"Error in speech recognition",
	"Error in speaker identification",
}

var documentCauses = []string{
	"PDF is encrypted or damaged",
	"PDF converter is not installed or failed to start",
	"Converter wrote its output under an unexpected name",
}

// writePanicReport leaves an error note for a session that panicked after its
// prefix was chosen.
func (p *implProcessor) writePanicReport(ctx context.Context, s *Session) {
	if s.Prefix == "" {
		return
	}
	kind := naming.KindTranscript
	if s.Kind == watcher.KindPDF {
		kind = naming.KindDocument
	}

	created, _ := naming.CreatedAt(s.Timestamp)
	fi := fileInfo{Name: filepath.Base(s.Source), Created: created}
	data, err := errorReport(fi, s.Reason, "", nil, nil)
	if err != nil {
		p.logger.Error(ctx, "Error creating error information note: %v", err)
		return
	}
	path := filepath.Join(p.cfg.Paths.Output, naming.ErrorNoteName(s.Prefix, kind))
	if err := p.writeNote(s, path, data); err != nil {
		p.logger.Error(ctx, "Error creating error information note: %v", err)
	}
}
