package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/frontmatter"
)

var reLine = regexp.MustCompile(`^\[(.+?) - (.+?)\] (SPEAKER_\d+|Speaker \d+): (.+)$`)

// Line is one parsed timestamped line.
type Line struct {
	Start string
	End   string
	Text  string
}

// Block is a run of consecutive lines from the same speaker.
type Block struct {
	Speaker     string
	DisplayName string
	Lines       []Line
}

func (b Block) Start() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0].Start
}

func (b Block) End() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[len(b.Lines)-1].End
}

// WarnFunc receives lines that do not match the timestamped format.
// lineNo is 1-based.
type WarnFunc func(lineNo int, line string)

// GroupDialogue merges consecutive lines with the same speaker token into
// blocks. Display names are assigned per document in first-seen order.
func GroupDialogue(lines []string, warn WarnFunc) []Block {
	var blocks []Block
	names := make(map[string]string)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		m := reLine.FindStringSubmatch(line)
		if m == nil {
			if warn != nil {
				warn(i+1, line)
			}
			continue
		}

		start, end, speaker, text := m[1], m[2], m[3], m[4]
		if n := len(blocks); n > 0 && blocks[n-1].Speaker == speaker {
			blocks[n-1].Lines = append(blocks[n-1].Lines, Line{Start: start, End: end, Text: text})
			continue
		}

		name, ok := names[speaker]
		if !ok {
			name = fmt.Sprintf("Speaker %d", len(names)+1)
			names[speaker] = name
		}
		blocks = append(blocks, Block{
			Speaker:     speaker,
			DisplayName: name,
			Lines:       []Line{{Start: start, End: end, Text: text}},
		})
	}
	return blocks
}

// Header is the note frontmatter of a transcript.
type Header struct {
	Created          string
	OriginalFilename string
	Duration         string
}

// RenderMarkdown renders the transcript note.
func RenderMarkdown(h Header, blocks []Block) ([]byte, error) {
	fm := frontmatter.New()
	fm.Created = h.Created
	fm.OriginalFilename = h.OriginalFilename
	fm.Duration = h.Duration

	var body strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&body, "### %s *[%s - %s]*\n\n", b.DisplayName, b.Start(), b.End())
		for _, l := range b.Lines {
			fmt.Fprintf(&body, "- %s\n", l.Text)
		}
		body.WriteString("\n")
	}

	return frontmatter.Render(fm, body.String())
}
