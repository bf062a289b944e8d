// Package transcript turns transcription-engine segments into dialogue notes.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/naming"
)

// UnknownSpeaker is used for segments the engine did not attribute.
const UnknownSpeaker = "SPEAKER_??"

// ErrNoSegments means the transcript parsed but holds nothing to format.
var ErrNoSegments = errors.New("transcript: no segments")

// Segment is one utterance from the engine JSON.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

type document struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments reads the engine JSON at path.
// An empty segment list returns ErrNoSegments.
func LoadSegments(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	if len(doc.Segments) == 0 {
		return nil, ErrNoSegments
	}
	return doc.Segments, nil
}

// TimestampedLines renders each segment as "[start - end] speaker: text".
func TimestampedLines(segments []Segment) []string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = UnknownSpeaker
		}
		lines = append(lines, fmt.Sprintf("[%s - %s] %s: %s",
			naming.FormatClock(seg.Start),
			naming.FormatClock(seg.End),
			speaker,
			strings.TrimSpace(seg.Text),
		))
	}
	return lines
}
