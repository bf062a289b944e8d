package processor

import (
	"fmt"

	"github.com/nguyentantai21042004/echoflow/internal/watcher"
)

// Outcome is the terminal state of a session.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeNoSpeech Outcome = "no_speech"
	OutcomeError    Outcome = "error"
)

// Session is the state of one file moving through the pipeline.
type Session struct {
	ID        string
	Timestamp string
	Source    string
	Kind      watcher.Kind
	Duration  float64
	Prefix    string
	Artifacts []string
	Outcome   Outcome
	Reason    string
}

func (s *Session) produced(path string) {
	s.Artifacts = append(s.Artifacts, path)
}

// StageResult is what a pipeline returns to Process.
type StageResult struct {
	Outcome  Outcome
	Artifact string
	Reason   string
}

func succeeded(artifact string) StageResult {
	return StageResult{Outcome: OutcomeSuccess, Artifact: artifact}
}

func noSpeech(artifact, reason string) StageResult {
	return StageResult{Outcome: OutcomeNoSpeech, Artifact: artifact, Reason: reason}
}

func failed(artifact, format string, args ...interface{}) StageResult {
	return StageResult{Outcome: OutcomeError, Artifact: artifact, Reason: fmt.Sprintf(format, args...)}
}
