package tools

import "context"

// Tools wraps the external programs a session depends on.
type Tools interface {
	// ProbeDuration returns the media duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// Transcribe runs the transcription engine. The result carries the
	// captured output even when the returned error is non-nil.
	Transcribe(ctx context.Context, req TranscribeRequest) (TranscribeResult, error)
	// ConvertPDF runs the external PDF converter. The result carries the
	// captured output even when the returned error is non-nil.
	ConvertPDF(ctx context.Context, req ConvertRequest) (ConvertResult, error)
}

type TranscribeRequest struct {
	AudioPath string
	OutputDir string
	// Timestamp is the session timestamp the engine uses to name its outputs.
	Timestamp string
}

type TranscribeResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	NoSpeech bool
}

type ConvertRequest struct {
	PDFPath   string
	OutputDir string
}

type ConvertResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
