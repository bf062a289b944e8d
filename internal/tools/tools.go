// Package tools invokes the duration probe, the transcription engine and the
// PDF converter.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/echoflow/pkg/executor"
)

// ErrNoOutput means a probe finished but printed nothing usable.
var ErrNoOutput = errors.New("tools: no output")

// Environment variables passed to the transcription engine.
const (
	EnvTimestamp = "WHISPER_TIMESTAMP"
	EnvOutputDir = "WHISPER_OUTPUT_DIR"
)

func (t *implTools) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// -v error: only real errors on stderr
	// -show_entries format=duration: container duration only
	// -of default=noprint_wrappers=1:nokey=1: bare number on stdout
	out, err := t.executor.Execute(ctx, t.transcriber.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	return parseDuration(out)
}

func parseDuration(out string) (float64, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, ErrNoOutput
	}
	d, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}

func (t *implTools) Transcribe(ctx context.Context, req TranscribeRequest) (TranscribeResult, error) {
	args := append(append([]string{}, t.transcriber.Args...), req.AudioPath)

	t.logger.Info(ctx, "Running transcription: %s %s", t.transcriber.Command, strings.Join(args, " "))
	res, err := t.executor.Run(ctx, executor.Command{
		Name: t.transcriber.Command,
		Args: args,
		Env: []string{
			EnvTimestamp + "=" + req.Timestamp,
			EnvOutputDir + "=" + req.OutputDir,
		},
	})

	result := TranscribeResult{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		NoSpeech: t.transcriber.NoSpeechMarker != "" && strings.Contains(res.Stdout, t.transcriber.NoSpeechMarker),
	}
	if err != nil {
		return result, fmt.Errorf("transcribe: %w", err)
	}
	return result, nil
}

func (t *implTools) ConvertPDF(ctx context.Context, req ConvertRequest) (ConvertResult, error) {
	args := t.pdfArgs(req)

	t.logger.Info(ctx, "Running PDF converter: %s %s", t.pdf.Command, redact(args))
	res, err := t.executor.Run(ctx, executor.Command{
		Name: t.pdf.Command,
		Args: args,
	})

	result := ConvertResult{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}
	if err != nil {
		return result, fmt.Errorf("convert pdf: %w", err)
	}
	return result, nil
}

func (t *implTools) pdfArgs(req ConvertRequest) []string {
	// <pdf> --output_dir <dir>: the converter writes <dir>/<stem>/<stem>.md
	args := []string{req.PDFPath, "--output_dir", req.OutputDir}
	if t.pdf.UseLLM {
		args = append(args, "--use_llm")
		if t.pdf.APIKey != "" {
			args = append(args, "--gemini_api_key", t.pdf.APIKey)
		}
		if t.pdf.Model != "" {
			args = append(args, "--model_name", t.pdf.Model)
		}
	}
	if t.pdf.Workers > 0 {
		args = append(args, "--workers", strconv.Itoa(t.pdf.Workers))
	}
	return append(args, t.pdf.ExtraArgs...)
}

// redact hides the value following --gemini_api_key.
func redact(args []string) string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "--gemini_api_key" {
			out[i+1] = "***"
		}
	}
	return strings.Join(out, " ")
}
