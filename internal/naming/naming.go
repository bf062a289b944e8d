// Package naming derives the deterministic file names used for every
// artifact a processing session produces.
package naming

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the second-resolution session timestamp format.
const TimestampLayout = "20060102_150405"

const createdLayout = "2006-01-02 15:04:05"

// Artifact kinds used as name suffixes.
const (
	KindTranscript = "transcript"
	KindDocument   = "document"
)

// NewTimestamp renders t as a session timestamp.
func NewTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// GeneratePrefix returns MMDD_DW_HHMMSS_MMSS for a session timestamp and a
// duration in seconds.
func GeneratePrefix(timestamp string, duration float64) (string, error) {
	t, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return "", fmt.Errorf("parse session timestamp %q: %w", timestamp, err)
	}

	weekday := strings.ToUpper(t.Weekday().String()[:2])
	return fmt.Sprintf("%s_%s_%s_%s",
		t.Format("0102"),
		weekday,
		t.Format("150405"),
		durationCode(duration),
	), nil
}

// durationCode renders whole minutes and seconds as MMSS.
func durationCode(seconds float64) string {
	total := roundSeconds(seconds)
	return fmt.Sprintf("%02d%02d", total/60, total%60)
}

// CreatedAt renders a session timestamp the way note frontmatter stores it.
func CreatedAt(timestamp string) (string, error) {
	t, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return "", fmt.Errorf("parse session timestamp %q: %w", timestamp, err)
	}
	return t.Format(createdLayout), nil
}

// FormatClock renders seconds as M:SS, or H:MM:SS from one hour up.
func FormatClock(seconds float64) string {
	total := roundSeconds(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(seconds float64) string {
	total := roundSeconds(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Disambiguate returns prefix unchanged when taken reports it free, otherwise
// the first free prefix-2, prefix-3, ...
func Disambiguate(prefix string, taken func(string) bool) string {
	if !taken(prefix) {
		return prefix
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", prefix, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// ArchiveName is the archived source name, e.g. <prefix>_transcript.wav.
func ArchiveName(prefix, kind, ext string) string {
	return prefix + "_" + kind + strings.ToLower(ext)
}

// NoteName is the final Markdown name, e.g. <prefix>_transcript.md.
func NoteName(prefix, kind string) string {
	return prefix + "_" + kind + ".md"
}

// ErrorNoteName is the failure report name, e.g. <prefix>_transcript_error.md.
func ErrorNoteName(prefix, kind string) string {
	return prefix + "_" + kind + "_error.md"
}

// FormattedName is the transient timestamped-lines file.
func FormattedName(prefix string) string {
	return prefix + "_formatted.txt"
}

// VaultLink renders an Obsidian-style link [[target|label]].
func VaultLink(target, label string) string {
	if label == "" || label == target {
		return "[[" + target + "]]"
	}
	return "[[" + target + "|" + label + "]]"
}

func roundSeconds(seconds float64) int {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int(math.RoundToEven(seconds))
}
