package enricher

// Outcome is what CheckNote did with a note.
type Outcome string

const (
	OutcomeLLMInvoked       Outcome = "llm_invoked"
	OutcomeSkippedComplete  Outcome = "skipped_complete"
	OutcomeSkippedNoKey     Outcome = "skipped_no_key"
	OutcomeSkippedNoPrompt  Outcome = "skipped_no_prompt"
	OutcomeSkippedMalformed Outcome = "skipped_malformed"
	OutcomeSkippedErrorNote Outcome = "skipped_error_note"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeFailed           Outcome = "failed"
)

// Result describes one CheckNote call.
type Result struct {
	Note         string
	RequiredKeys []string
	MissingKeys  []string
	Outcome      Outcome
	Err          error
}

// LLMInvoked reports whether the note was updated from a classifier answer.
func (r Result) LLMInvoked() bool { return r.Outcome == OutcomeLLMInvoked }

// RateLimited reports whether the classifier refused the call for quota reasons.
func (r Result) RateLimited() bool { return r.Outcome == OutcomeRateLimited }

// SweepReport summarises one pass over the output directory.
type SweepReport struct {
	Results []Result
	// Aborted is set when the sweep stopped early on a rate limit.
	Aborted bool
}

// Count returns how many results had outcome o.
func (s SweepReport) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
