package classifier

import "context"

// Classifier asks an LLM for a JSON object of metadata keys.
type Classifier interface {
	// Classify sends the system and user prompts and returns the decoded
	// JSON object. A rate-limit answer returns an error wrapping
	// ErrRateLimited.
	Classify(ctx context.Context, system, user string) (map[string]interface{}, error)
}
