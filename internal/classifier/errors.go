package classifier

import "errors"

var (
	// ErrRateLimited means the provider refused the call for quota reasons.
	ErrRateLimited = errors.New("classifier: rate limited")
	// ErrNoAPIKey means no key is configured for the provider.
	ErrNoAPIKey = errors.New("classifier: no api key")
	// ErrNotObject means the model answered with something other than a JSON object.
	ErrNotObject = errors.New("classifier: response is not a JSON object")
)
