package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNoJSONObject means the model reply contained no brace-delimited span.
	ErrNoJSONObject = errors.New("no JSON object found in model response")
	// ErrMalformedJSON means a span was found but did not decode.
	ErrMalformedJSON = errors.New("malformed JSON object in model response")
)

// Greedy span from the first '{' to the last '}'. The model wraps its answer
// in prose or markdown fences; this strips the wrapping without caring what
// shape the fencing takes.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseFields locates the brace-delimited JSON object in the model's free-form
// reply and decodes it into a field mapping. The key set is not validated
// here; the extraction prompt owns the shape of the answer.
func ParseFields(raw string) (map[string]string, error) {
	span := jsonSpanRe.FindString(raw)
	if span == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoJSONObject, truncate(raw, 120))
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return fields, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
