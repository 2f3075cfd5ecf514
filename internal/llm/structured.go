package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded value before it is handed to the caller.
type Validator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw into T. Models often wrap
// the object in prose or code fences, so decoding is attempted at every
// opening brace until one parses as a complete value.
func ExtractJSON[T any](raw string, validate Validator[T]) (T, error) {
	var zero T

	block, ok := firstJSONObject(raw)
	if !ok {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var out T
	if err := json.Unmarshal(block, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

func firstJSONObject(raw string) (json.RawMessage, bool) {
	for i := 0; i < len(raw); i++ {
		j := strings.IndexByte(raw[i:], '{')
		if j < 0 {
			return nil, false
		}
		i += j

		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var msg json.RawMessage
		if err := dec.Decode(&msg); err == nil && bytes.HasPrefix(msg, []byte("{")) {
			return msg, true
		}
	}
	return nil, false
}
