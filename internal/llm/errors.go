package llm

import "errors"

var (
	// ErrDisabled is returned when generation is requested with the LLM
	// turned off in configuration.
	ErrDisabled = errors.New("llm disabled")

	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout indicates every attempt exceeded the task timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structure.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted wraps the last error once all attempts have failed.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// errorCode is the short label reported to observers.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrDisabled):
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}
