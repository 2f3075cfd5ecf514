package llm

import "time"

// TaskType identifies what a generation call is for. Each task carries its
// own sampling parameters and timeout.
type TaskType string

const (
	// TaskSuggest proposes weekly habits that move a key result.
	TaskSuggest TaskType = "suggest"
)

type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides Config.TimeoutMs when > 0
}

// Config is populated from the application config; the zero value is a
// disabled client.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig points at a local Ollama and leaves the LLM disabled.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggest: {Temperature: 0.4, MaxTokens: 768, TimeoutMs: 8000},
		},
	}
}

// TaskTimeout is the per-attempt timeout for task.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	ms := c.TimeoutMs
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		ms = tc.TimeoutMs
	}
	if ms <= 0 {
		ms = 10000
	}
	return time.Duration(ms) * time.Millisecond
}
