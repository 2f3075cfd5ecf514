package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Contains(t, cfg.Tasks, TaskSuggest)
}

func TestTaskTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8*time.Second, cfg.TaskTimeout(TaskSuggest))

	cfg.Tasks = nil
	cfg.TimeoutMs = 2500
	assert.Equal(t, 2500*time.Millisecond, cfg.TaskTimeout(TaskSuggest))

	cfg.TimeoutMs = 0
	assert.Equal(t, 10*time.Second, cfg.TaskTimeout("unknown"))
}
