package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputePace_Midway(t *testing.T) {
	target := date("2026-04-11")
	p, ok := ComputePace(date("2026-01-01"), &target, 20, date("2026-02-20"))
	require.True(t, ok)
	assert.InDelta(t, 50.0, p.ElapsedPct, 0.01)
	assert.Equal(t, 20.0, p.ProgressPct)
	assert.Equal(t, 50, p.DaysLeft)
	assert.True(t, p.Behind())
	assert.InDelta(t, 30.0, p.Gap(), 0.01)
}

func TestComputePace_WithinTolerance(t *testing.T) {
	target := date("2026-04-11")
	p, ok := ComputePace(date("2026-01-01"), &target, 45, date("2026-02-20"))
	require.True(t, ok)
	assert.False(t, p.Behind())
}

func TestComputePace_PastTargetClamps(t *testing.T) {
	target := date("2026-03-31")
	p, ok := ComputePace(date("2026-01-01"), &target, 60, date("2026-05-01"))
	require.True(t, ok)
	assert.Equal(t, 100.0, p.ElapsedPct)
	assert.Equal(t, 0, p.DaysLeft)
	assert.True(t, p.Behind())
}

func TestComputePace_NotStartedYet(t *testing.T) {
	target := date("2026-03-31")
	p, ok := ComputePace(date("2026-01-01"), &target, 0, date("2025-12-01"))
	require.True(t, ok)
	assert.Equal(t, 0.0, p.ElapsedPct)
	assert.False(t, p.Behind())
}

func TestComputePace_CompletedIsNeverBehind(t *testing.T) {
	target := date("2026-03-31")
	p, ok := ComputePace(date("2026-01-01"), &target, 100, date("2026-06-01"))
	require.True(t, ok)
	assert.False(t, p.Behind())
	assert.Equal(t, 0.0, p.Gap())
}

func TestComputePace_UnusableTimeline(t *testing.T) {
	start := date("2026-03-31")
	_, ok := ComputePace(start, nil, 10, start)
	assert.False(t, ok)

	before := date("2026-01-01")
	_, ok = ComputePace(start, &before, 10, start)
	assert.False(t, ok, "target before start")

	_, ok = ComputePace(time.Time{}, &start, 10, before)
	assert.False(t, ok, "zero start")
}
