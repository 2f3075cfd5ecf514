package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar draws pct (0-100) as a bar of width cells coloured by status.
func RenderBar(pct float64, status domain.ProgressStatus, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(progress.Clamp(pct) / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return StatusStyle(status).Render(bar)
}

// RenderProgress is a bar followed by the one-decimal percentage.
func RenderProgress(pct float64, status domain.ProgressStatus, width int) string {
	return fmt.Sprintf("%s %6s", RenderBar(pct, status, width), progress.FormatPercent(pct))
}
