package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripkit-ai/tripkit/dialog"
	"github.com/tripkit-ai/tripkit/tools"
)

func TestLoopGuard_TwoConsecutiveTieBreakersTrip(t *testing.T) {
	g := &dialog.LoopGuard{}

	g.Record(tools.ToolPlanTimeline)
	assert.False(t, g.Tripped())

	g.Record(tools.ToolOptimizeRoute)
	assert.True(t, g.Tripped())
}

func TestLoopGuard_InterveningToolResets(t *testing.T) {
	g := &dialog.LoopGuard{}

	g.Record(tools.ToolPlanTimeline)
	g.Record(tools.ToolFindPlace)
	g.Record(tools.ToolPlanTimeline)

	assert.False(t, g.Tripped())
}

func TestLoopGuard_StaysTripped(t *testing.T) {
	g := &dialog.LoopGuard{}

	g.Record(tools.ToolPlanTimeline)
	g.Record(tools.ToolPlanTimeline)
	g.Record(tools.ToolFindPlace)

	assert.True(t, g.Tripped())
}
