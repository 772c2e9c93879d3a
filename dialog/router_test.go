package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripkit-ai/tripkit/dialog"
	"github.com/tripkit-ai/tripkit/trip"
)

func TestRoute_PlanningStage(t *testing.T) {
	sess := trip.NewSession("Busan", 2, 3)

	assert.Equal(t, dialog.BehaviorPlanner, dialog.Route(sess, "plan my first day"))
	assert.Equal(t, dialog.BehaviorPlanner, dialog.Route(sess, "what should I see?"))
}

func TestRoute_EditIntentPullsEditor(t *testing.T) {
	sess := trip.NewSession("Busan", 2, 3)

	tests := []string{
		"please remove the market from day 1",
		"change the cafe to something quieter",
		"swap the beach for a museum",
		"해운대 삭제해줘",
		"카페를 다른 곳으로 바꿔줘",
	}
	for _, msg := range tests {
		assert.Equal(t, dialog.BehaviorEditor, dialog.Route(sess, msg), "message: %s", msg)
	}
}

func TestRoute_EditingStageIsSticky(t *testing.T) {
	sess := trip.NewSession("Busan", 2, 3)
	sess.Stage = trip.StageEditing

	// Even a plain planning-sounding message stays with the editor.
	assert.Equal(t, dialog.BehaviorEditor, dialog.Route(sess, "what should I see?"))
}

func TestHasEditIntent(t *testing.T) {
	assert.True(t, dialog.HasEditIntent("Remove that one"))
	assert.True(t, dialog.HasEditIntent("could you ADD a cafe"))
	assert.False(t, dialog.HasEditIntent("looks great, thanks"))
}

func TestBehaviorCapability(t *testing.T) {
	assert.Equal(t, "planner", dialog.BehaviorPlanner.Capability())
	assert.Equal(t, "editor", dialog.BehaviorEditor.Capability())
}
