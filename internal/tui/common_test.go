package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/grantdesk/internal/loader"
)

func TestDetectOutputMode(t *testing.T) {
	assert.Equal(t, OutputInteractive, DetectOutputMode(true))

	t.Setenv("CI", "true")
	assert.Equal(t, OutputPlain, DetectOutputMode(false))
}

func TestRenderStageProgress(t *testing.T) {
	out := RenderStageProgress("final_review")
	assert.Contains(t, out, IconDone+" Initial Review")
	assert.Contains(t, out, IconCurrent+" Final Review")
	assert.Contains(t, out, IconPending+" Executive Approval")

	assert.Contains(t, RenderStageProgress("archived"), "archived")
	assert.Contains(t, RenderStageProgress(""), "No workflow stage")
}

func TestRenderTimeline_Empty(t *testing.T) {
	assert.Contains(t, RenderTimeline(nil), "No activity yet.")
	assert.Contains(t, RenderTimeline([]loader.TimelineEvent{{Text: "Request GR-1 submitted", Actor: "Dana"}}), "(Dana)")
}

func TestRenderLoading(t *testing.T) {
	assert.Equal(t, "Loading...", RenderLoading(nil))
	assert.Contains(t, RenderLoading(NewLoadingState("Fetching")), "Fetching")
}
