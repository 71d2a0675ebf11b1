package model

// Stage identifies one step of the server-enforced approval sequence.
type Stage string

// Approval stages in the order a request passes through them.
const (
	StageInitialReview     Stage = "initial_review"
	StageOfficerReview     Stage = "officer_review"
	StageFinalReview       Stage = "final_review"
	StageDirectorReview    Stage = "director_review"
	StageExecutiveApproval Stage = "executive_approval"
)

//nolint:gochecknoglobals // Fixed lookup table.
var stageLabels = map[Stage]string{
	StageInitialReview:     "Initial Review",
	StageOfficerReview:     "Officer Review",
	StageFinalReview:       "Final Review",
	StageDirectorReview:    "Director Review",
	StageExecutiveApproval: "Executive Approval",
}

// Stages returns the approval stages in order.
func Stages() []Stage {
	return []Stage{
		StageInitialReview,
		StageOfficerReview,
		StageFinalReview,
		StageDirectorReview,
		StageExecutiveApproval,
	}
}

// StageLabel returns the display label for a stage identifier. Unknown
// identifiers are returned unchanged.
func StageLabel(id string) string {
	if label, ok := stageLabels[Stage(id)]; ok {
		return label
	}
	return id
}

// StageIndex returns the 0-based position of id in the approval order, or -1.
func StageIndex(id string) int {
	for i, s := range Stages() {
		if string(s) == id {
			return i
		}
	}
	return -1
}
