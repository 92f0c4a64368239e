package core

import "fmt"

// Stage represents a step in the audit pipeline.
type Stage string

const (
	// StageCollect runs every evidence collector concurrently.
	StageCollect Stage = "collect"

	// StageRoute flattens the merged evidence and decides whether
	// there is anything to judge.
	StageRoute Stage = "route"

	// StageJudge runs every opinion generator against the frozen evidence.
	StageJudge Stage = "judge"

	// StageSynthesize reduces opinions into the final report.
	StageSynthesize Stage = "synthesize"

	// StageDone is the terminal state after the report exists.
	// It is NOT an executable stage.
	StageDone Stage = "done"
)

// AllStages returns all executable stages in order.
func AllStages() []Stage {
	return []Stage{StageCollect, StageRoute, StageJudge, StageSynthesize}
}

// StageOrder returns the numeric order of a stage (0-indexed).
func StageOrder(s Stage) int {
	switch s {
	case StageCollect:
		return 0
	case StageRoute:
		return 1
	case StageJudge:
		return 2
	case StageSynthesize:
		return 3
	case StageDone:
		return 4
	default:
		return -1
	}
}

// NextStage returns the stage following the given stage.
// Returns empty string if the stage is the last.
func NextStage(s Stage) Stage {
	switch s {
	case StageCollect:
		return StageRoute
	case StageRoute:
		return StageJudge
	case StageJudge:
		return StageSynthesize
	default:
		return ""
	}
}

// ValidStage checks if a stage string is valid.
func ValidStage(s Stage) bool {
	switch s {
	case StageCollect, StageRoute, StageJudge, StageSynthesize, StageDone:
		return true
	default:
		return false
	}
}

// ParseStage converts a string to a Stage with validation.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !ValidStage(st) {
		return "", fmt.Errorf("invalid stage: %s", s)
	}
	return st, nil
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// Description returns a human-readable description of the stage.
func (s Stage) Description() string {
	switch s {
	case StageCollect:
		return "Collect evidence from the repository and the document"
	case StageRoute:
		return "Flatten evidence and route to judging or early exit"
	case StageJudge:
		return "Gather one opinion per stance"
	case StageSynthesize:
		return "Resolve opinions into per-criterion verdicts"
	case StageDone:
		return "Audit report produced"
	default:
		return "Unknown stage"
	}
}
