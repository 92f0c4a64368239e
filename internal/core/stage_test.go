package core

import "testing"

func TestStage_Order(t *testing.T) {
	for i, stage := range AllStages() {
		if StageOrder(stage) != i {
			t.Fatalf("expected %s at order %d, got %d", stage, i, StageOrder(stage))
		}
	}
	if StageOrder(StageDone) != 4 {
		t.Fatalf("expected done order 4")
	}
	if StageOrder("invalid") != -1 {
		t.Fatalf("expected invalid stage order -1")
	}
}

func TestStage_Navigation(t *testing.T) {
	if NextStage(StageCollect) != StageRoute {
		t.Fatalf("expected route after collect")
	}
	if NextStage(StageJudge) != StageSynthesize {
		t.Fatalf("expected synthesize after judge")
	}
	if NextStage(StageSynthesize) != "" {
		t.Fatalf("expected no stage after synthesize")
	}
}

func TestStage_Parse(t *testing.T) {
	s, err := ParseStage("judge")
	if err != nil {
		t.Fatalf("unexpected error parsing stage: %v", err)
	}
	if s != StageJudge {
		t.Fatalf("expected judge stage, got %s", s)
	}
	if _, err := ParseStage("deliberate"); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}

func TestStage_Description(t *testing.T) {
	for _, stage := range append(AllStages(), StageDone) {
		if stage.Description() == "Unknown stage" {
			t.Fatalf("missing description for %s", stage)
		}
	}
}
