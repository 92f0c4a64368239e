package verdict

import (
	"testing"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
)

func FuzzFinalScoreAndDissent(f *testing.F) {
	f.Add(2, 2, 5, uint8(7))
	f.Add(1, 5, 4, uint8(7))
	f.Add(3, 3, 3, uint8(1))
	f.Add(-4, 12, 0, uint8(5))
	f.Add(1, 1, 1, uint8(0))

	s := NewSynthesizer()
	f.Fuzz(func(t *testing.T, p, d, tl int, mask uint8) {
		var opinions []core.Opinion
		if mask&1 != 0 {
			opinions = append(opinions, core.Opinion{Judge: core.StanceProsecutor, Score: core.ClampScore(p)})
		}
		if mask&2 != 0 {
			opinions = append(opinions, core.Opinion{Judge: core.StanceDefense, Score: core.ClampScore(d)})
		}
		if mask&4 != 0 {
			opinions = append(opinions, core.Opinion{Judge: core.StanceTechLead, Score: core.ClampScore(tl)})
		}

		score := FinalScore(opinions)
		if score < core.MinScore || score > core.MaxScore {
			t.Fatalf("final score out of range: %d", score)
		}
		if len(opinions) == 0 && score != core.MinScore {
			t.Fatalf("empty opinions scored %d", score)
		}

		lo, hi := core.MaxScore, core.MinScore
		for _, op := range opinions {
			lo = min(lo, op.Score)
			hi = max(hi, op.Score)
		}
		flagged := s.Dissent(opinions) != ""
		want := len(opinions) >= 2 && hi-lo >= DefaultDissentThreshold
		if flagged != want {
			t.Fatalf("dissent = %v, want %v for %+v", flagged, want, opinions)
		}
	})
}
