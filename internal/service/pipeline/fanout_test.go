package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFanOut_ResultSlotsAndLimit(t *testing.T) {
	var running, peak atomic.Int32
	tasks := make([]task[int], 6)
	for i := range tasks {
		tasks[i] = func(context.Context) int {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Duration(6-i) * 3 * time.Millisecond)
			running.Add(-1)
			return i * 10
		}
	}

	got := fanOut(context.Background(), 2, tasks)
	if diff := cmp.Diff([]int{0, 10, 20, 30, 40, 50}, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestFanOut_Empty(t *testing.T) {
	if got := fanOut[int](context.Background(), 0, nil); len(got) != 0 {
		t.Errorf("fanOut(nil) = %v", got)
	}
}
