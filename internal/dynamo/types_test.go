package dynamo

import (
	"math"
	"sync/atomic"
	"testing"
)

func TestStateBatchClone(t *testing.T) {
	b := StateBatch{{1, 2, 3, 4}}
	c := b.Clone()

	c[0][0] = 99
	if b[0][0] != 1 {
		t.Error("clone shares storage with original")
	}
}

func TestStateBatchIsValid(t *testing.T) {
	if !(StateBatch{{1, 2, 3, 4}}).IsValid() {
		t.Error("finite batch reported invalid")
	}
	if (StateBatch{{1, math.NaN(), 3, 4}}).IsValid() {
		t.Error("NaN batch reported valid")
	}
	if (StateBatch{{1, 2, math.Inf(1), 4}}).IsValid() {
		t.Error("Inf batch reported valid")
	}
	if !(StateBatch{}).IsValid() {
		t.Error("empty batch should be trivially valid")
	}
}

func TestStateBatchNorm(t *testing.T) {
	b := StateBatch{{3, 0, 0, 0}, {0, 4, 0, 0}}
	if got := b.Norm(); got != 5 {
		t.Errorf("expected norm 5, got %v", got)
	}
}

func TestStateBatchComponent(t *testing.T) {
	b := StateBatch{{1, 2, 3, 4}, {5, 6, 7, 8}}
	z3 := b.Component(2)
	if len(z3) != 2 || z3[0] != 3 || z3[1] != 7 {
		t.Errorf("expected [3 7], got %v", z3)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 5000} {
		var total int64
		ParallelFor(n, 16, func(start, end int) {
			atomic.AddInt64(&total, int64(end-start))
		})
		if total != int64(n) {
			t.Errorf("n=%d: covered %d rows", n, total)
		}
	}
}

func TestParallelForDisjoint(t *testing.T) {
	n := 4096
	hits := make([]int32, n)
	ParallelFor(n, 64, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("row %d visited %d times", i, h)
		}
	}
}
