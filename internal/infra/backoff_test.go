package infra

import (
	"testing"
	"time"
)

func TestCalculateBackoffGrowth(t *testing.T) {
	for retry := 0; retry < 12; retry++ {
		base := backoffBase << uint(retry)
		if base > backoffMax || base <= 0 {
			base = backoffMax
		}
		for i := 0; i < 50; i++ {
			d := CalculateBackoff(retry)
			if d < base {
				t.Fatalf("retry %d: delay %v below base %v", retry, d, base)
			}
			if d > base+base/5 {
				t.Fatalf("retry %d: delay %v exceeds base plus 20%% jitter", retry, d)
			}
		}
	}
}

func TestCalculateBackoffCap(t *testing.T) {
	d := CalculateBackoff(100)
	if d > backoffMax+backoffMax/5 {
		t.Errorf("overflowing retry count must stay capped, got %v", d)
	}
	if d < backoffMax {
		t.Errorf("large retry count should hit the cap, got %v", d)
	}
}

func TestCalculateBackoffNegativeRetry(t *testing.T) {
	d := CalculateBackoff(-5)
	if d < time.Second || d > time.Second+time.Second/5 {
		t.Errorf("negative retry treats as first attempt, got %v", d)
	}
}
