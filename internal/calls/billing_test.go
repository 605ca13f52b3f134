package calls

import "testing"

func TestBilledMinutes(t *testing.T) {
	cases := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{59, 1},
		{60, 1},
		{61, 2},
		{119, 2},
		{120, 2},
		{125, 3},
		{3600, 60},
	}
	for _, c := range cases {
		if got := BilledMinutes(c.seconds); got != c.want {
			t.Errorf("BilledMinutes(%d) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

func TestTotalCostPaise(t *testing.T) {
	// 125s at Rs 25/min bills 3 minutes = 7500 paise.
	if got := TotalCostPaise(BilledMinutes(125), 2500); got != 7500 {
		t.Fatalf("expected 7500, got %d", got)
	}
	if got := TotalCostPaise(0, 2500); got != 0 {
		t.Fatalf("zero minutes must cost zero, got %d", got)
	}
}

func TestSharePaise(t *testing.T) {
	if got := SharePaise(7500, 80); got != 6000 {
		t.Fatalf("expected 6000, got %d", got)
	}
	// Floor division: the platform keeps the rounding remainder.
	if got := SharePaise(101, 80); got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}
	if got := SharePaise(0, 80); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
