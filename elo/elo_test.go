package elo

import (
	"math"
	"testing"
)

func TestKFactor(t *testing.T) {
	tests := []struct {
		games int
		want  float64
	}{
		{0, 32},
		{1, 32},
		{25, 32},
		{50, 16},
		{400, 2},
		{10000, 2},
	}
	for _, tc := range tests {
		if got := KFactor(tc.games); got != tc.want {
			t.Errorf("KFactor(%d)=%v want %v", tc.games, got, tc.want)
		}
	}
}

func TestExpected(t *testing.T) {
	if got := Expected(1500, 1500); got != 0.5 {
		t.Fatalf("even match expectation=%v", got)
	}
	if got := Expected(1700, 1500); got <= 0.5 {
		t.Fatalf("favorite expectation=%v", got)
	}
	stronger := Expected(1700, 1500)
	if math.Abs(stronger+Expected(1500, 1700)-1) > 1e-12 {
		t.Fatal("expectations should sum to one")
	}
}

func TestUpdate(t *testing.T) {
	a, b := Update(1500, 1500, 1, 32)
	if a != 1516 || b != 1484 {
		t.Fatalf("got %v, %v want 1516, 1484", a, b)
	}

	// Zero-sum above the floor.
	a, b = Update(1620, 1380, 0, 16)
	if math.Abs((a-1620)+(b-1380)) > 1e-9 {
		t.Fatalf("update not zero-sum: %v, %v", a, b)
	}
	if a >= 1620 || b <= 1380 {
		t.Fatalf("upset should transfer points: %v, %v", a, b)
	}
}

func TestUpdateFloor(t *testing.T) {
	a, _ := Update(MinRating, 2000, 0, 32)
	if a != MinRating {
		t.Fatalf("rating %v fell below the floor", a)
	}
}

func TestUpdateMultiplayer(t *testing.T) {
	ranks := []int{1, 2, 3, 4}
	ratings := []float64{1500, 1500, 1500, 1500}

	out, err := UpdateMultiplayer(ranks, ratings, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(out); i++ {
		if out[i-1] <= out[i] {
			t.Fatalf("ratings should follow ranks: %v", out)
		}
	}

	sum := 0.0
	for _, r := range out {
		sum += r - 1500
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("pairwise updates should be zero-sum, off by %v", sum)
	}
}

func TestUpdateMultiplayerDraw(t *testing.T) {
	out, err := UpdateMultiplayer([]int{1, 1}, []float64{1500, 1500}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1500 || out[1] != 1500 {
		t.Fatalf("even draw should not move ratings: %v", out)
	}
}

func TestUpdateMultiplayerLengthMismatch(t *testing.T) {
	if _, err := UpdateMultiplayer([]int{1}, []float64{1500, 1500}, 0); err == nil {
		t.Fatal("want error on length mismatch")
	}
}
