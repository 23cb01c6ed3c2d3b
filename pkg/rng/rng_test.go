package rng

import "testing"

func TestNewSeeded_Reproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 50; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d out of range: %v", i, x)
		}
	}
}

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func TestIntn(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		n    int
		want int
	}{
		{"zero n", fixed(0.5), 0, 0},
		{"low", fixed(0), 4, 0},
		{"mid", fixed(0.5), 4, 2},
		{"high edge", fixed(0.9999999), 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intn(tt.src, tt.n); got != tt.want {
				t.Errorf("Intn() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPickMany_Distinct(t *testing.T) {
	src := NewSeeded(7)
	list := []string{"a", "b", "c", "d", "e"}
	got := PickMany(src, list, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Errorf("duplicate pick %q", v)
		}
		seen[v] = true
	}
	if len(PickMany(src, list, 10)) != 5 {
		t.Error("count should clamp to list length")
	}
	if PickMany(src, []string{}, 2) != nil {
		t.Error("empty list should yield nil")
	}
}

func TestPick_Empty(t *testing.T) {
	if _, ok := Pick(Default(), []int{}); ok {
		t.Error("expected no pick from empty list")
	}
}
