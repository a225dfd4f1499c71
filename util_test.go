package main

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{
		0:                0,
		math.Pi / 2:      math.Pi / 2,
		3 * math.Pi / 2:  -math.Pi / 2,
		-7 * math.Pi / 4: math.Pi / 4,
		5 * math.Pi / 2:  math.Pi / 2,
	}
	for in, want := range cases {
		if got := NormalizeAngle(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", in, got, want)
		}
	}
	if got := NormalizeAngle(math.NaN()); got != 0 {
		t.Errorf("NaN should normalize to 0, got %v", got)
	}
	if got := NormalizeAngle(math.Inf(1)); got != 0 {
		t.Errorf("Inf should normalize to 0, got %v", got)
	}
}

func TestClampInput(t *testing.T) {
	if ClampInput(5) != 1 || ClampInput(-5) != -1 || ClampInput(0.25) != 0.25 {
		t.Error("input not clamped to [-1, 1]")
	}
	if ClampInput(math.NaN()) != 0 {
		t.Error("NaN input should become 0")
	}
}

func TestGenerateIDNonZero(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == 0 {
			t.Fatal("GenerateID returned 0")
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}
