package gamemath

import (
	"math"
	"testing"
)

func TestDamp_SnapsToZero(t *testing.T) {
	if got := Damp(100, 0.5, 1); got != 50 {
		t.Errorf("Expected 50, got %v", got)
	}
	if got := Damp(1.5, 0.5, 1); got != 0 {
		t.Errorf("Expected snap to 0, got %v", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Expected NaN to clamp to 0, got %v", got)
	}
	if got := Clamp01(1.7); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := Clamp01(-0.2); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}

func TestClampSpeed(t *testing.T) {
	if got := ClampSpeed(12, 10); got != 10 {
		t.Errorf("Expected 10, got %v", got)
	}
	if got := ClampSpeed(-12, 10); got != -10 {
		t.Errorf("Expected -10, got %v", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.25); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
}
