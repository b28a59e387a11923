package scoring

import "testing"

func TestCOIPoints(t *testing.T) {
	tests := []struct {
		maxPoints  int
		confidence float64
		want       int
	}{
		{20, 0.95, 18}, // capped at 0.9
		{20, 0.9, 18},
		{10, 0.65, 7}, // 6.5 rounds up
		{10, 0.45, 5},
		{18, 0.85, 15},
		{0, 1.0, 0},
	}
	for _, tt := range tests {
		if got := COIPoints(tt.maxPoints, tt.confidence); got != tt.want {
			t.Errorf("COIPoints(%d, %v) = %d, want %d", tt.maxPoints, tt.confidence, got, tt.want)
		}
	}
}

func TestGenericPoints(t *testing.T) {
	tests := []struct {
		maxPoints  int
		confidence float64
		want       int
	}{
		{10, 0.95, 8}, // capped at 0.8
		{10, 0.55, 6}, // 5.5 rounds up
		{5, 0.55, 3},
		{15, 0.8, 12},
	}
	for _, tt := range tests {
		if got := GenericPoints(tt.maxPoints, tt.confidence); got != tt.want {
			t.Errorf("GenericPoints(%d, %v) = %d, want %d", tt.maxPoints, tt.confidence, got, tt.want)
		}
	}
}

func TestFailurePoints(t *testing.T) {
	if got := COIFailurePoints(20); got != 6 {
		t.Errorf("COIFailurePoints(20) = %d, want 6", got)
	}
	if got := COIFailurePoints(10); got != 3 {
		t.Errorf("COIFailurePoints(10) = %d, want 3", got)
	}
	if got := GenericFailurePoints(10); got != 2 {
		t.Errorf("GenericFailurePoints(10) = %d, want 2", got)
	}
	if got := GenericFailurePoints(5); got != 1 {
		t.Errorf("GenericFailurePoints(5) = %d, want 1", got)
	}
}
