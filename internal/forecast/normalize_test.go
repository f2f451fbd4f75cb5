package forecast

import (
	"math"
	"testing"
)

func TestCardinalDirection(t *testing.T) {
	tests := []struct {
		name    string
		degrees float64
		want    string
	}{
		{"due north", 0, "N"},
		{"upper edge of north bucket", 11.2, "N"},
		{"lower edge of NNE bucket", 11.3, "NNE"},
		{"due east", 90, "E"},
		{"due south", 180, "S"},
		{"due west", 270, "W"},
		{"NNW center", 337.5, "NNW"},
		{"wraps back to north", 355, "N"},
		{"exactly 360", 360, "N"},
		{"negative bearing", -90, "W"},
		{"large positive", 720 + 45, "NE"},
		{"large negative", -720 - 45, "NW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardinalDirection(tt.degrees); got != tt.want {
				t.Errorf("CardinalDirection(%v) = %q, want %q", tt.degrees, got, tt.want)
			}
		})
	}
}

func TestCardinalDirectionPeriodicity(t *testing.T) {
	for d := 0.0; d < 360; d += 7.3 {
		base := CardinalDirection(d)
		for _, k := range []float64{-2, -1, 1, 3} {
			if got := CardinalDirection(d + 360*k); got != base {
				t.Errorf("CardinalDirection(%v + 360*%v) = %q, want %q", d, k, got, base)
			}
		}
	}
}

func TestWindSeverity(t *testing.T) {
	tests := []struct {
		speed float64
		want  Severity
	}{
		{0, SeverityLight},
		{4.9, SeverityLight},
		{5, SeverityModerate},
		{11.9, SeverityModerate},
		{12, SeverityStrong},
		{19.9, SeverityStrong},
		{20, SeverityVeryStrong},
		{35, SeverityVeryStrong},
		{-8, SeverityModerate}, // magnitude
	}
	for _, tt := range tests {
		if got := WindSeverity(tt.speed); got != tt.want {
			t.Errorf("WindSeverity(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestAngularDistance(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, 180, 180},
		{350, 10, 20},
		{10, 350, 20},
		{90, 270, 180},
		{-10, 10, 20},
	}
	for _, tt := range tests {
		if got := AngularDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngularDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestInArcWraparound(t *testing.T) {
	// Arc from 350 through north to 30.
	for _, d := range []float64{350, 355, 0, 15, 30} {
		if !InArc(d, 350, 30) {
			t.Errorf("InArc(%v, 350, 30) = false, want true", d)
		}
	}
	for _, d := range []float64{31, 180, 349} {
		if InArc(d, 350, 30) {
			t.Errorf("InArc(%v, 350, 30) = true, want false", d)
		}
	}
}

func TestDistanceFromArc(t *testing.T) {
	if got := DistanceFromArc(0, 350, 30); got != 0 {
		t.Errorf("distance inside wrapped arc = %v, want 0", got)
	}
	if got := DistanceFromArc(45, 350, 30); math.Abs(got-15) > 1e-9 {
		t.Errorf("DistanceFromArc(45, 350, 30) = %v, want 15", got)
	}
	if got := DistanceFromArc(340, 350, 30); math.Abs(got-10) > 1e-9 {
		t.Errorf("DistanceFromArc(340, 350, 30) = %v, want 10", got)
	}
}
