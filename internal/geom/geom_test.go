// internal/geom/geom_test.go
package geom

import "testing"

func TestRotatedDimensions(t *testing.T) {
	tests := []struct {
		name     string
		w, h     float64
		rotation int
		wantW    float64
		wantH    float64
	}{
		{"zero", 100, 50, 0, 100, 50},
		{"quarter turn swaps", 100, 50, 90, 50, 100},
		{"half turn keeps", 100, 50, 180, 100, 50},
		{"three quarters swaps", 100, 50, 270, 50, 100},
		{"full turn keeps", 100, 50, 360, 100, 50},
		{"past full turn swaps", 100, 50, 450, 50, 100},
		{"square is invariant", 60, 60, 90, 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := RotatedDimensions(tt.w, tt.h, tt.rotation)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("RotatedDimensions(%v, %v, %d) = (%v, %v), want (%v, %v)",
					tt.w, tt.h, tt.rotation, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRotatedDimensionsPeriod(t *testing.T) {
	for r := 0; r < 360; r += 90 {
		w1, h1 := RotatedDimensions(120, 80, r)
		w2, h2 := RotatedDimensions(120, 80, r+360)
		if w1 != w2 || h1 != h2 {
			t.Errorf("rotation %d and %d disagree: (%v,%v) vs (%v,%v)", r, r+360, w1, h1, w2, h2)
		}
	}
}

func TestOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"contained", Rect{X: 10, Y: 10, Width: 20, Height: 20}, true},
		{"partial", Rect{X: 90, Y: 90, Width: 50, Height: 50}, true},
		{"edge contact right", Rect{X: 100, Y: 0, Width: 50, Height: 50}, false},
		{"edge contact below", Rect{X: 0, Y: 100, Width: 50, Height: 50}, false},
		{"disjoint", Rect{X: 200, Y: 200, Width: 10, Height: 10}, false},
		{"identical", base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(base, tt.other); got != tt.want {
				t.Errorf("Overlaps(%+v, %+v) = %v, want %v", base, tt.other, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.other, base); got != tt.want {
				t.Errorf("Overlaps(%+v, %+v) = %v, want %v", tt.other, base, got, tt.want)
			}
		})
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, step, want float64
	}{
		{23, 10, 20},
		{25, 10, 30},
		{-7, 10, -10},
		{-3, 10, 0},
		{40, 10, 40},
		{17, 0, 17},
	}
	for _, tt := range tests {
		if got := Snap(tt.v, tt.step); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Clamp high = %v, want 100", got)
	}
	if got := Clamp(-10, 0, 100); got != 0 {
		t.Errorf("Clamp low = %v, want 0", got)
	}
	// hi < lo: item larger than container; the lower bound wins.
	if got := Clamp(50, 0, -20); got != 0 {
		t.Errorf("Clamp inverted = %v, want 0", got)
	}
}
