package timeline

import "testing"

func TestNewTimeRangeSwapsReversedBounds(t *testing.T) {
	r := NewTimeRange(500, 100)
	if r.Start != 100 || r.End != 500 {
		t.Errorf("NewTimeRange(500, 100) = %+v, want [100, 500)", r)
	}
}

func TestTimeRangeContains(t *testing.T) {
	r := TimeRange{Start: 100, End: 200}

	tests := []struct {
		name string
		t    int64
		want bool
	}{
		{"before start", 99, false},
		{"at start", 100, true},
		{"interior", 150, true},
		{"at end", 200, false},
		{"after end", 201, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{"disjoint", TimeRange{0, 100}, TimeRange{200, 300}, false},
		{"touching", TimeRange{0, 100}, TimeRange{100, 200}, false},
		{"partial", TimeRange{0, 150}, TimeRange{100, 200}, true},
		{"nested", TimeRange{0, 300}, TimeRange{100, 200}, true},
		{"identical", TimeRange{50, 60}, TimeRange{50, 60}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRangeDuration(t *testing.T) {
	if d := (TimeRange{Start: 250, End: 1000}).Duration(); d != 750 {
		t.Errorf("Duration = %d, want 750", d)
	}
	if !(TimeRange{Start: 10, End: 10}).IsEmpty() {
		t.Error("zero-length range should be empty")
	}
}
