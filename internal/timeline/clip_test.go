package timeline

import "testing"

func TestVideoClipDuration(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		end   int64
		speed float64
		want  int64
	}{
		{"unit speed", 0, 1000, 1, 1000},
		{"double speed halves duration", 0, 1000, 2, 500},
		{"half speed doubles duration", 0, 1000, 0.5, 2000},
		{"trimmed window", 200, 700, 1, 500},
		{"rounding", 0, 1000, 3, 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewVideoClip("media://a", tt.start, tt.end, 0, tt.speed)
			if got := c.Duration(); got != tt.want {
				t.Errorf("Duration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewVideoClipNormalizesSpeed(t *testing.T) {
	c := NewVideoClip("media://a", 0, 100, 0, 0)
	if c.Speed != 1 {
		t.Errorf("Speed = %g, want 1", c.Speed)
	}
	c = NewVideoClip("media://a", 0, 100, 0, -2)
	if c.Speed != 1 {
		t.Errorf("Speed = %g, want 1", c.Speed)
	}
}

func TestVideoClipRange(t *testing.T) {
	c := NewVideoClip("media://a", 100, 600, 2000, 1)
	r := c.Range()
	if r.Start != 2000 || r.End != 2500 {
		t.Errorf("Range() = %+v, want [2000, 2500)", r)
	}
}

func TestVideoClipWithCopies(t *testing.T) {
	orig := NewVideoClip("media://a", 0, 1000, 500, 1)

	trimmed := orig.WithTrim(100, 900)
	if trimmed.StartTime != 100 || trimmed.EndTime != 900 {
		t.Errorf("WithTrim window = [%d, %d], want [100, 900]", trimmed.StartTime, trimmed.EndTime)
	}
	if orig.StartTime != 0 || orig.EndTime != 1000 {
		t.Error("WithTrim mutated the original")
	}

	moved := orig.WithPosition(9000)
	if moved.Position != 9000 || orig.Position != 500 {
		t.Error("WithPosition did not copy")
	}

	fast := orig.WithSpeed(2)
	if fast.Speed != 2 || orig.Speed != 1 {
		t.Error("WithSpeed did not copy")
	}
}

func TestVideoClipCloneGetsFreshIdentity(t *testing.T) {
	orig := NewVideoClip("media://a", 0, 1000, 0, 1.5)
	clone := orig.Clone()
	if clone.ID == orig.ID {
		t.Error("Clone kept the original identity")
	}
	if clone.Source != orig.Source || clone.StartTime != orig.StartTime ||
		clone.EndTime != orig.EndTime || clone.Speed != orig.Speed {
		t.Error("Clone changed fields other than the ID")
	}
}

func TestScaleDuration(t *testing.T) {
	if got := ScaleDuration(1000, 0); got != 1000 {
		t.Errorf("ScaleDuration with zero speed = %d, want 1000", got)
	}
	if got := ScaleDuration(999, 2); got != 500 {
		t.Errorf("ScaleDuration(999, 2) = %d, want 500 (round half up)", got)
	}
}
