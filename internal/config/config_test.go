package config

import "testing"

func TestSegmentFrames(t *testing.T) {
	tests := []struct {
		duration float64
		fps      int
		want     int
	}{
		{2.0, 30, 60},
		{0.5, 24, 12},
		{0.01, 30, 1},
		{0, 30, 1},
	}
	for _, tt := range tests {
		p := SegmentParams{Duration: tt.duration, FPS: tt.fps}
		if got := p.Frames(); got != tt.want {
			t.Errorf("Frames(%v@%d) = %d, want %d", tt.duration, tt.fps, got, tt.want)
		}
	}
}

func TestDefaultQuality(t *testing.T) {
	if q := DefaultQuality("libx264"); q != 23 {
		t.Errorf("libx264 quality = %d, want 23", q)
	}
	if q := DefaultQuality("h264_videotoolbox"); q != 75 {
		t.Errorf("videotoolbox quality = %d, want 75", q)
	}
}
