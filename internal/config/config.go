package config

import "time"

// Mode selects what the engine does with a prepared show.
type Mode string

const (
	ModePresent Mode = "present"
	ModeExport  Mode = "export"
)

type Config struct {
	ShowPath          string
	Mode              Mode
	OutputVideo       string
	Title             string
	Width             int
	Height            int
	FPS               int
	Workers           int
	Fullscreen        bool
	SlideDuration     float64
	FadeDuration      float64
	TransitionType    string
	SlideDurations    []float64
	TypstBinary       string
	CompileTimeout    time.Duration
	Root              string
	FontPaths         []string
	IgnoreSystemFonts bool
	FontCacheDir      string
	VideoEncoder      string
	Quality           int
	ShowStats         bool
	Verbose           bool
	BuildVersion      string
}

// SegmentParams describes the clip rendered for one slide.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	SlideIndex    int
	VideoEncoder  string
	Quality       int
}

// Frames is the number of frames in a segment, at least one.
func (p SegmentParams) Frames() int {
	n := int(p.Duration*float64(p.FPS) + 0.5)
	return max(n, 1)
}

// DefaultQuality picks a quality value suited to the encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
