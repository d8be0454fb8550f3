package scene

import (
	"log/slog"

	"github.com/ivlev/xlidst/internal/raster"
	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/texture"
	"github.com/ivlev/xlidst/internal/typst"
)

// Env carries the collaborators needed to turn payloads into images.
type Env struct {
	Sandbox  *sandbox.Sandbox
	Compiler typst.Compiler
	Sink     texture.Sink
	// Policy defaults to raster.DefaultPolicy when zero.
	Policy raster.Policy
	// Workers bounds parallel rasterization. Zero or less means one.
	Workers int
	// Logger defaults to discarding output.
	Logger *slog.Logger
}

func (e *Env) policy() raster.Policy {
	if e.Policy == (raster.Policy{}) {
		return raster.DefaultPolicy
	}
	return e.Policy
}

func (e *Env) workers() int {
	if e.Workers <= 0 {
		return 1
	}
	return e.Workers
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
