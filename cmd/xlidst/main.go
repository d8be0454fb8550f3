package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ivlev/xlidst/internal/config"
	"github.com/ivlev/xlidst/internal/engine"
	"github.com/ivlev/xlidst/internal/player"
	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/scene"
	"github.com/ivlev/xlidst/internal/system"
	"github.com/ivlev/xlidst/internal/texture"
	"github.com/ivlev/xlidst/internal/typst"
)

var buildVersion = "dev"

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }
func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var fontPaths listFlag

	showPtr := flag.String("show", "", "Show file (default: newest *.yaml in input/shows/, or the demo show)")
	demoPtr := flag.Bool("demo", false, "Present the built-in demo show")
	exportPtr := flag.Bool("export", false, "Export to video instead of opening a window")
	outputPtr := flag.String("output", "", "Video path (default: generated in output/)")
	widthPtr := flag.Int("width", 1280, "Window / video width")
	heightPtr := flag.Int("height", 720, "Window / video height")
	presetPtr := flag.String("preset", "", "Size preset: 16:9, 9:16, 4:3")
	fullscreenPtr := flag.Bool("fullscreen", false, "Start fullscreen")
	fpsPtr := flag.Int("fps", 30, "Export frame rate")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Rasterization workers")
	slideDurationPtr := flag.Float64("slide-duration", engine.DefaultSlideDuration, "Export duration of slides without one (seconds)")
	fadePtr := flag.Float64("fade", 0.5, "Transition duration (seconds)")
	transitionPtr := flag.String("transition", "fade", "xfade transition: fade, wipeleft, slideup, dissolve, none")
	typstPtr := flag.String("typst", "typst", "typst binary")
	compileTimeoutPtr := flag.Duration("compile-timeout", 0, "Limit per element compile (0: none)")
	rootPtr := flag.String("root", "", "Root directory for files referenced from markup (default: show file directory)")
	flag.Var(&fontPaths, "font-path", "Extra font directory (repeatable)")
	ignoreFontsPtr := flag.Bool("ignore-system-fonts", false, "Use only -font-path fonts")
	qualityPtr := flag.Int("quality", 0, "Video quality (0: auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	statsPtr := flag.Bool("stats", false, "Print a resource report at exit")
	verbosePtr := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	initDisplay(*verbosePtr)
	logger := slog.New(pterm.NewSlogHandler(logLevel(*verbosePtr)))
	system.InitResourceLimits(logger)

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:3":
		width, height = 1024, 768
	}

	showPath := *showPtr
	if showPath == "" && !*demoPtr {
		if latest, err := system.FindLatestShow("input/shows"); err == nil {
			showPath = latest
			pterm.Info.Printfln("Selected show: %s", showPath)
		}
	}

	root := *rootPtr
	if root == "" && showPath != "" {
		root = filepath.Dir(showPath)
	}

	cfg := &config.Config{
		ShowPath:          showPath,
		Mode:              config.ModePresent,
		Title:             "xlidst",
		Width:             width,
		Height:            height,
		FPS:               *fpsPtr,
		Workers:           *workersPtr,
		Fullscreen:        *fullscreenPtr,
		SlideDuration:     *slideDurationPtr,
		FadeDuration:      *fadePtr,
		TransitionType:    *transitionPtr,
		TypstBinary:       *typstPtr,
		CompileTimeout:    *compileTimeoutPtr,
		Root:              root,
		FontPaths:         fontPaths,
		IgnoreSystemFonts: *ignoreFontsPtr,
		ShowStats:         *statsPtr,
		Verbose:           *verbosePtr,
		BuildVersion:      buildVersion,
	}
	if showPath != "" {
		cfg.Title = "xlidst - " + filepath.Base(showPath)
	}

	if *exportPtr {
		cfg.Mode = config.ModeExport
		cfg.OutputVideo = *outputPtr
		if cfg.OutputVideo == "" {
			cfg.OutputVideo = defaultOutput(showPath)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.OutputVideo), 0o755); err != nil {
			fail("cannot create output directory", err)
		}
		cfg.VideoEncoder = system.GetBestH264Encoder("")
		if cfg.VideoEncoder != "libx264" {
			pterm.Info.Printfln("Hardware encoder: %s", cfg.VideoEncoder)
		}
		cfg.Quality = *qualityPtr
		if cfg.Quality == 0 {
			cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := &scene.Env{
		Compiler: &typst.CLICompiler{Binary: cfg.TypstBinary, Timeout: cfg.CompileTimeout},
		Sink:     &player.Sink{},
		Workers:  cfg.Workers,
		Logger:   logger,
	}
	if cfg.Mode == config.ModeExport {
		// frames are composed on the CPU
		env.Sink = &texture.MemorySink{}
	}

	project := engine.NewProject(cfg, env, nil, logger)
	project.Presenter = &player.Window{Options: player.Options{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		Logger:     logger,
	}}
	if err := project.Load(); err != nil {
		fail("cannot load show", err)
	}

	rep, err := project.Prepare(ctx)
	if err != nil {
		var initErr *sandbox.InitError
		switch {
		case errors.As(err, &initErr):
			fail("font discovery failed", err)
		case errors.Is(err, scene.ErrEmptyShow):
			fail("the show has no slides", err)
		default:
			fail("cannot prepare show", err)
		}
	}
	if rep.Failed > 0 {
		pterm.Warning.Printfln("%d of %d elements failed and will be blank", rep.Failed, rep.Failed+rep.Rasterized)
	}

	if err := project.Run(ctx); err != nil {
		fail("run failed", err)
	}

	if cfg.Mode == config.ModeExport {
		pterm.Success.Printfln("Done! Video: %s", cfg.OutputVideo)
	}
}

func initDisplay(verbose bool) {
	if verbose {
		pterm.EnableDebugMessages()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " * ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Warning.Prefix = pterm.Prefix{
		Text:  " ! ",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
	pterm.Success.Prefix = pterm.Prefix{
		Text:  "+++",
		Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack),
	}
}

func logLevel(verbose bool) *pterm.Logger {
	if verbose {
		return pterm.DefaultLogger.WithLevel(pterm.LogLevelDebug)
	}
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo)
}

func defaultOutput(showPath string) string {
	name := "demo"
	if showPath != "" {
		base := filepath.Base(showPath)
		name = strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", name, timestamp))
}

func fail(msg string, err error) {
	pterm.Error.Printfln("%s: %v", msg, err)
	os.Exit(1)
}
