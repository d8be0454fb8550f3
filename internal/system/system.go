package system

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ShowExtensions are the file suffixes recognized as show files.
var ShowExtensions = []string{".yaml", ".yml"}

// InitResourceLimits raises the open-file limit so ffmpeg segments and font
// files can be held open together. It returns the limit in effect.
func InitResourceLimits(logger *slog.Logger) uint64 {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("cannot read open file limit", "err", err)
		return 0
	}

	want := uint64(2048)
	if want > uint64(rLimit.Max) {
		want = uint64(rLimit.Max)
	}
	if uint64(rLimit.Cur) >= want {
		return uint64(rLimit.Cur)
	}

	prev := rLimit.Cur
	rLimit.Cur = want
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("cannot raise open file limit", "err", err)
		return uint64(prev)
	}
	logger.Debug("open file limit raised", "limit", want)
	return want
}

// FindLatest returns the most recently modified file in dir whose name ends
// in one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files in %s", strings.Join(exts, "/"), dir)
	}
	return latestFile, nil
}

// FindLatestShow returns the newest show file in dir.
func FindLatestShow(dir string) (string, error) {
	return FindLatest(dir, ShowExtensions...)
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// hardwareEncoders in order of preference. libx264 is the fallback.
var hardwareEncoders = []string{"h264_videotoolbox", "h264_nvenc"}

// GetBestH264Encoder asks ffmpeg for its encoders and picks the preferred
// hardware one, falling back to libx264.
func GetBestH264Encoder(ffmpeg string) string {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	out, err := exec.Command(ffmpeg, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(listing string) string {
	for _, name := range hardwareEncoders {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}
