package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ivlev/xlidst/internal/config"
)

type VideoEncoder interface {
	EncodeSlide(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.SegmentParams) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.Config) error
}

type FFmpegEncoder struct {
	// Binary defaults to "ffmpeg" on PATH.
	Binary string
	// Recycle, when set, receives every frame once it has been written.
	Recycle func(*image.RGBA)
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

// EncodeSlide streams frames into ffmpeg until the channel closes. Every
// frame must be params.Width x params.Height. The channel is drained on
// failure so the producer never blocks.
func (e *FFmpegEncoder) EncodeSlide(
	ctx context.Context,
	frames <-chan *image.RGBA,
	videoPath string,
	params config.SegmentParams,
) error {
	defer e.drain(frames)

	cmd := exec.CommandContext(ctx, e.binary(), buildSegmentArgs(videoPath, params)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	for img := range frames {
		if err := writeRawRGBA(stdin, img, params.Width, params.Height); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error: %w, output: %s", err, out.String())
		}
		e.recycle(img)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) drain(frames <-chan *image.RGBA) {
	for img := range frames {
		e.recycle(img)
	}
}

func (e *FFmpegEncoder) recycle(img *image.RGBA) {
	if e.Recycle != nil {
		e.Recycle(img)
	}
}

func buildSegmentArgs(videoPath string, params config.SegmentParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-frames:v", fmt.Sprintf("%d", params.Frames()),
		"-pix_fmt", "yuv420p",
		"-c:v", params.VideoEncoder,
	}
	args = append(args, qualityArgs(params.VideoEncoder, params.Quality)...)
	args = append(args, videoPath)
	return args
}

func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox ignores -q:v on some versions; kbit/s, 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img *image.RGBA, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("frame is %dx%d, want %dx%d", b.Dx(), b.Dy(), width, height)
	}
	if img.Stride == width*4 {
		_, err := w.Write(img.Pix[:width*height*4])
		return err
	}
	for y := 0; y < height; y++ {
		off := y * img.Stride
		if _, err := w.Write(img.Pix[off : off+width*4]); err != nil {
			return err
		}
	}
	return nil
}

func useTransition(params config.Config, segments int) bool {
	return params.TransitionType != "" && params.TransitionType != "none" && segments > 1
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, params config.Config) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concatenate")
	}

	if !useTransition(params, len(segmentPaths)) {
		concatFilePath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(concatFilePath, segmentPaths); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, e.binary(), "-y",
			"-f", "concat", "-safe", "0", "-i", concatFilePath,
			"-c", "copy", finalPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, e.binary(), buildXfadeArgs(segmentPaths, finalPath, params)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade error: %v, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, p := range segmentPaths {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	return f.Close()
}

// buildXfadeArgs chains xfade filters. Each transition starts FadeDuration
// before the end of the running output, so slide durations must be longer
// than the fade.
func buildXfadeArgs(segmentPaths []string, finalPath string, params config.Config) []string {
	args := []string{"-y"}
	for _, p := range segmentPaths {
		args = append(args, "-i", p)
	}

	fade := params.FadeDuration
	var graph strings.Builder
	lastOut := "[0:v]"
	offset := 0.0
	for i := 1; i < len(segmentPaths); i++ {
		duration := params.SlideDuration
		if i-1 < len(params.SlideDurations) {
			duration = params.SlideDurations[i-1]
		}
		offset += duration - fade

		outName := fmt.Sprintf("[v%d]", i)
		fmt.Fprintf(&graph, "%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s;",
			lastOut, i, params.TransitionType, fade, offset, outName)
		lastOut = outName
	}

	args = append(args, "-filter_complex", strings.TrimSuffix(graph.String(), ";"))
	args = append(args, "-map", lastOut)
	args = append(args, "-c:v", params.VideoEncoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(params.VideoEncoder, params.Quality)...)
	args = append(args, finalPath)
	return args
}
