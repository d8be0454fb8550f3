package typst

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ivlev/xlidst/internal/sandbox"
	"github.com/ivlev/xlidst/internal/source"
)

// Compiler turns a World into a paged document.
type Compiler interface {
	Compile(ctx context.Context, world sandbox.World) (source.Document, error)
}

// CLICompiler runs the typst binary. Page count and size come from the PDF
// output opened with MuPDF; pixels come from typst's PNG exporter so that
// unfilled page areas stay transparent.
type CLICompiler struct {
	// Binary defaults to "typst".
	Binary string
	// Timeout bounds a single typst run. Zero means no limit.
	Timeout time.Duration
}

func (c *CLICompiler) binary() string {
	if c.Binary == "" {
		return "typst"
	}
	return c.Binary
}

func (c *CLICompiler) args(world sandbox.World, format string, extra ...string) []string {
	args := []string{"compile", "--format", format}
	args = append(args, extra...)
	if world.Root != "" {
		args = append(args, "--root", world.Root)
	}
	for _, dir := range world.FontDirs {
		args = append(args, "--font-path", dir)
	}
	if world.IgnoreSystemFonts {
		args = append(args, "--ignore-system-fonts")
	}
	// stdin -> stdout
	return append(args, "-", "-")
}

// pngArgs renders the single page index at density pixels per point.
func (c *CLICompiler) pngArgs(world sandbox.World, index int, density float64) []string {
	ppi := strconv.FormatFloat(density*72, 'f', -1, 64)
	return c.args(world, "png", "--ppi", ppi, "--pages", strconv.Itoa(index+1))
}

func (c *CLICompiler) run(ctx context.Context, world sandbox.World, args []string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Stdin = strings.NewReader(world.Source)
	if world.Root != "" {
		cmd.Dir = world.Root
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CompileError{Err: err, Diagnostics: strings.TrimSpace(stderr.String())}
	}
	return stdout.Bytes(), nil
}

func (c *CLICompiler) Compile(ctx context.Context, world sandbox.World) (source.Document, error) {
	pdf, err := c.run(ctx, world, c.args(world, "pdf"))
	if err != nil {
		return nil, err
	}
	doc, err := source.NewFitzDocument(pdf)
	if err != nil {
		return nil, &CompileError{Err: fmt.Errorf("open pdf: %w", err)}
	}
	return &cliDocument{FitzDocument: doc, compiler: c, world: world, ctx: ctx}, nil
}

// cliDocument measures pages with MuPDF and renders them with typst.
// It lives no longer than the Compile caller, so it keeps that caller's
// context for the render runs.
type cliDocument struct {
	*source.FitzDocument
	compiler *CLICompiler
	world    sandbox.World
	ctx      context.Context
}

func (d *cliDocument) RenderPage(index int, density float64) (*image.RGBA, error) {
	if index < 0 || index >= d.PageCount() {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	data, err := d.compiler.run(d.ctx, d.world, d.compiler.pngArgs(d.world, index, density))
	if err != nil {
		return nil, err
	}
	page, err := source.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index, err)
	}
	return page.RenderPage(0, 1)
}
