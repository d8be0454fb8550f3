package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-text/typesetting/fontscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubScan(t *testing.T, fps []fontscan.Footprint, err error) {
	t.Helper()
	prev := scanSystemFonts
	scanSystemFonts = func(string) ([]fontscan.Footprint, error) { return fps, err }
	t.Cleanup(func() { scanSystemFonts = prev })
}

func TestNewCollectsFontDirs(t *testing.T) {
	stubScan(t, []fontscan.Footprint{
		{Family: "Latin Modern", Location: fontscan.Location{File: "/usr/share/fonts/lm/lmroman10.otf"}},
		{Family: "Latin Modern", Location: fontscan.Location{File: "/usr/share/fonts/lm/lmroman12.otf"}},
		{Family: "DejaVu Sans", Location: fontscan.Location{File: "/usr/share/fonts/dejavu/DejaVuSans.ttf"}},
	}, nil)

	sb, err := New(Options{Root: t.TempDir(), CacheDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/share/fonts/dejavu", "/usr/share/fonts/lm"}, sb.FontDirs())
	assert.Equal(t, 2, sb.Families())
}

func TestNewScanFailureIsInitError(t *testing.T) {
	stubScan(t, nil, errors.New("boom"))

	_, err := New(Options{CacheDir: t.TempDir()})
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "scan system fonts", initErr.Op)
}

func TestNewNoFontsIsInitError(t *testing.T) {
	stubScan(t, nil, nil)

	_, err := New(Options{CacheDir: t.TempDir()})
	var initErr *InitError
	assert.ErrorAs(t, err, &initErr)
}

func TestNewMissingFontPath(t *testing.T) {
	_, err := New(Options{IgnoreSystemFonts: true, FontPaths: []string{filepath.Join(t.TempDir(), "nope")}})
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWithSourceIsFresh(t *testing.T) {
	fonts := t.TempDir()
	sb, err := New(Options{Root: t.TempDir(), IgnoreSystemFonts: true, FontPaths: []string{fonts}})
	require.NoError(t, err)

	a := sb.WithSource("= A")
	b := sb.WithSource("= B")
	assert.Equal(t, "= A", a.Source)
	assert.Equal(t, "= B", b.Source)
	assert.True(t, a.IgnoreSystemFonts)
	assert.Equal(t, sb.Root(), a.Root)

	a.FontDirs[0] = "mutated"
	assert.NotEqual(t, "mutated", sb.WithSource("").FontDirs[0])
}
