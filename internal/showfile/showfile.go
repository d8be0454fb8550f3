// Package showfile reads YAML show scripts and builds slideshows from them.
//
// A show file is authoring input only. Nothing in the engine writes one.
package showfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Show is the top level of a show file.
type Show struct {
	Version    string  `yaml:"version"`
	Background string  `yaml:"background"`
	Slides     []Slide `yaml:"slides"`

	// Dir resolves relative image paths. Read sets it to the file's
	// directory.
	Dir string `yaml:"-"`
}

// Slide lists elements in paint order and the animations run while the
// slide is shown.
type Slide struct {
	Background string      `yaml:"background"`
	Duration   float64     `yaml:"duration"` // seconds, export only
	Elements   []Element   `yaml:"elements"`
	Animations []Animation `yaml:"animations"`
}

// Element sets exactly one of Typst, Text, QR or Image.
type Element struct {
	ID     string   `yaml:"id"`
	Typst  string   `yaml:"typst"`
	Text   string   `yaml:"text"`
	QR     string   `yaml:"qr"`
	Image  string   `yaml:"image"`
	Size   int      `yaml:"size"` // QR side in pixels
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Scale  *float64 `yaml:"scale"`
	Alpha  *float64 `yaml:"alpha"`
	Hidden bool     `yaml:"hidden"`
}

// Animation is one entry of a slide's animation list. Target names an
// element by id or by its position in the slide's element list.
type Animation struct {
	Kind      string     `yaml:"kind"`
	Target    string     `yaml:"target"`
	ToX       float64    `yaml:"to_x"`
	ToY       float64    `yaml:"to_y"`
	To        float64    `yaml:"to"`
	Color     string     `yaml:"color"`
	Duration  float64    `yaml:"duration"`
	Delay     float64    `yaml:"delay"`
	Ease      string     `yaml:"ease"`
	At        float64    `yaml:"at"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

type Keyframe struct {
	Time  float64 `yaml:"time"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

// Read parses the show file at path.
func Read(path string) (*Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	show, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	show.Dir = filepath.Dir(path)
	return show, nil
}

// Parse decodes a show script. Unknown fields are rejected.
func Parse(data []byte) (*Show, error) {
	var show Show
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&show); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	switch show.Version {
	case "", "1", "1.0":
	default:
		return nil, fmt.Errorf("unsupported show version %q", show.Version)
	}
	return &show, nil
}
