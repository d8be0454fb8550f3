package showfile

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/colornames"

	"github.com/ivlev/xlidst/internal/animation"
	"github.com/ivlev/xlidst/internal/scene"
)

// Build constructs the slideshow the file describes.
func (s *Show) Build() (*scene.Slideshow, error) {
	show := scene.NewSlideshow()
	if s.Background != "" {
		bg, err := ParseColor(s.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		show.SetBackground(bg)
	}

	for i, sl := range s.Slides {
		if err := s.buildSlide(show, sl); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return show, nil
}

func (s *Show) buildSlide(show *scene.Slideshow, sl Slide) error {
	slide := show.Slide()
	slide.Duration = sl.Duration
	if sl.Background != "" {
		bg, err := ParseColor(sl.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		slide.SetBackground(bg)
	}

	refs := make([]scene.ElementRef, 0, len(sl.Elements))
	ids := make(map[string]scene.ElementRef)
	for i, e := range sl.Elements {
		tex, err := s.texture(e)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		ref, err := show.Add(tex)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
		if e.ID != "" {
			if _, dup := ids[e.ID]; dup {
				return fmt.Errorf("element %d: duplicate id %q", i, e.ID)
			}
			ids[e.ID] = ref
		}
	}

	for i, a := range sl.Animations {
		anim, err := buildAnimation(a, func(target string) (scene.ElementRef, error) {
			return resolveTarget(target, ids, refs)
		})
		if err != nil {
			return fmt.Errorf("animation %d (%s): %w", i, a.Kind, err)
		}
		if err := show.Animate(anim); err != nil {
			return err
		}
	}
	return nil
}

func (s *Show) texture(e Element) (*scene.Texture, error) {
	set := 0
	for _, v := range []string{e.Typst, e.Text, e.QR, e.Image} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of typst, text, qr, image is required")
	}

	var tex *scene.Texture
	switch {
	case e.Typst != "":
		tex = scene.Typst(e.Typst)
	case e.Text != "":
		tex = scene.NewText(e.Text)
	case e.QR != "":
		tex = scene.NewTexture(scene.QRCode{Content: e.QR, Level: qrcode.Medium, Size: e.Size})
	default:
		path := e.Image
		if !filepath.IsAbs(path) && s.Dir != "" {
			path = filepath.Join(s.Dir, path)
		}
		tex = scene.NewPicture(path)
	}

	tex.SetPosition(e.X, e.Y).SetVisible(!e.Hidden)
	if e.Scale != nil {
		tex.SetScale(*e.Scale)
	}
	if e.Alpha != nil {
		tex.SetAlpha(*e.Alpha)
	}
	return tex, nil
}

func resolveTarget(target string, ids map[string]scene.ElementRef, refs []scene.ElementRef) (scene.ElementRef, error) {
	if ref, ok := ids[target]; ok {
		return ref, nil
	}
	i, err := strconv.Atoi(target)
	if err != nil || i < 0 || i >= len(refs) {
		return 0, fmt.Errorf("unknown target %q", target)
	}
	return refs[i], nil
}

func buildAnimation(a Animation, target func(string) (scene.ElementRef, error)) (scene.Animation, error) {
	fn, err := animation.EaseByName(a.Ease)
	if err != nil {
		return nil, err
	}

	var anim scene.Animation
	kind := strings.ToLower(a.Kind)
	if kind == "background" {
		c, err := ParseColor(a.Color)
		if err != nil {
			return nil, err
		}
		anim = animation.Background(c, a.Duration, fn)
	} else {
		ref, err := target(a.Target)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "move":
			anim = animation.Move(ref, a.ToX, a.ToY, a.Duration, fn)
		case "scale":
			anim = animation.Scale(ref, a.To, a.Duration, fn)
		case "fade":
			anim = animation.Fade(ref, a.To, a.Duration, fn)
		case "appear":
			anim = animation.Appear(ref, a.At)
		case "disappear":
			anim = animation.Disappear(ref, a.At)
		case "path":
			if len(a.Keyframes) == 0 {
				return nil, fmt.Errorf("path needs keyframes")
			}
			kfs := make([]animation.Keyframe, len(a.Keyframes))
			for i, k := range a.Keyframes {
				kfs[i] = animation.Keyframe{Time: k.Time, X: k.X, Y: k.Y, Scale: k.Scale}
			}
			if a.Ease == "" {
				fn = nil
			}
			anim = animation.Path(ref, kfs, fn)
		default:
			return nil, fmt.Errorf("unknown kind %q", a.Kind)
		}
	}

	if a.Delay > 0 {
		anim = animation.Delay(a.Delay, anim)
	}
	return anim, nil
}

// ParseColor accepts an SVG color name or #rrggbb / #rrggbbaa.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		b, err := hex.DecodeString(s[1:])
		if err != nil || (len(b) != 3 && len(b) != 4) {
			return color.RGBA{}, fmt.Errorf("bad color %q", s)
		}
		c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
		if len(b) == 4 {
			c.A = b[3]
		}
		return color.RGBAModel.Convert(c).(color.RGBA), nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}
