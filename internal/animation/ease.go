package animation

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
}

// EaseByName resolves names like "in-out-cubic". An empty name is linear.
func EaseByName(name string) (ease.TweenFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}
