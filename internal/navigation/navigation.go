// Package navigation tracks the current slide of a running show.
package navigation

// Command is a navigation request from the input layer.
type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrevious
)

func (c Command) String() string {
	switch c {
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	default:
		return "none"
	}
}

// Controller holds an index into a show of fixed length. Moves past either
// end stay on the boundary slide.
type Controller struct {
	count   int
	current int
}

// New returns a controller positioned on the first of count slides.
func New(count int) *Controller {
	if count < 0 {
		count = 0
	}
	return &Controller{count: count}
}

func (c *Controller) Current() int { return c.current }
func (c *Controller) Len() int     { return c.count }

// Next moves forward one slide and reports whether the index changed.
func (c *Controller) Next() bool { return c.Goto(c.current + 1) }

// Previous moves back one slide and reports whether the index changed.
func (c *Controller) Previous() bool { return c.Goto(c.current - 1) }

// Goto clamps i into [0, Len-1] and reports whether the index changed.
func (c *Controller) Goto(i int) bool {
	if c.count == 0 {
		return false
	}
	i = max(0, min(i, c.count-1))
	if i == c.current {
		return false
	}
	c.current = i
	return true
}

// Apply executes cmd and reports whether the index changed.
func (c *Controller) Apply(cmd Command) bool {
	switch cmd {
	case CommandNext:
		return c.Next()
	case CommandPrevious:
		return c.Previous()
	}
	return false
}
