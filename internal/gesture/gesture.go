// Package gesture turns a press/release pair into a selection gesture.
//
// The classifier is a two-state machine (Idle -> Pressed -> Idle). It is not
// safe for concurrent use; the pipeline only touches it from its loop.
package gesture

import "math"

// Kind is the classification of one press/release cycle.
type Kind int

const (
	None Kind = iota
	DragSelect
	MultiClickSelect
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case DragSelect:
		return "drag"
	case MultiClickSelect:
		return "multi-click"
	default:
		return "unknown"
	}
}

// Point is a screen location.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Classifier tracks the current press and classifies its release.
type Classifier struct {
	minDrag float64

	pressAt Point // meaningful only while pressed
	pressed bool
}

// NewClassifier returns an idle classifier. minDrag is the smallest distance
// that counts as a drag selection.
func NewClassifier(minDrag float64) *Classifier {
	return &Classifier{minDrag: minDrag}
}

// Press records the press location. A second press without a release
// replaces the first.
func (c *Classifier) Press(p Point) {
	c.pressAt = p
	c.pressed = true
}

// Release classifies the cycle and returns to idle. clicks is the host's
// rapid-click count for this release. A release without a recorded press
// is None.
func (c *Classifier) Release(p Point, clicks int) Kind {
	if !c.pressed {
		return None
	}
	start := c.pressAt
	c.Reset()

	// Double and triple clicks select without moving.
	if clicks >= 2 {
		return MultiClickSelect
	}
	if start.Distance(p) >= c.minDrag {
		return DragSelect
	}
	return None
}

// Pressed reports whether a press is awaiting its release.
func (c *Classifier) Pressed() bool { return c.pressed }

// Reset drops any recorded press.
func (c *Classifier) Reset() {
	c.pressAt = Point{}
	c.pressed = false
}
