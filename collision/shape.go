package collision

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/TychoHenzen/OctarineCodex/common"
)

// Shape is a collision primitive. Shapes are local definitions; Translate
// returns a world-space copy and never mutates the receiver.
//
// The set of shapes is closed: Box, Circle and Composite.
type Shape interface {
	Translate(pos cp.Vector) Shape
	Intersects(other Shape) bool
	Bounds() cp.BB

	sealed()
}

// Box is an axis-aligned rectangle whose top-left corner sits at Offset.
type Box struct {
	Offset cp.Vector
	Width  float64
	Height float64
}

// Circle is a disc centred at Center.
type Circle struct {
	Center cp.Vector
	Radius float64
}

// Composite groups sub-shapes; it intersects anything one of its children
// intersects.
type Composite struct {
	Shapes []Shape
}

func NewBox(offsetX, offsetY, width, height float64) Box {
	return Box{
		Offset: cp.Vector{X: offsetX, Y: offsetY},
		Width:  math.Max(width, 0),
		Height: math.Max(height, 0),
	}
}

// NewCenteredBox returns a box centred on the owner position.
func NewCenteredBox(width, height float64) Box {
	return NewBox(-width/2, -height/2, width, height)
}

func NewCircle(centerX, centerY, radius float64) Circle {
	return Circle{Center: cp.Vector{X: centerX, Y: centerY}, Radius: math.Max(radius, 0)}
}

func NewComposite(shapes ...Shape) Composite {
	return Composite{Shapes: append([]Shape(nil), shapes...)}
}

func (b Box) Translate(pos cp.Vector) Shape {
	b.Offset = b.Offset.Add(pos)
	return b
}

func (b Box) Bounds() cp.BB {
	return cp.BB{L: b.Offset.X, B: b.Offset.Y, R: b.Offset.X + b.Width, T: b.Offset.Y + b.Height}
}

func (b Box) Intersects(other Shape) bool {
	return intersects(b, other)
}

func (Box) sealed() {}

func (c Circle) Translate(pos cp.Vector) Shape {
	c.Center = c.Center.Add(pos)
	return c
}

func (c Circle) Bounds() cp.BB {
	return cp.BB{L: c.Center.X - c.Radius, B: c.Center.Y - c.Radius, R: c.Center.X + c.Radius, T: c.Center.Y + c.Radius}
}

func (c Circle) Intersects(other Shape) bool {
	return intersects(c, other)
}

func (Circle) sealed() {}

func (c Composite) Translate(pos cp.Vector) Shape {
	moved := make([]Shape, len(c.Shapes))
	for i, s := range c.Shapes {
		moved[i] = s.Translate(pos)
	}
	return Composite{Shapes: moved}
}

func (c Composite) Bounds() cp.BB {
	if len(c.Shapes) == 0 {
		return cp.BB{}
	}
	bb := c.Shapes[0].Bounds()
	for _, s := range c.Shapes[1:] {
		bb = mergeBB(bb, s.Bounds())
	}
	return bb
}

func (c Composite) Intersects(other Shape) bool {
	return intersects(c, other)
}

func (Composite) sealed() {}

func intersects(a, b Shape) bool {
	if comp, ok := a.(Composite); ok {
		for _, s := range comp.Shapes {
			if intersects(s, b) {
				return true
			}
		}
		return false
	}
	if comp, ok := b.(Composite); ok {
		for _, s := range comp.Shapes {
			if intersects(a, s) {
				return true
			}
		}
		return false
	}

	switch sa := a.(type) {
	case Box:
		switch sb := b.(type) {
		case Box:
			return overlapsBB(sa.Bounds(), sb.Bounds())
		case Circle:
			return circleBoxOverlap(sb, sa.Bounds())
		}
	case Circle:
		switch sb := b.(type) {
		case Box:
			return circleBoxOverlap(sa, sb.Bounds())
		case Circle:
			r := sa.Radius + sb.Radius
			return sa.Center.Sub(sb.Center).LengthSq() < r*r
		}
	}
	return false
}

// overlapsBB is a strict rectangle overlap: shared edges do not count.
func overlapsBB(a, b cp.BB) bool {
	return a.L < b.R && a.R > b.L && a.B < b.T && a.T > b.B
}

func circleBoxOverlap(c Circle, bb cp.BB) bool {
	closestX := common.Clamp(c.Center.X, bb.L, bb.R)
	closestY := common.Clamp(c.Center.Y, bb.B, bb.T)
	dx := c.Center.X - closestX
	dy := c.Center.Y - closestY
	return dx*dx+dy*dy < c.Radius*c.Radius
}

func mergeBB(a, b cp.BB) cp.BB {
	return cp.BB{
		L: math.Min(a.L, b.L),
		B: math.Min(a.B, b.B),
		R: math.Max(a.R, b.R),
		T: math.Max(a.T, b.T),
	}
}

func bbCenter(bb cp.BB) cp.Vector {
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

// overlapExtents returns the width and height of the intersection of a and b,
// clamped at zero.
func overlapExtents(a, b cp.BB) (float64, float64) {
	w := math.Min(a.R, b.R) - math.Max(a.L, b.L)
	h := math.Min(a.T, b.T) - math.Max(a.B, b.B)
	return math.Max(w, 0), math.Max(h, 0)
}
