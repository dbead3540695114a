// Package geom provides the small geometry vocabulary shared by the
// interaction engine: 2D vectors, rectangles, and the horizontal
// translation transforms applied to drag views.
package geom

import "math"

// Vector is a 2D vector. Gesture translations and velocities are Vectors.
type Vector struct {
	X float64
	Y float64
}

// Zero is the zero vector.
var Zero = Vector{}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// IsZero returns true if both components are zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Transform is an affine transform restricted to the operations the
// interaction engine needs: identity and horizontal translation.
type Transform struct {
	// TX is the horizontal translation component.
	TX float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{}
}

// Translation returns a horizontal translation transform.
func Translation(x float64) Transform {
	return Transform{TX: x}
}

// IsIdentity returns true if the transform is the identity.
func (t Transform) IsIdentity() bool {
	return t.TX == 0
}

// Lerp linearly interpolates between transforms a and b at progress p.
// p is clamped to [0, 1].
func Lerp(a, b Transform, p float64) Transform {
	p = math.Max(0, math.Min(1, p))
	return Transform{TX: a.TX + (b.TX-a.TX)*p}
}
