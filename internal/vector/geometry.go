/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry and transforms for pathway diagrams.
// Values are float64: model coordinates round-trip through rotations and
// zoom factors and must stay exact to ~1e-9.

import "math"

// Pt is a 2D point or vector.
type Pt struct{ X, Y float64 }

func (p Pt) Add(o Pt) Pt       { return Pt{p.X + o.X, p.Y + o.Y} }
func (p Pt) Sub(o Pt) Pt       { return Pt{p.X - o.X, p.Y - o.Y} }
func (p Pt) Mul(f float64) Pt  { return Pt{p.X * f, p.Y * f} }
func (p Pt) Len() float64      { return math.Hypot(p.X, p.Y) }
func (p Pt) Dist(o Pt) float64 { return p.Sub(o).Len() }

// Near reports whether both coordinates differ by at most eps.
func (p Pt) Near(o Pt, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps && math.Abs(p.Y-o.Y) <= eps
}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Invert returns the inverse transform. A singular matrix yields Identity.
func (m Affine2D) Invert() Affine2D {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	invDet := 1 / det
	return Affine2D{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float64) Affine2D {
	s, c := math.Sincos(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotatePt rotates vector p around the origin by rad.
func RotatePt(p Pt, rad float64) Pt {
	s, c := math.Sincos(rad)
	return Pt{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
}

// Angle returns the signed angle that rotates direction a onto direction b,
// in (-π, π]. Zero vectors yield 0.
func Angle(a, b Pt) float64 {
	cross := a.X*b.Y - a.Y*b.X
	dot := a.X*b.X + a.Y*b.Y
	return math.Atan2(cross, dot)
}

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// a tiny negative input lands exactly on 2π after the shift
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
