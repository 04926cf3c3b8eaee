/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Polygon is a closed outline given by its vertices in drawing order.
type Polygon []Pt

// Bounds returns the axis-aligned bounding box of the vertices.
func (pg Polygon) Bounds() Rect {
	if len(pg) == 0 {
		return Rect{}
	}
	minX, minY := pg[0].X, pg[0].Y
	maxX, maxY := minX, minY
	for _, p := range pg[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Contains reports whether p lies inside or on a convex polygon of either
// winding order. Points on an edge count as inside.
func (pg Polygon) Contains(p Pt) bool {
	n := len(pg)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := pg[i]
		b := pg[(i+1)%n]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// Transform returns a copy with m applied to every vertex.
func (pg Polygon) Transform(m Affine2D) Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[i] = m.Apply(p)
	}
	return out
}

// Path converts the polygon into a closed path.
func (pg Polygon) Path() Path {
	var p Path
	for i, v := range pg {
		if i == 0 {
			p.MoveTo(v.X, v.Y)
			continue
		}
		p.LineTo(v.X, v.Y)
	}
	if len(pg) > 0 {
		p.Close()
	}
	return p
}
