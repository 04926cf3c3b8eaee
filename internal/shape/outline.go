/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"math"

	"gopathway/internal/vector"
)

var outlineOrder = [4]Handle{HandleNE, HandleSE, HandleSW, HandleNW}

// Outline returns the rotated box in view space as NE, SE, SW, NW.
func (s *Shape) Outline() vector.Polygon {
	f := s.view.Factor()
	return s.MOutline().Transform(vector.Scale(f, f))
}

// MOutline is Outline in model units.
func (s *Shape) MOutline() vector.Polygon {
	pg := make(vector.Polygon, 0, len(outlineOrder))
	for _, h := range outlineOrder {
		pg = append(pg, s.DefaultHandlePosition(h))
	}
	return pg
}

// Bounds is the model-space bounding box of the rotated outline.
func (s *Shape) Bounds() vector.Rect { return s.MOutline().Bounds() }

// Contains reports whether the view point hits the rotated outline.
func (s *Shape) Contains(vp vector.Pt) bool { return s.Outline().Contains(vp) }

// HandleAt returns the offered handle whose square marker of half-size
// radius (pixels) contains vp. When markers overlap the closest wins.
func (s *Shape) HandleAt(vp vector.Pt, radius float64) (Handle, bool) {
	best, bestDist := HandleNone, math.Inf(1)
	for _, h := range s.Handles() {
		hp := s.HandleViewPosition(h)
		dx, dy := math.Abs(vp.X-hp.X), math.Abs(vp.Y-hp.Y)
		if dx > radius || dy > radius {
			continue
		}
		if d := math.Hypot(dx, dy); d < bestDist {
			best, bestDist = h, d
		}
	}
	return best, best != HandleNone
}
