/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping helpers for moving diagram elements.
// These utilities are UI-agnostic and deterministic to enable unit testing.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance (in the same units as Rect) at which
	// snapping occurs.
	Threshold float64
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// Enabled reports whether any snapping target is switched on.
func (o SnapOptions) Enabled() bool { return o.SnapToEdges || o.SnapToCenters }

// Anchor is a static reference rect, usually the bounds of another element.
// Higher Weight wins when distances tie; use 1 when unsure.
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal", Kind is "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate of the guide,
// rounded to 3 decimal places.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

type snapCandidate struct {
	delta float64
	dist  float64
	guide GuideLine
}

// ComputeSmartGuides computes snapping adjustments for a moving rectangle
// against a set of anchors. It returns the snapped rectangle and any guide
// lines to render. Snapping happens independently in X and Y.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bestX := snapCandidate{dist: math.Inf(1)}
	bestY := snapCandidate{dist: math.Inf(1)}

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mc := moving.Center()

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		ac := a.Rect.Center()

		if opts.SnapToEdges {
			// same edge, then abutting edges
			bestX.consider(mL-aL, opts.Threshold, a.Weight, vertical(aL, moving, a.Rect, "edge"))
			bestX.consider(mR-aR, opts.Threshold, a.Weight, vertical(aR, moving, a.Rect, "edge"))
			bestX.consider(mL-aR, opts.Threshold, a.Weight, vertical(aR, moving, a.Rect, "edge"))
			bestX.consider(mR-aL, opts.Threshold, a.Weight, vertical(aL, moving, a.Rect, "edge"))

			bestY.consider(mT-aT, opts.Threshold, a.Weight, horizontal(aT, moving, a.Rect, "edge"))
			bestY.consider(mB-aB, opts.Threshold, a.Weight, horizontal(aB, moving, a.Rect, "edge"))
			bestY.consider(mT-aB, opts.Threshold, a.Weight, horizontal(aB, moving, a.Rect, "edge"))
			bestY.consider(mB-aT, opts.Threshold, a.Weight, horizontal(aT, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			bestX.consider(mc.X-ac.X, opts.Threshold, a.Weight, vertical(ac.X, moving, a.Rect, "center"))
			bestY.consider(mc.Y-ac.Y, opts.Threshold, a.Weight, horizontal(ac.Y, moving, a.Rect, "center"))
		}
	}

	var guides []GuideLine
	snapped := moving
	if bestX.dist <= opts.Threshold {
		snapped.X = FloatRound(moving.X-bestX.delta, 3)
		guides = append(guides, bestX.guide)
	}
	if bestY.dist <= opts.Threshold {
		snapped.Y = FloatRound(moving.Y-bestY.delta, 3)
		guides = append(guides, bestY.guide)
	}
	return snapped, guides
}

func (c *snapCandidate) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if score < c.dist {
		c.dist = dist
		c.delta = delta
		c.guide = g
	}
}

func vertical(x float64, a, b Rect, kind string) GuideLine {
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, math.Min(a.Y, b.Y)},
		To:          Pt{x, math.Max(a.Y+a.H, b.Y+b.H)},
	}
}

func horizontal(y float64, a, b Rect, kind string) GuideLine {
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{math.Min(a.X, b.X), y},
		To:          Pt{math.Max(a.X+a.W, b.X+b.W), y},
	}
}
