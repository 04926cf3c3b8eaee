/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import "log/slog"

// correctNegativeSize flips a negative width and/or height back to positive
// and returns the handle that continues the drag (HandleNone outside a
// drag). Both corrections touch
// disjoint fields and commute.
func (s *Shape) correctNegativeSize(h Handle) Handle {
	if s.model.MWidth() < 0 {
		h = s.negativeWidth(h)
	}
	if s.model.MHeight() < 0 {
		h = s.negativeHeight(h)
	}
	return h
}

// negativeWidth negates the width and moves the left edge so the center
// stays where it is. The drag switches to the horizontally opposite handle:
// a free corner only swaps its column, a constrained handle its complement.
func (s *Shape) negativeWidth(h Handle) Handle {
	from := h
	if h != HandleNone && handleSigns[h].X != 0 {
		h = Opposite(h, flipConstraint(h, DirX))
	}
	w := -s.model.MWidth()
	s.model.SetMWidth(w)
	s.model.SetMLeft(s.model.MLeft() - w)
	s.log.Debug("width flip", slog.String("from", from.String()), slog.String("to", h.String()), slog.Float64("width", w))
	return h
}

// negativeHeight is the vertical counterpart of negativeWidth.
func (s *Shape) negativeHeight(h Handle) Handle {
	from := h
	if h != HandleNone && handleSigns[h].Y != 0 {
		h = Opposite(h, flipConstraint(h, DirY))
	}
	ht := -s.model.MHeight()
	s.model.SetMHeight(ht)
	s.model.SetMTop(s.model.MTop() - ht)
	s.log.Debug("height flip", slog.String("from", from.String()), slog.String("to", h.String()), slog.Float64("height", ht))
	return h
}

func flipConstraint(h Handle, axis Direction) Direction {
	if handleDirections[h] == DirFree {
		return axis
	}
	return DirXY
}
