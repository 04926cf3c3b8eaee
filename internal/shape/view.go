/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"

	"gopathway/internal/vector"
)

// ModelUnitsPerPixel is the number of model units drawn as one pixel at 100% zoom.
const ModelUnitsPerPixel = 15.0

// Viewport supplies the factor that converts model units to view pixels.
type Viewport interface {
	Factor() float64
}

// ModelToView scales a model-space point into view space.
func ModelToView(p vector.Pt, factor float64) vector.Pt { return p.Mul(factor) }

// ViewToModel is the inverse of ModelToView.
func ViewToModel(p vector.Pt, factor float64) vector.Pt { return p.Mul(1 / factor) }

// View is a zoomable viewport. The zero value is not usable; use NewView.
type View struct {
	zoom float64 // percent
}

// NewView returns a view at the given zoom percentage; non-positive values
// fall back to 100%.
func NewView(zoomPercent float64) *View {
	if zoomPercent <= 0 {
		zoomPercent = 100
	}
	return &View{zoom: zoomPercent}
}

func (v *View) Zoom() float64 { return v.zoom }

// SetZoom changes the zoom percentage.
func (v *View) SetZoom(percent float64) error {
	if percent <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", percent)
	}
	v.zoom = percent
	return nil
}

func (v *View) Factor() float64 { return v.zoom / 100 / ModelUnitsPerPixel }

func (v *View) VFromM(m float64) float64  { return m * v.Factor() }
func (v *View) MFromV(px float64) float64 { return px / v.Factor() }
