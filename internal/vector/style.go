/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "fmt"

// Styles and paint definitions.

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 255
	g = uint32(c.G) * a / 255
	b = uint32(c.B) * a / 255
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Opacity returns alpha in [0,1].
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

type Fill struct {
	Color   Color
	Enabled bool
}

type Stroke struct {
	Color   Color
	Width   float64
	Enabled bool
}
