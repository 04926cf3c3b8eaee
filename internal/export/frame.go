/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders the outlines and handles of edited shapes to SVG,
// PNG and PDF.
package export

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopathway/internal/domain"
	"gopathway/internal/shape"
	"gopathway/internal/vector"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Source is what a frame is captured from; *edit.Editor implements it.
type Source interface {
	Shapes() []*shape.Shape
	Element(id shape.ID) (domain.Element, bool)
	Factor() float64
	Guides() []vector.GuideLine
}

// Item is one shape in view space.
type Item struct {
	ID      string
	Kind    domain.Kind
	Outline vector.Polygon
	// Handles lists the offered resize handles; Rotation is set when the
	// shape has a rotation handle.
	Handles     []vector.Pt
	Rotation    vector.Pt
	HasRotation bool
}

// Guide is a smart guide segment in view space.
type Guide struct {
	From, To vector.Pt
}

// Frame is a renderer-independent snapshot of a scene in view space.
type Frame struct {
	Items  []Item
	Guides []Guide
}

// Capture takes the current shapes of src, bottom to top.
func Capture(src Source) Frame {
	var f Frame
	for _, s := range src.Shapes() {
		it := Item{Kind: s.Kind(), Outline: s.Outline()}
		if el, ok := src.Element(s.ID()); ok {
			it.ID = el.ID
		}
		for _, h := range s.Handles() {
			p := s.HandleViewPosition(h)
			if h == shape.HandleR {
				it.Rotation, it.HasRotation = p, true
				continue
			}
			it.Handles = append(it.Handles, p)
		}
		f.Items = append(f.Items, it)
	}
	factor := src.Factor()
	for _, g := range src.Guides() {
		f.Guides = append(f.Guides, Guide{
			From: shape.ModelToView(g.From, factor),
			To:   shape.ModelToView(g.To, factor),
		})
	}
	return f
}

// Style controls colors and sizes. Zero values fall back to DefaultStyle.
type Style struct {
	Background   vector.Color
	Outline      vector.Stroke
	Fill         map[domain.Kind]vector.Fill
	Handle       vector.Color
	HandleRadius float64
	Guide        vector.Stroke
	// Padding around the drawing, in pixels.
	Padding     float64
	ShowHandles bool
	ShowGuides  bool
}

// DefaultStyle draws black outlines, blue handles and magenta guides.
func DefaultStyle() Style {
	return Style{
		Background: vector.White,
		Outline:    vector.Stroke{Color: vector.Black, Width: 1, Enabled: true},
		Fill: map[domain.Kind]vector.Fill{
			domain.KindGeneric:      {Color: vector.Color{R: 240, G: 240, B: 240, A: 255}, Enabled: true},
			domain.KindLabel:        {Color: vector.Color{R: 255, G: 255, B: 224, A: 255}, Enabled: true},
			domain.KindGeneProduct:  {Color: vector.Color{R: 224, G: 240, B: 255, A: 255}, Enabled: true},
			domain.KindSelectionBox: {Color: vector.Color{R: 64, G: 128, B: 255, A: 48}, Enabled: true},
		},
		Handle:       vector.Color{R: 0, G: 96, B: 255, A: 255},
		HandleRadius: 4,
		Guide:        vector.Stroke{Color: vector.Color{R: 255, G: 0, B: 255, A: 255}, Width: 1, Enabled: true},
		Padding:      10,
		ShowHandles:  true,
		ShowGuides:   true,
	}
}

func (st Style) withDefaults() Style {
	def := DefaultStyle()
	if st.Background == (vector.Color{}) {
		st.Background = def.Background
	}
	if st.Outline.Width <= 0 {
		st.Outline = def.Outline
	}
	if st.Fill == nil {
		st.Fill = def.Fill
	}
	if st.Handle == (vector.Color{}) {
		st.Handle = def.Handle
	}
	if st.HandleRadius <= 0 {
		st.HandleRadius = def.HandleRadius
	}
	if st.Guide.Width <= 0 {
		st.Guide = def.Guide
	}
	if st.Padding < 0 {
		st.Padding = 0
	}
	return st
}

// Bounds is the view-space box covering every outline, handle marker and guide.
func (f Frame) Bounds(st Style) vector.Rect {
	var r vector.Rect
	first := true
	add := func(b vector.Rect) {
		if first {
			r, first = b, false
			return
		}
		r = r.Union(b)
	}
	hr := st.HandleRadius
	for _, it := range f.Items {
		add(it.Outline.Bounds())
		if !st.ShowHandles {
			continue
		}
		for _, p := range it.Handles {
			add(vector.R(p.X-hr, p.Y-hr, 2*hr, 2*hr))
		}
		if it.HasRotation {
			add(vector.R(it.Rotation.X-hr, it.Rotation.Y-hr, 2*hr, 2*hr))
		}
	}
	if st.ShowGuides {
		for _, g := range f.Guides {
			add(vector.Polygon{g.From, g.To}.Bounds())
		}
	}
	return r
}

// canvas returns the padded drawing size and the translation that maps
// view space onto it.
func (f Frame) canvas(st Style) (w, h int, origin vector.Pt) {
	b := f.Bounds(st).Inset(-st.Padding, -st.Padding)
	w = int(math.Ceil(vector.FloatRound(b.W, 6)))
	h = int(math.Ceil(vector.FloatRound(b.H, 6)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, vector.Pt{X: -b.X, Y: -b.Y}
}

// ExportFile renders f to path, picking the format from the extension.
func ExportFile(path string, f Frame, st Style) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return ExportSVG(path, f, st)
	case ".png":
		return ExportPNG(path, f, st)
	case ".pdf":
		return ExportPDF(path, f, st)
	default:
		return fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}
