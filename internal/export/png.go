/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	xvector "golang.org/x/image/vector"

	"gopathway/internal/vector"
)

// RenderPNG rasterises f into an RGBA image.
func RenderPNG(f Frame, st Style) *image.RGBA {
	st = st.withDefaults()
	cw, ch, o := f.canvas(st)
	img := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(img, img.Bounds(), image.NewUniform(st.Background), image.Point{}, draw.Src)

	z := xvector.NewRasterizer(cw, ch)
	paint := func(c vector.Color) {
		z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
		z.Reset(cw, ch)
	}

	for _, it := range f.Items {
		pg := shift(it.Outline, o)
		if fl, ok := st.Fill[it.Kind]; ok && fl.Enabled && len(pg) > 2 {
			addPolygon(z, pg)
			paint(fl.Color)
		}
		if st.Outline.Enabled {
			for i := range pg {
				addSegment(z, pg[i], pg[(i+1)%len(pg)], st.Outline.Width)
			}
			paint(st.Outline.Color)
		}
		if !st.ShowHandles {
			continue
		}
		hr := st.HandleRadius
		for _, p := range it.Handles {
			addSquare(z, p.Add(o), hr)
		}
		if it.HasRotation {
			addSquare(z, it.Rotation.Add(o), hr)
		}
		paint(st.Handle)
	}
	if st.ShowGuides && st.Guide.Enabled && len(f.Guides) > 0 {
		for _, g := range f.Guides {
			addSegment(z, g.From.Add(o), g.To.Add(o), st.Guide.Width)
		}
		paint(st.Guide.Color)
	}
	return img
}

// WritePNG encodes f as PNG.
func WritePNG(w io.Writer, f Frame, st Style) error {
	if err := png.Encode(w, RenderPNG(f, st)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNG writes f to a PNG file, creating parent directories.
func ExportPNG(path string, f Frame, st Style) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(out, f, st); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func shift(pg vector.Polygon, o vector.Pt) vector.Polygon {
	return pg.Transform(vector.Translate(o.X, o.Y))
}

func addPolygon(z *xvector.Rasterizer, pg vector.Polygon) {
	for _, c := range pg.Path().Cmds {
		switch c.Op {
		case vector.MoveTo:
			z.MoveTo(float32(c.To.X), float32(c.To.Y))
		case vector.LineTo:
			z.LineTo(float32(c.To.X), float32(c.To.Y))
		case vector.Close:
			z.ClosePath()
		}
	}
}

// addSegment adds a rectangle of the given width centred on a-b. Segments of
// one polygon share a winding, so overlapping joins accumulate instead of cancelling.
func addSegment(z *xvector.Rasterizer, a, b vector.Pt, width float64) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return
	}
	n := vector.Pt{X: -d.Y / l, Y: d.X / l}.Mul(width / 2)
	addPolygon(z, vector.Polygon{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

func addSquare(z *xvector.Rasterizer, c vector.Pt, r float64) {
	addPolygon(z, vector.Polygon{
		{X: c.X - r, Y: c.Y - r},
		{X: c.X + r, Y: c.Y - r},
		{X: c.X + r, Y: c.Y + r},
		{X: c.X - r, Y: c.Y + r},
	})
}
