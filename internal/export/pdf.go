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
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"gopathway/internal/vector"
	"gopathway/internal/version"
)

// WritePDF writes f as a single-page PDF. One view pixel maps to one point.
func WritePDF(w io.Writer, f Frame, st Style) error {
	st = st.withDefaults()
	cw, ch, o := f.canvas(st)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(cw), Ht: float64(ch)},
	})
	pdf.SetTitle("GoPathway scene", false)
	pdf.SetCreator("gopathway "+version.String(), false)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: float64(cw), Ht: float64(ch)})

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, float64(cw), float64(ch), "F")

	for _, it := range f.Items {
		style := ""
		if fl, ok := st.Fill[it.Kind]; ok && fl.Enabled {
			setFillColor(pdf, fl.Color)
			pdf.SetAlpha(fl.Color.Opacity(), "Normal")
			style += "F"
		}
		if st.Outline.Enabled {
			setDrawColor(pdf, st.Outline.Color)
			pdf.SetLineWidth(st.Outline.Width)
			style += "D"
		}
		if style != "" {
			drawPath(pdf, it.Outline.Path().Transform(vector.Translate(o.X, o.Y)), style)
		}
		pdf.SetAlpha(1, "Normal")
		if !st.ShowHandles {
			continue
		}
		hr := st.HandleRadius
		setFillColor(pdf, st.Handle)
		for _, p := range it.Handles {
			pdf.Rect(p.X+o.X-hr, p.Y+o.Y-hr, 2*hr, 2*hr, "F")
		}
		if it.HasRotation {
			pdf.Circle(it.Rotation.X+o.X, it.Rotation.Y+o.Y, hr, "F")
		}
	}
	if st.ShowGuides && st.Guide.Enabled {
		setDrawColor(pdf, st.Guide.Color)
		pdf.SetLineWidth(st.Guide.Width)
		pdf.SetDashPattern([]float64{4, 2}, 0)
		for _, g := range f.Guides {
			pdf.Line(g.From.X+o.X, g.From.Y+o.Y, g.To.X+o.X, g.To.Y+o.Y)
		}
		pdf.SetDashPattern([]float64{}, 0)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes f to a PDF file, creating parent directories.
func ExportPDF(path string, f Frame, st Style) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WritePDF(out, f, st); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	return nil
}

func drawPath(pdf *gofpdf.Fpdf, p vector.Path, style string) {
	for _, c := range p.Cmds {
		switch c.Op {
		case vector.MoveTo:
			pdf.MoveTo(c.To.X, c.To.Y)
		case vector.LineTo:
			pdf.LineTo(c.To.X, c.To.Y)
		case vector.Close:
			pdf.ClosePath()
		}
	}
	pdf.DrawPath(style)
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
