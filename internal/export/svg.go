/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopathway/internal/vector"
)

// WriteSVG writes f as a standalone SVG document.
func WriteSVG(w io.Writer, f Frame, st Style) error {
	st = st.withDefaults()
	cw, ch, o := f.canvas(st)

	bw := bufio.NewWriter(w)
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", cw, ch, cw, ch)
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", cw, ch, st.Background.Hex())

	for _, it := range f.Items {
		fill := "none"
		fillOpacity := 1.0
		if fl, ok := st.Fill[it.Kind]; ok && fl.Enabled {
			fill, fillOpacity = fl.Color.Hex(), fl.Color.Opacity()
		}
		stroke := "none"
		if st.Outline.Enabled {
			stroke = st.Outline.Color.Hex()
		}
		wf("  <polygon id=\"%s\" class=\"%s\" points=\"%s\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			escAttr(it.ID), it.Kind, svgPoints(it.Outline, o), fill, fillOpacity, stroke, st.Outline.Width)
		if !st.ShowHandles {
			continue
		}
		hr := st.HandleRadius
		hc := st.Handle.Hex()
		for _, p := range it.Handles {
			wf("  <rect class=\"handle\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", p.X+o.X-hr, p.Y+o.Y-hr, 2*hr, 2*hr, hc)
		}
		if it.HasRotation {
			wf("  <circle class=\"rotation-handle\" cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\"/>\n", it.Rotation.X+o.X, it.Rotation.Y+o.Y, hr, hc)
		}
	}
	if st.ShowGuides && st.Guide.Enabled {
		for _, g := range f.Guides {
			wf("  <line class=\"guide\" x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\" stroke-dasharray=\"4 2\"/>\n",
				g.From.X+o.X, g.From.Y+o.Y, g.To.X+o.X, g.To.Y+o.Y, st.Guide.Color.Hex(), st.Guide.Width)
		}
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	return bw.Flush()
}

// ExportSVG writes f to an SVG file, creating parent directories.
func ExportSVG(path string, f Frame, st Style) error {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, f, st); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pg vector.Polygon, o vector.Pt) string {
	parts := make([]string, 0, len(pg))
	for _, p := range pg {
		parts = append(parts, fmt.Sprintf("%g,%g", vector.FloatRound(p.X+o.X, 3), vector.FloatRound(p.Y+o.Y, 3)))
	}
	return strings.Join(parts, " ")
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
