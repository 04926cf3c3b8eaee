/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands consumed by the exporters.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	Close
)

type PathCmd struct {
	Op PathOp
	To Pt // unused for Close
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, To: Pt{x, y}}) }
func (p *Path) LineTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, To: Pt{x, y}}) }
func (p *Path) Close()              { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Transform returns a copy of the path with m applied to every point.
func (p Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		if c.Op != Close {
			c.To = m.Apply(c.To)
		}
		out.Cmds[i] = c
	}
	return out
}
