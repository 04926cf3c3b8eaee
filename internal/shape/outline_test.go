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
	"testing"

	"gopathway/internal/domain"
	"gopathway/internal/vector"
)

func TestOutline_OrderAndViewSpace(t *testing.T) {
	s, _ := newTestShape(domain.KindGeneric, 0, 0, 150, 75, 0)
	pg := s.Outline()
	want := vector.Polygon{{X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}, {X: 0, Y: 0}}
	if len(pg) != 4 {
		t.Fatalf("expected 4 points, got %d", len(pg))
	}
	for i := range want {
		if !pg[i].Near(want[i], eps) {
			t.Fatalf("point %d: got %+v want %+v", i, pg[i], want[i])
		}
	}
}

func TestContains_Rotated(t *testing.T) {
	// 300x30 units = 20x2 px, rotated a quarter turn around (10,1) px
	s, _ := newTestShape(domain.KindGeneric, 0, 0, 300, 30, math.Pi/2)
	if !s.Contains(vector.Pt{X: 10, Y: 9}) {
		t.Fatalf("point on the rotated long axis should hit")
	}
	if s.Contains(vector.Pt{X: 18, Y: 1}) {
		t.Fatalf("point on the unrotated long axis should miss")
	}
}

func TestBounds_RotatedBox(t *testing.T) {
	s, _ := newTestShape(domain.KindGeneric, 0, 0, 100, 50, math.Pi/2)
	b := s.Bounds()
	if !near(b.W, 50) || !near(b.H, 100) || !near(b.X, 25) || !near(b.Y, -25) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestHandleAt(t *testing.T) {
	s, _ := newTestShape(domain.KindGeneric, 0, 0, 150, 150, 0)
	// 10x10 px box: E handle at (10,5)
	h, ok := s.HandleAt(vector.Pt{X: 11, Y: 6}, 3)
	if !ok || h != HandleE {
		t.Fatalf("expected E, got %s %v", h, ok)
	}
	if _, ok := s.HandleAt(vector.Pt{X: 5, Y: 5}, 2); ok {
		t.Fatalf("center should not hit a handle")
	}
	// rotation handle sits 20px east of the edge
	if h, ok := s.HandleAt(vector.Pt{X: 30, Y: 5}, 2); !ok || h != HandleR {
		t.Fatalf("expected R, got %s %v", h, ok)
	}
}

func TestHandleAt_SelectionBoxCornersOnly(t *testing.T) {
	s, _ := newTestShape(domain.KindSelectionBox, 0, 0, 150, 150, 0)
	if _, ok := s.HandleAt(vector.Pt{X: 10, Y: 5}, 1); ok {
		t.Fatalf("selection box has no side handles")
	}
	if h, ok := s.HandleAt(vector.Pt{X: 10, Y: 10}, 1); !ok || h != HandleSE {
		t.Fatalf("expected SE, got %s %v", h, ok)
	}
}
