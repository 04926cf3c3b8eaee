/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"testing"

	"gopathway/internal/domain"
	"gopathway/internal/vector"
)

func TestViewRoundTrip(t *testing.T) {
	for _, zoom := range []float64{10, 33.3, 100, 250, 1600} {
		v := NewView(zoom)
		p := vector.Pt{X: 1234.5678, Y: -98.7}
		got := ViewToModel(ModelToView(p, v.Factor()), v.Factor())
		if !got.Near(p, eps) {
			t.Fatalf("zoom %v: got %+v want %+v", zoom, got, p)
		}
		if m := v.MFromV(v.VFromM(42)); !near(m, 42) {
			t.Fatalf("zoom %v: scalar round trip gave %v", zoom, m)
		}
	}
}

func TestViewFactorAndSetZoom(t *testing.T) {
	v := NewView(0)
	if v.Zoom() != 100 || !near(v.Factor(), 1.0/15) {
		t.Fatalf("unexpected default view: zoom=%v factor=%v", v.Zoom(), v.Factor())
	}
	if err := v.SetZoom(-5); err == nil {
		t.Fatalf("expected error for negative zoom")
	}
	if err := v.SetZoom(200); err != nil || !near(v.Factor(), 2.0/15) {
		t.Fatalf("SetZoom(200): factor=%v err=%v", v.Factor(), err)
	}
}

func TestAdjustToHandleView_FollowsZoom(t *testing.T) {
	e := &domain.Element{Width: 100, Height: 50}
	v := NewView(150) // factor 0.1
	s := New(7, domain.KindGeneric, e, v, WithLogger(quiet))
	s.AdjustToHandleView(HandleS, vector.Pt{X: 5, Y: 8})
	if !near(e.Height, 80) || e.Top != 0 {
		t.Fatalf("unexpected geometry: %+v", *e)
	}
	if got := s.HandleViewPosition(HandleS); !got.Near(vector.Pt{X: 5, Y: 8}, eps) {
		t.Fatalf("dragged handle view position: %+v", got)
	}
}

func TestScaleRectangleRoundTrip(t *testing.T) {
	e := &domain.Element{}
	s := New(1, domain.KindGeneric, e, NewView(300), WithLogger(quiet))
	r := vector.Rect{X: 4, Y: 6, W: 20, H: 10}
	s.SetScaleRectangle(r)
	if !near(e.Width, 100) || !near(e.Left, 20) {
		t.Fatalf("unexpected model values: %+v", *e)
	}
	got := s.ScaleRectangle()
	if !near(got.X, r.X) || !near(got.Y, r.Y) || !near(got.W, r.W) || !near(got.H, r.H) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSetScaleRectangleNormalizesNegativeSize(t *testing.T) {
	e := &domain.Element{}
	s := New(1, domain.KindGeneric, e, NewView(300), WithLogger(quiet))
	s.SetScaleRectangle(vector.Rect{X: 30, Y: 6, W: -15, H: 9})
	if !near(e.Width, 5) || !near(e.Left, 5) || !near(e.Height, 3) || !near(e.Top, 2) {
		t.Fatalf("negative width not flipped around the center: %+v", *e)
	}
	s.SetScaleRectangle(vector.Rect{X: 30, Y: 6, W: -15, H: -9})
	if e.Width < 0 || e.Height < 0 {
		t.Fatalf("size still negative: %+v", *e)
	}
	if !near(e.Top, -1) || !near(e.Height, 3) {
		t.Fatalf("negative height not flipped around the center: %+v", *e)
	}
	if got := s.HandlePosition(HandleNW); !got.Near(vector.Pt{X: 5, Y: -1}, eps) {
		t.Fatalf("handles not relaid out: %+v", got)
	}
}
