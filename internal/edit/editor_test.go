/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package edit

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"gopathway/internal/config"
	"gopathway/internal/domain"
	"gopathway/internal/shape"
	"gopathway/internal/vector"
)

const eps = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func quietOptions() Options {
	o := DefaultOptions()
	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return o
}

// box is 100x50 px at 100% zoom.
func box(id string, left, top float64) domain.Element {
	return domain.Element{ID: id, Kind: domain.KindGeneric, Left: left, Top: top, Width: 1500, Height: 750}
}

func TestAddFindRemove(t *testing.T) {
	e := New(quietOptions())
	a := e.Add(box("a", 0, 0))
	b := e.Add(box("b", 3000, 0))
	if got := e.Shapes(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("shapes not in insertion order")
	}
	if id, ok := e.Find("b"); !ok || id != b.ID() {
		t.Fatalf("Find(b) = %v,%v", id, ok)
	}
	if err := e.Remove(a.ID()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := e.Shape(a.ID()); ok {
		t.Fatalf("removed shape still present")
	}
	if err := e.Remove(a.ID()); !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("second Remove err = %v, want ErrUnknownShape", err)
	}
}

func TestPress_HandleBeforeBody(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	hit, ok := e.Press(vector.Pt{X: 101, Y: 25})
	if !ok || hit.Shape != s.ID() || hit.Handle != shape.HandleE {
		t.Fatalf("press near E = %+v,%v", hit, ok)
	}
	hit, ok = e.Press(vector.Pt{X: 50, Y: 25})
	if !ok || hit.Handle != shape.HandleNone {
		t.Fatalf("press inside = %+v,%v, want body", hit, ok)
	}
	if _, ok := e.Press(vector.Pt{X: 500, Y: 500}); ok {
		t.Fatalf("press on empty canvas must miss")
	}
	if _, pressed := e.Pressed(); pressed {
		t.Fatalf("a miss must clear the pressed state")
	}
}

func TestPress_TopmostWins(t *testing.T) {
	e := New(quietOptions())
	e.Add(box("under", 0, 0))
	top := e.Add(box("over", 750, 0))
	hit, ok := e.Press(vector.Pt{X: 75, Y: 25})
	if !ok || hit.Shape != top.ID() {
		t.Fatalf("overlap press hit %+v, want topmost %d", hit, top.ID())
	}
}

func TestDrag_HandleFollowsFlip(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	if err := e.PressHandle(s.ID(), shape.HandleE); err != nil {
		t.Fatalf("PressHandle: %v", err)
	}
	hit, err := e.Drag(vector.Pt{X: -20, Y: 25})
	if err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if hit.Handle != shape.HandleW {
		t.Fatalf("active handle = %v, want W after flip", hit.Handle)
	}
	el, _ := e.Element(s.ID())
	if !near(el.Left, -300) || !near(el.Width, 300) {
		t.Fatalf("after flip left=%v width=%v, want -300/300", el.Left, el.Width)
	}
	// keep dragging: the new active handle is W, the old W edge stays put
	if _, err := e.Drag(vector.Pt{X: -40, Y: 25}); err != nil {
		t.Fatalf("Drag: %v", err)
	}
	el, _ = e.Element(s.ID())
	if !near(el.Left, -600) || !near(el.Width, 600) {
		t.Fatalf("continued drag left=%v width=%v, want -600/600", el.Left, el.Width)
	}
	hit, ok := e.Release()
	if !ok || hit.Handle != shape.HandleW {
		t.Fatalf("Release = %+v,%v", hit, ok)
	}
}

func TestRelease_RelaysOutDraggedHandle(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	_ = e.PressHandle(s.ID(), shape.HandleE)
	if _, err := e.Drag(vector.Pt{X: 120, Y: 30}); err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if p := s.HandleViewPosition(shape.HandleE); !p.Near(vector.Pt{X: 120, Y: 30}, eps) {
		t.Fatalf("dragged handle should stay under the pointer, got %+v", p)
	}
	e.Release()
	if p := s.HandleViewPosition(shape.HandleE); !p.Near(vector.Pt{X: 120, Y: 25}, eps) {
		t.Fatalf("after release E = %+v, want (120,25)", p)
	}
}

func TestDrag_BodySnapsToNeighbour(t *testing.T) {
	e := New(quietOptions())
	e.Add(box("a", 0, 0))
	b := e.Add(box("b", 3000, 0))
	if err := e.PressBody(b.ID(), vector.Pt{X: 250, Y: 25}); err != nil {
		t.Fatalf("PressBody: %v", err)
	}
	if _, err := e.Drag(vector.Pt{X: 153, Y: 27}); err != nil {
		t.Fatalf("Drag: %v", err)
	}
	el, _ := e.Element(b.ID())
	if !near(el.Left, 1500) || !near(el.Top, 0) {
		t.Fatalf("snapped position = (%v,%v), want (1500,0)", el.Left, el.Top)
	}
	if len(e.Guides()) != 2 {
		t.Fatalf("expected a guide per axis, got %d", len(e.Guides()))
	}
}

func TestDrag_BodyWithoutSnapping(t *testing.T) {
	o := quietOptions()
	o.Snap = vector.SnapOptions{}
	e := New(o)
	e.Add(box("a", 0, 0))
	b := e.Add(box("b", 3000, 0))
	_ = e.PressBody(b.ID(), vector.Pt{X: 250, Y: 25})
	_, _ = e.Drag(vector.Pt{X: 153, Y: 27})
	el, _ := e.Element(b.ID())
	if !near(el.Left, 1545) || !near(el.Top, 30) {
		t.Fatalf("unsnapped position = (%v,%v), want (1545,30)", el.Left, el.Top)
	}
	if len(e.Guides()) != 0 {
		t.Fatalf("no guides expected without snapping")
	}
}

func TestDrag_WithoutPress(t *testing.T) {
	e := New(quietOptions())
	if _, err := e.Drag(vector.Pt{}); !errors.Is(err, ErrNotPressed) {
		t.Fatalf("err = %v, want ErrNotPressed", err)
	}
}

func TestPressHandle_NotOffered(t *testing.T) {
	e := New(quietOptions())
	el := box("lbl", 0, 0)
	el.Kind = domain.KindLabel
	s := e.Add(el)
	if err := e.PressHandle(s.ID(), shape.HandleR); err == nil {
		t.Fatalf("label must not offer a rotation handle")
	}
}

func TestGestureIsOneUndoStep(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	_ = e.PressHandle(s.ID(), shape.HandleSE)
	_, _ = e.Drag(vector.Pt{X: 150, Y: 80})
	_, _ = e.Drag(vector.Pt{X: 160, Y: 90})
	e.Release()
	if err := e.Undo(s.ID()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	el, _ := e.Element(s.ID())
	if el.Width != 1500 || el.Height != 750 {
		t.Fatalf("undo should restore the pre-gesture size, got %vx%v", el.Width, el.Height)
	}
	if err := e.Undo(s.ID()); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second Undo err = %v", err)
	}
}

func TestRotateUndoRedo(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	if err := e.Rotate(s.ID(), math.Pi/2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if err := e.Undo(s.ID()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if el, _ := e.Element(s.ID()); el.Rotation != 0 {
		t.Fatalf("rotation after undo = %v", el.Rotation)
	}
	if p := s.HandlePosition(shape.HandleE); !p.Near(vector.Pt{X: 1500, Y: 375}, eps) {
		t.Fatalf("handles not relaid out after undo: %+v", p)
	}
	if err := e.Redo(s.ID()); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if el, _ := e.Element(s.ID()); !near(el.Rotation, math.Pi/2) {
		t.Fatalf("rotation after redo = %v", el.Rotation)
	}
	if err := e.Redo(s.ID()); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("second Redo err = %v", err)
	}
}

func TestMoveByAndUnknownShape(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	if err := e.MoveBy(s.ID(), 15, -30); err != nil {
		t.Fatalf("MoveBy: %v", err)
	}
	if el, _ := e.Element(s.ID()); el.Left != 15 || el.Top != -30 {
		t.Fatalf("moved to (%v,%v)", el.Left, el.Top)
	}
	if err := e.MoveBy(99, 1, 1); !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("err = %v, want ErrUnknownShape", err)
	}
}

func TestSetZoomRelaysOut(t *testing.T) {
	e := New(quietOptions())
	s := e.Add(box("a", 0, 0))
	if err := e.SetZoom(200); err != nil {
		t.Fatalf("SetZoom: %v", err)
	}
	if p := s.HandleViewPosition(shape.HandleE); !p.Near(vector.Pt{X: 200, Y: 50}, eps) {
		t.Fatalf("E at 200%% = %+v, want (200,50)", p)
	}
	if err := e.SetZoom(0); err == nil {
		t.Fatalf("zero zoom must be rejected")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Snapping.Enabled = false
	cfg.Handles.RotationDistance = 450
	o := OptionsFromConfig(cfg)
	if o.Snap.Enabled() {
		t.Fatalf("snapping should be off")
	}
	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(o)
	s := e.Add(box("a", 0, 0))
	if p := s.HandlePosition(shape.HandleR); !p.Near(vector.Pt{X: 1500 + 450, Y: 375}, eps) {
		t.Fatalf("R = %+v, want configured distance", p)
	}
}
