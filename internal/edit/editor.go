/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package edit hosts shapes for interactive editing: hit testing, handle
// drags that follow flips, snapped moves and per-shape undo.
//
// An Editor is not safe for concurrent use. Pointer events are expected to
// arrive from a single interaction goroutine.
package edit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopathway/internal/config"
	"gopathway/internal/domain"
	applog "gopathway/internal/log"
	"gopathway/internal/shape"
	"gopathway/internal/undo"
	"gopathway/internal/vector"
)

var (
	ErrUnknownShape  = errors.New("unknown shape")
	ErrNotPressed    = errors.New("nothing pressed")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Options configures an Editor.
type Options struct {
	ZoomPercent            float64
	RotationHandleDistance float64 // model units
	HitRadiusPx            float64
	Snap                   vector.SnapOptions
	Undo                   undo.Config
	Logger                 *slog.Logger
	// Now stamps undo snapshots; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions mirrors config.Defaults.
func DefaultOptions() Options { return OptionsFromConfig(config.Defaults()) }

// OptionsFromConfig maps the user configuration onto editor options.
func OptionsFromConfig(cfg config.AppConfig) Options {
	o := Options{
		ZoomPercent:            cfg.View.ZoomPercent,
		RotationHandleDistance: cfg.Handles.RotationDistance,
		HitRadiusPx:            cfg.Handles.HitRadiusPx,
		Undo: undo.Config{
			MaxSnapshots: cfg.Undo.MaxSnapshots,
			MaxPerShape:  cfg.Undo.MaxPerShape,
			MinInterval:  time.Duration(cfg.Undo.MinIntervalMs) * time.Millisecond,
		},
	}
	if cfg.Snapping.Enabled {
		o.Snap = vector.SnapOptions{
			Threshold:     cfg.Snapping.Threshold,
			SnapToEdges:   cfg.Snapping.Edges,
			SnapToCenters: cfg.Snapping.Centers,
		}
	}
	return o
}

// Hit is the result of a press: the shape and the handle under the pointer.
// Handle is shape.HandleNone when the body was hit.
type Hit struct {
	Shape  shape.ID
	Handle shape.Handle
}

type item struct {
	s  *shape.Shape
	el *domain.Element
}

type pressState struct {
	active bool
	hit    Hit
	// view-space pointer position at press time
	origin vector.Pt
	// model-space bounds at press time, for snapped moves
	startBounds vector.Rect
	recorded    bool
	guides      []vector.GuideLine
}

// Editor owns a view, its shapes in z order and their history.
type Editor struct {
	opts   Options
	view   *shape.View
	items  []*item
	byID   map[shape.ID]*item
	nextID shape.ID
	hist   *undo.Manager
	press  pressState
	log    *slog.Logger
}

// New creates an empty editor.
func New(opts Options) *Editor {
	if opts.HitRadiusPx <= 0 {
		opts.HitRadiusPx = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("edit")
	}
	return &Editor{
		opts:   opts,
		view:   shape.NewView(opts.ZoomPercent),
		byID:   make(map[shape.ID]*item),
		nextID: 1,
		hist:   undo.NewManager(opts.Undo),
		log:    opts.Logger,
	}
}

// Add places a copy of el on top of the z order and returns its shape.
func (e *Editor) Add(el domain.Element) *shape.Shape {
	rec := el
	id := e.nextID
	e.nextID++
	var opts []shape.Option
	if e.opts.RotationHandleDistance > 0 {
		opts = append(opts, shape.WithRotationHandleDistance(e.opts.RotationHandleDistance))
	}
	s := shape.New(id, rec.Kind, &rec, e.view, opts...)
	it := &item{s: s, el: &rec}
	e.items = append(e.items, it)
	e.byID[id] = it
	e.log.Debug("shape added", slog.Int("shape", int(id)), slog.String("element", rec.ID), slog.String("kind", rec.Kind.String()))
	return s
}

// Remove deletes a shape and its history.
func (e *Editor) Remove(id shape.ID) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	for i, x := range e.items {
		if x == it {
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
	delete(e.byID, id)
	e.hist.ClearShape(int(id))
	if e.press.active && e.press.hit.Shape == id {
		e.press = pressState{}
	}
	return nil
}

// Shape returns the shape with the given id.
func (e *Editor) Shape(id shape.ID) (*shape.Shape, bool) {
	it, ok := e.byID[id]
	if !ok {
		return nil, false
	}
	return it.s, true
}

// Shapes returns all shapes bottom to top.
func (e *Editor) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, 0, len(e.items))
	for _, it := range e.items {
		out = append(out, it.s)
	}
	return out
}

// Element returns a copy of the record behind a shape.
func (e *Editor) Element(id shape.ID) (domain.Element, bool) {
	it, ok := e.byID[id]
	if !ok {
		return domain.Element{}, false
	}
	return *it.el, true
}

// Find resolves an element ID to the topmost shape carrying it.
func (e *Editor) Find(elementID string) (shape.ID, bool) {
	for i := len(e.items) - 1; i >= 0; i-- {
		if e.items[i].el.ID == elementID {
			return e.items[i].s.ID(), true
		}
	}
	return 0, false
}

// Zoom returns the current zoom percentage.
func (e *Editor) Zoom() float64 { return e.view.Zoom() }

// Factor returns the current model-to-view factor.
func (e *Editor) Factor() float64 { return e.view.Factor() }

// SetZoom changes the zoom and relays out every shape.
func (e *Editor) SetZoom(percent float64) error {
	if err := e.view.SetZoom(percent); err != nil {
		return err
	}
	for _, it := range e.items {
		it.s.OnModelChanged()
	}
	return nil
}

// HitTest finds what lies under a view point. Handles win over bodies;
// within each pass the topmost shape wins.
func (e *Editor) HitTest(vp vector.Pt) (Hit, bool) {
	for i := len(e.items) - 1; i >= 0; i-- {
		s := e.items[i].s
		if h, ok := s.HandleAt(vp, e.opts.HitRadiusPx); ok {
			return Hit{Shape: s.ID(), Handle: h}, true
		}
	}
	for i := len(e.items) - 1; i >= 0; i-- {
		s := e.items[i].s
		if s.Contains(vp) {
			return Hit{Shape: s.ID(), Handle: shape.HandleNone}, true
		}
	}
	return Hit{}, false
}

// Press starts a gesture at a view point.
func (e *Editor) Press(vp vector.Pt) (Hit, bool) {
	hit, ok := e.HitTest(vp)
	if !ok {
		e.press = pressState{}
		return Hit{}, false
	}
	e.begin(hit, vp)
	return hit, true
}

// PressHandle starts a drag of a specific handle regardless of hit testing.
func (e *Editor) PressHandle(id shape.ID, h shape.Handle) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	if !it.s.Offers(h) {
		return fmt.Errorf("shape %d (%s) has no %s handle", id, it.s.Kind(), h)
	}
	e.begin(Hit{Shape: id, Handle: h}, it.s.HandleViewPosition(h))
	return nil
}

// PressBody starts a move of a shape from the given view point.
func (e *Editor) PressBody(id shape.ID, vp vector.Pt) error {
	if _, err := e.lookup(id); err != nil {
		return err
	}
	e.begin(Hit{Shape: id, Handle: shape.HandleNone}, vp)
	return nil
}

func (e *Editor) begin(hit Hit, vp vector.Pt) {
	it := e.byID[hit.Shape]
	e.press = pressState{active: true, hit: hit, origin: vp, startBounds: it.s.Bounds()}
	e.log.Debug("press", slog.Int("shape", int(hit.Shape)), slog.String("handle", hit.Handle.String()))
}

// Pressed returns the current gesture target.
func (e *Editor) Pressed() (Hit, bool) { return e.press.hit, e.press.active }

// Guides returns the smart guides produced by the last snapped move.
func (e *Editor) Guides() []vector.GuideLine { return e.press.guides }

// Drag continues the current gesture to a view point. For a handle the
// returned hit carries the active handle, which changes when the shape flips.
func (e *Editor) Drag(vp vector.Pt) (Hit, error) {
	if !e.press.active {
		return Hit{}, ErrNotPressed
	}
	it, ok := e.byID[e.press.hit.Shape]
	if !ok {
		e.press = pressState{}
		return Hit{}, fmt.Errorf("shape %d: %w", e.press.hit.Shape, ErrUnknownShape)
	}
	if !e.press.recorded {
		e.record(it)
		e.press.recorded = true
	}
	if e.press.hit.Handle != shape.HandleNone {
		active := it.s.AdjustToHandleView(e.press.hit.Handle, vp)
		if active != e.press.hit.Handle {
			e.log.Debug("active handle switched", slog.Int("shape", int(e.press.hit.Shape)),
				slog.String("from", e.press.hit.Handle.String()), slog.String("to", active.String()))
		}
		e.press.hit.Handle = active
		return e.press.hit, nil
	}
	e.dragBody(it, vp)
	return e.press.hit, nil
}

func (e *Editor) dragBody(it *item, vp vector.Pt) {
	d := shape.ViewToModel(vp.Sub(e.press.origin), e.view.Factor())
	target := e.press.startBounds
	target.X += d.X
	target.Y += d.Y
	e.press.guides = nil
	if e.opts.Snap.Enabled() {
		target, e.press.guides = vector.ComputeSmartGuides(target, e.anchors(it), e.opts.Snap)
	}
	cur := it.s.Bounds()
	it.s.MoveBy(target.X-cur.X, target.Y-cur.Y)
}

func (e *Editor) anchors(moving *item) []vector.Anchor {
	out := make([]vector.Anchor, 0, len(e.items))
	for _, it := range e.items {
		if it == moving || it.el.Kind == domain.KindSelectionBox {
			continue
		}
		out = append(out, vector.Anchor{Rect: it.s.Bounds(), Weight: 1})
	}
	return out
}

// Release ends the gesture and lays out every handle again.
func (e *Editor) Release() (Hit, bool) {
	if !e.press.active {
		return Hit{}, false
	}
	hit := e.press.hit
	if it, ok := e.byID[hit.Shape]; ok {
		it.s.OnModelChanged()
	}
	e.press = pressState{}
	e.log.Debug("release", slog.Int("shape", int(hit.Shape)), slog.String("handle", hit.Handle.String()))
	return hit, true
}

// Rotate sets the absolute rotation of a shape.
func (e *Editor) Rotate(id shape.ID, angle float64) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	e.record(it)
	it.s.SetRotation(angle)
	return nil
}

// MoveBy translates a shape in model units without snapping.
func (e *Editor) MoveBy(id shape.ID, dx, dy float64) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	e.record(it)
	it.s.MoveBy(dx, dy)
	return nil
}

// SetScaleRectangle replaces the view-space bounds of a shape.
func (e *Editor) SetScaleRectangle(id shape.ID, r vector.Rect) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	e.record(it)
	it.s.SetScaleRectangle(r)
	return nil
}

// Undo restores the state before the latest change of a shape.
func (e *Editor) Undo(id shape.ID) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	snap, ok := e.hist.Undo(int(id), it.el.Snapshot())
	if !ok {
		return fmt.Errorf("shape %d: %w", id, ErrNothingToUndo)
	}
	it.el.Restore(snap.State)
	it.s.OnModelChanged()
	return nil
}

// Redo reapplies the latest undone change of a shape.
func (e *Editor) Redo(id shape.ID) error {
	it, err := e.lookup(id)
	if err != nil {
		return err
	}
	snap, ok := e.hist.Redo(int(id), it.el.Snapshot())
	if !ok {
		return fmt.Errorf("shape %d: %w", id, ErrNothingToRedo)
	}
	it.el.Restore(snap.State)
	it.s.OnModelChanged()
	return nil
}

func (e *Editor) record(it *item) {
	e.hist.PushSnapshot(undo.Snapshot{ShapeID: int(it.s.ID()), State: it.el.Snapshot(), TS: e.opts.Now()})
}

func (e *Editor) lookup(id shape.ID) (*item, error) {
	it, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("shape %d: %w", id, ErrUnknownShape)
	}
	return it, nil
}
