/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shape implements the handle-based resize and rotate engine for
// box-like pathway elements. A Shape wraps a model record, keeps nine
// handles laid out on the (rotated) box and translates handle drags back
// into model geometry.
//
// All operations are synchronous and meant to run on the interaction
// goroutine; a Shape is not safe for concurrent use.
package shape

import (
	"fmt"
	"log/slog"

	"gopathway/internal/domain"
	applog "gopathway/internal/log"
	"gopathway/internal/vector"
)

// DefaultRotationHandleDistance places the rotation handle 20px beyond the
// east edge at 100% zoom.
const DefaultRotationHandleDistance = 20 * ModelUnitsPerPixel

// ID identifies a shape within its editor.
type ID int

// Model is the coordinate record a shape edits. Values are model units,
// rotation is in radians. Setting a center keeps the size.
type Model interface {
	MLeft() float64
	MTop() float64
	MWidth() float64
	MHeight() float64
	Rot() float64
	MCenterX() float64
	MCenterY() float64
	SetMLeft(float64)
	SetMTop(float64)
	SetMWidth(float64)
	SetMHeight(float64)
	SetRot(float64)
	SetMCenterX(float64)
	SetMCenterY(float64)
}

var _ Model = (*domain.Element)(nil)

// Option customises a Shape.
type Option func(*Shape)

// WithRotationHandleDistance sets the distance (model units) between the
// east edge and the rotation handle.
func WithRotationHandleDistance(d float64) Option {
	return func(s *Shape) {
		if d > 0 {
			s.rotDist = d
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shape) {
		if l != nil {
			s.log = l
		}
	}
}

// Shape binds a model record to a viewport and owns its handles.
type Shape struct {
	id      ID
	kind    domain.Kind
	caps    domain.Capabilities
	model   Model
	view    Viewport
	rotDist float64
	handles [numHandles]HandleInfo
	log     *slog.Logger
}

// New creates a shape for model m shown in view v (nil means 100% zoom) and
// lays out its handles.
func New(id ID, kind domain.Kind, m Model, v Viewport, opts ...Option) *Shape {
	if m == nil {
		panic("shape: nil model")
	}
	if v == nil {
		v = NewView(100)
	}
	s := &Shape{
		id:      id,
		kind:    kind,
		caps:    kind.Capabilities(),
		model:   m,
		view:    v,
		rotDist: DefaultRotationHandleDistance,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("shape").With(slog.Int("shape", int(id)))
	}
	for i := range s.handles {
		h := Handle(i)
		s.handles[i] = HandleInfo{Handle: h, Direction: handleDirections[h], Owner: id}
	}
	s.relayout(HandleNone)
	return s
}

func (s *Shape) ID() ID             { return s.id }
func (s *Shape) Kind() domain.Kind  { return s.kind }
func (s *Shape) Model() Model       { return s.model }
func (s *Shape) Viewport() Viewport { return s.view }

// Handles lists the handles this shape offers, in drawing order.
func (s *Shape) Handles() []Handle {
	if s.caps.CornerOnly {
		return []Handle{HandleNE, HandleSE, HandleSW, HandleNW}
	}
	hs := []Handle{HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW}
	if s.caps.HasRotationHandle {
		hs = append(hs, HandleR)
	}
	return hs
}

// Offers reports whether h belongs to this shape's handle set.
func (s *Shape) Offers(h Handle) bool {
	switch {
	case int(h) >= numHandles:
		return false
	case h == HandleR:
		return s.caps.HasRotationHandle && !s.caps.CornerOnly
	case s.caps.CornerOnly:
		return handleDirections[h] == DirFree
	default:
		return true
	}
}

func (s *Shape) mustOffer(h Handle) {
	if !s.Offers(h) {
		panic(fmt.Sprintf("shape: %s does not offer handle %s", s.kind, h))
	}
}

// Handle returns the current state of h.
func (s *Shape) Handle(h Handle) HandleInfo {
	mustValid(h)
	return s.handles[h]
}

// HandlePosition is the current model position of h. While h is dragged
// this is the pointer position rather than the default location.
func (s *Shape) HandlePosition(h Handle) vector.Pt {
	mustValid(h)
	return s.handles[h].Pos
}

// HandleViewPosition is HandlePosition in view space.
func (s *Shape) HandleViewPosition(h Handle) vector.Pt {
	return ModelToView(s.HandlePosition(h), s.view.Factor())
}

// MCenter returns the center of the shape in model units.
func (s *Shape) MCenter() vector.Pt {
	return vector.Pt{X: s.model.MCenterX(), Y: s.model.MCenterY()}
}

// VCenter returns the center in view space.
func (s *Shape) VCenter() vector.Pt { return ModelToView(s.MCenter(), s.view.Factor()) }

func (s *Shape) setMCenter(c vector.Pt) {
	s.model.SetMCenterX(c.X)
	s.model.SetMCenterY(c.Y)
}

// LocalTransform maps the shape's local frame (origin at the center, axes
// along the rotated box) into model space.
func (s *Shape) LocalTransform() vector.Affine2D {
	c := s.MCenter()
	return vector.Translate(c.X, c.Y).Mul(vector.Rotate(s.model.Rot()))
}

// ToInternal maps a model point into the shape's local frame.
func (s *Shape) ToInternal(p vector.Pt) vector.Pt {
	return s.LocalTransform().Invert().Apply(p)
}

// ToExternal is the inverse of ToInternal.
func (s *Shape) ToExternal(p vector.Pt) vector.Pt {
	return s.LocalTransform().Apply(p)
}

// CalcNewCenter returns the center the shape gets when it is resized to
// the given size while its internal north-west corner stays put. The center
// travels along the rotated axes.
func (s *Shape) CalcNewCenter(mWidthNew, mHeightNew float64) vector.Pt {
	d := vector.Pt{X: (mWidthNew - s.model.MWidth()) / 2, Y: (mHeightNew - s.model.MHeight()) / 2}
	return vector.RotatePt(d, s.model.Rot()).Add(s.MCenter())
}

// DefaultHandlePosition is where h sits for the current geometry, in model units.
func (s *Shape) DefaultHandlePosition(h Handle) vector.Pt {
	mustValid(h)
	hw, hh := s.model.MWidth()/2, s.model.MHeight()/2
	if h == HandleR {
		return s.ToExternal(vector.Pt{X: hw + s.rotDist})
	}
	sg := handleSigns[h]
	return s.ToExternal(vector.Pt{X: sg.X * hw, Y: sg.Y * hh})
}

// DefaultHandleViewPosition is DefaultHandlePosition in view space.
func (s *Shape) DefaultHandleViewPosition(h Handle) vector.Pt {
	return ModelToView(s.DefaultHandlePosition(h), s.view.Factor())
}

// relayout moves every handle except ignore to its default position.
func (s *Shape) relayout(ignore Handle) {
	rot := s.model.Rot()
	for i := range s.handles {
		h := Handle(i)
		if h != ignore {
			s.handles[i].Pos = s.DefaultHandlePosition(h)
		}
		s.handles[i].Rotation = rot
	}
}

// OnModelChanged re-reads the model after an outside change.
func (s *Shape) OnModelChanged() { s.relayout(HandleNone) }

// RelayoutExcept repositions all handles but the one being dragged.
func (s *Shape) RelayoutExcept(dragged Handle) { s.relayout(dragged) }

// SetRotation stores angle normalised into [0, 2π).
func (s *Shape) SetRotation(angle float64) {
	s.setRotation(angle)
	s.relayout(HandleNone)
}

func (s *Shape) setRotation(angle float64) {
	s.model.SetRot(vector.NormalizeAngle(angle))
}

// MoveBy translates the shape by a model-space delta.
func (s *Shape) MoveBy(dx, dy float64) {
	s.model.SetMLeft(s.model.MLeft() + dx)
	s.model.SetMTop(s.model.MTop() + dy)
	s.relayout(HandleNone)
}

// MoveByView translates the shape by a view-space delta.
func (s *Shape) MoveByView(vdx, vdy float64) {
	f := s.view.Factor()
	s.MoveBy(vdx/f, vdy/f)
}

// ScaleRectangle returns the unrotated box in view space.
func (s *Shape) ScaleRectangle() vector.Rect {
	f := s.view.Factor()
	return vector.Rect{
		X: s.model.MLeft() * f,
		Y: s.model.MTop() * f,
		W: s.model.MWidth() * f,
		H: s.model.MHeight() * f,
	}
}

// SetScaleRectangle sets the unrotated box from view-space values. A
// negative width or height is flipped around the same center.
func (s *Shape) SetScaleRectangle(r vector.Rect) {
	f := s.view.Factor()
	s.model.SetMWidth(r.W / f)
	s.model.SetMHeight(r.H / f)
	s.model.SetMLeft(r.X / f)
	s.model.SetMTop(r.Y / f)
	s.correctNegativeSize(HandleNone)
	s.relayout(HandleNone)
}

// AdjustToHandleView is AdjustToHandle with a view-space pointer position.
func (s *Shape) AdjustToHandleView(h Handle, vp vector.Pt) Handle {
	return s.AdjustToHandle(h, ViewToModel(vp, s.view.Factor()))
}

// AdjustToHandle updates the model after handle h was dragged to p (model
// units) and returns the handle that is active afterwards. That differs from
// h when the drag crossed the opposite edge: the size is flipped back to
// positive and dragging continues with the opposite handle.
//
// Passing a handle the shape does not offer panics.
func (s *Shape) AdjustToHandle(h Handle, p vector.Pt) Handle {
	s.mustOffer(h)
	if h == HandleR {
		s.adjustRotation(p)
		return HandleR
	}

	mih := s.ToInternal(p)
	w, ht := s.model.MWidth(), s.model.MHeight()
	sg := handleSigns[h]

	// growth of the box; the edge on the other side stays in place
	var dw, dh float64
	if sg.X != 0 {
		dw = sg.X*mih.X - w/2
	}
	if sg.Y != 0 {
		dh = sg.Y*mih.Y - ht/2
	}
	nc := s.CalcNewCenter(w+sg.X*dw, ht+sg.Y*dh)
	s.model.SetMWidth(w + dw)
	s.model.SetMHeight(ht + dh)
	s.setMCenter(nc)

	active := s.correctNegativeSize(h)
	s.relayout(active)
	s.handles[active].Pos = p
	return active
}

func (s *Shape) adjustRotation(p vector.Pt) {
	c := s.MCenter()
	def := s.DefaultHandlePosition(HandleR).Sub(c)
	cur := p.Sub(c)
	delta := vector.Angle(def, cur)
	s.setRotation(s.model.Rot() + delta)
	s.log.Debug("rotate", slog.Float64("delta", delta), slog.Float64("rotation", s.model.Rot()))
	s.relayout(HandleR)
	s.handles[HandleR].Pos = p
}
