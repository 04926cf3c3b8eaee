/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package scene

import (
	"fmt"
	"log/slog"

	"gopathway/internal/edit"
	applog "gopathway/internal/log"
	"gopathway/internal/shape"
	"gopathway/internal/vector"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Index int
	Op    Op
	Shape shape.ID
	// Handle is the active handle after a drag; HandleNone otherwise.
	Handle shape.Handle
}

// Result maps element IDs to the shapes created for them.
type Result struct {
	IDs   map[string]shape.ID
	Steps []StepResult
}

// Apply adds the document's shapes to e and replays its steps in order.
// It stops at the first failing step.
func Apply(e *edit.Editor, doc Document) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("scene"), "apply")
	res := Result{IDs: make(map[string]shape.ID, len(doc.Shapes))}
	if doc.Zoom > 0 {
		if err := e.SetZoom(doc.Zoom); err != nil {
			return res, err
		}
	}
	for _, el := range doc.Shapes {
		s := e.Add(el)
		res.IDs[el.ID] = s.ID()
	}
	for i, st := range doc.Steps {
		sr, err := applyStep(e, res.IDs, st)
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		}
		sr.Index = i
		res.Steps = append(res.Steps, sr)
		l.Debug("step applied", slog.Int("index", i), slog.String("step", string(st.Op)),
			slog.String("shape", st.Shape), slog.String("handle", sr.Handle.String()))
	}
	return res, nil
}

func applyStep(e *edit.Editor, ids map[string]shape.ID, st Step) (StepResult, error) {
	sr := StepResult{Op: st.Op, Handle: shape.HandleNone}
	if st.Op == OpZoom {
		if st.Zoom == nil {
			return sr, fmt.Errorf("missing zoom")
		}
		return sr, e.SetZoom(*st.Zoom)
	}
	id, ok := ids[st.Shape]
	if !ok {
		return sr, fmt.Errorf("shape %q: %w", st.Shape, edit.ErrUnknownShape)
	}
	sr.Shape = id
	switch st.Op {
	case OpDrag:
		h, err := drag(e, id, st)
		sr.Handle = h
		return sr, err
	case OpRotate:
		if st.Angle == nil {
			return sr, fmt.Errorf("missing angle")
		}
		return sr, e.Rotate(id, *st.Angle)
	case OpMove:
		return sr, e.MoveBy(id, st.DX, st.DY)
	case OpUndo:
		return sr, e.Undo(id)
	case OpRedo:
		return sr, e.Redo(id)
	default:
		return sr, fmt.Errorf("unknown op %q", st.Op)
	}
}

func drag(e *edit.Editor, id shape.ID, st Step) (shape.Handle, error) {
	toView := func(p Point) vector.Pt {
		v := vector.Pt{X: p.X, Y: p.Y}
		if st.Space == SpaceView {
			return v
		}
		return shape.ModelToView(v, e.Factor())
	}
	switch {
	case st.Handle != "":
		h, err := shape.ParseHandle(st.Handle)
		if err != nil {
			return shape.HandleNone, err
		}
		if err := e.PressHandle(id, h); err != nil {
			return shape.HandleNone, err
		}
	case st.From != nil:
		if err := e.PressBody(id, toView(*st.From)); err != nil {
			return shape.HandleNone, err
		}
	default:
		return shape.HandleNone, fmt.Errorf("drag needs a handle or a start point")
	}
	for _, p := range st.To {
		if _, err := e.Drag(toView(p)); err != nil {
			e.Release()
			return shape.HandleNone, err
		}
	}
	hit, _ := e.Release()
	return hit.Handle, nil
}

// FromEditor captures the current shapes of e as a document without steps.
func FromEditor(e *edit.Editor) Document {
	doc := Document{Version: CurrentVersion, Zoom: e.Zoom()}
	for _, s := range e.Shapes() {
		if el, ok := e.Element(s.ID()); ok {
			doc.Shapes = append(doc.Shapes, el)
		}
	}
	return doc
}
