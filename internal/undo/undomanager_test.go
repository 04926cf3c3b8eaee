/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"

	"gopathway/internal/domain"
)

func el(w float64) domain.Element {
	return domain.Element{Kind: domain.KindGeneric, Width: w, Height: 10}
}

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxSnapshots: 100, MaxPerShape: 10})
	id := 1
	t0 := time.Now()
	m.PushSnapshot(Snapshot{ShapeID: id, State: el(10), TS: t0})
	m.PushSnapshot(Snapshot{ShapeID: id, State: el(20), TS: t0.Add(20 * time.Millisecond)})
	if shapes, total := m.Stats(); shapes != 1 || total != 2 {
		t.Fatalf("expected 1 shape and 2 snapshots, got shapes=%d total=%d", shapes, total)
	}
	s, ok := m.Undo(id, el(30))
	if !ok || s.State.Width != 20 {
		t.Fatalf("undo expected width 20, got ok=%v w=%v", ok, s.State.Width)
	}
	if !m.CanRedo(id) {
		t.Fatalf("redo should be available after undo")
	}
	s, ok = m.Redo(id, el(20))
	if !ok || s.State.Width != 30 {
		t.Fatalf("redo expected width 30, got ok=%v w=%v", ok, s.State.Width)
	}
	if _, total := m.Stats(); total != 2 {
		t.Fatalf("redo must put the replaced state back on the undo stack, total=%d", total)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.PushSnapshot(Snapshot{ShapeID: 1, State: el(10), TS: time.Now()})
	m.Undo(1, el(11))
	m.PushSnapshot(Snapshot{ShapeID: 1, State: el(10), TS: time.Now()})
	if m.CanRedo(1) {
		t.Fatalf("new change must invalidate redo")
	}
}

func TestCoalesceKeepsEarliestState(t *testing.T) {
	m := NewManager(Config{MaxPerShape: 10, MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(Snapshot{ShapeID: 2, State: el(1), TS: t0})
	m.PushSnapshot(Snapshot{ShapeID: 2, State: el(2), TS: t0.Add(10 * time.Millisecond)})
	m.PushSnapshot(Snapshot{ShapeID: 2, State: el(3), TS: t0.Add(40 * time.Millisecond)})
	if _, total := m.Stats(); total != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", total)
	}
	s, ok := m.Undo(2, el(4))
	if !ok || s.State.Width != 1 {
		t.Fatalf("expected earliest state (w=1), got ok=%v w=%v", ok, s.State.Width)
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxPerShape: 2})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		m.PushSnapshot(Snapshot{ShapeID: 3, State: el(float64(i)), TS: t0.Add(time.Duration(i) * time.Millisecond)})
	}
	if _, total := m.Stats(); total != 2 {
		t.Fatalf("expected MaxPerShape cap to limit to 2, got %d", total)
	}
	s, _ := m.Undo(3, el(99))
	if s.State.Width != 9 {
		t.Fatalf("newest snapshot must survive the cap, got w=%v", s.State.Width)
	}
}
