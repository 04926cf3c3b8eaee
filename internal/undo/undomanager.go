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
	"sync"
	"time"

	"gopathway/internal/domain"
)

// Snapshot is the geometry of one shape at a point in time.
// TS is when the snapshot was captured.
type Snapshot struct {
	ShapeID int
	State   domain.Element
	TS      time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxSnapshots is a soft cap across all shapes; the oldest entries are pruned when exceeded.
	MaxSnapshots int
	// MaxPerShape limits number of snapshots per shape kept in memory (0 means unlimited).
	MaxPerShape int
	// MinInterval coalesces snapshots captured within the interval for the same shape:
	// the earlier state is kept and only its timestamp advances. Zero disables coalescing.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per shape.
// It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-shape stacks
	undo map[int][]Snapshot
	redo map[int][]Snapshot
	// accounting
	total int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxSnapshots <= 0 {
		cfg.MaxSnapshots = 2000
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Manager{cfg: cfg, undo: make(map[int][]Snapshot), redo: make(map[int][]Snapshot)}
}

// PushSnapshot records the state of a shape before a change. If within MinInterval
// from the last snapshot on the same shape, the two are merged. Clears the shape's redo stack.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo[s.ShapeID] = nil
	stack := m.undo[s.ShapeID]
	if n := len(stack); n > 0 && m.cfg.MinInterval > 0 {
		if s.TS.Sub(stack[n-1].TS) < m.cfg.MinInterval {
			stack[n-1].TS = s.TS
			return
		}
	}
	m.undo[s.ShapeID] = append(stack, s)
	m.total++
	m.enforceCapsLocked(s.ShapeID)
}

// Undo pops the latest snapshot of a shape. current is the state being replaced;
// it goes onto the redo stack so Redo can restore it.
func (m *Manager) Undo(shapeID int, current domain.Element) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[shapeID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[shapeID] = stack[:len(stack)-1]
	m.total--
	m.redo[shapeID] = append(m.redo[shapeID], Snapshot{ShapeID: shapeID, State: current, TS: s.TS})
	return s, true
}

// Redo pops from redo and records current back onto the undo stack.
func (m *Manager) Redo(shapeID int, current domain.Element) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[shapeID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[shapeID] = r[:len(r)-1]
	m.undo[shapeID] = append(m.undo[shapeID], Snapshot{ShapeID: shapeID, State: current, TS: s.TS})
	m.total++
	m.enforceCapsLocked(shapeID)
	return s, true
}

// CanUndo reports whether the shape has history.
func (m *Manager) CanUndo(shapeID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[shapeID]) > 0
}

// CanRedo reports whether an undone change can be reapplied.
func (m *Manager) CanRedo(shapeID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[shapeID]) > 0
}

// ClearShape drops undo/redo stacks for a shape, e.g. when it is removed.
func (m *Manager) ClearShape(shapeID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total -= len(m.undo[shapeID])
	delete(m.undo, shapeID)
	delete(m.redo, shapeID)
	if m.total < 0 {
		m.total = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (shapes int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.undo {
		if len(v) > 0 {
			shapes++
		}
	}
	return shapes, m.total
}

func (m *Manager) enforceCapsLocked(shapeID int) {
	// Per-shape depth cap
	if m.cfg.MaxPerShape > 0 {
		stack := m.undo[shapeID]
		if len(stack) > m.cfg.MaxPerShape {
			toDrop := len(stack) - m.cfg.MaxPerShape
			m.total -= toDrop
			m.undo[shapeID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global cap: prune oldest across all shapes
	for m.total > m.cfg.MaxSnapshots {
		oldestShape := 0
		found := false
		var oldestTS time.Time
		for id, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestShape = id
				oldestTS = stack[0].TS
				found = true
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestShape]
		m.total--
		m.undo[oldestShape] = stack[1:]
		if len(m.undo[oldestShape]) == 0 {
			delete(m.undo, oldestShape)
		}
	}
}
