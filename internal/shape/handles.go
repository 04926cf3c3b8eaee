/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"fmt"
	"strings"

	"gopathway/internal/vector"
)

// Handle names one of the nine control points of a shape.
type Handle uint8

const (
	HandleN Handle = iota
	HandleE
	HandleS
	HandleW
	HandleNE
	HandleSE
	HandleSW
	HandleNW
	HandleR
	// HandleNone is the "no handle" sentinel, e.g. when nothing is ignored
	// during relayout.
	HandleNone
)

const numHandles = int(HandleNone)

var handleNames = [...]string{"N", "E", "S", "W", "NE", "SE", "SW", "NW", "R", "none"}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return fmt.Sprintf("handle(%d)", uint8(h))
}

// ParseHandle resolves a handle name such as "ne" or "R".
func ParseHandle(s string) (Handle, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "ROT" || s == "ROTATION" {
		return HandleR, nil
	}
	for i := 0; i < numHandles; i++ {
		if handleNames[i] == s {
			return Handle(i), nil
		}
	}
	return HandleNone, fmt.Errorf("unknown handle %q", s)
}

// Direction is the axis a handle moves along, and doubles as the constraint
// passed to Opposite. DirXY is only meaningful as a constraint.
type Direction uint8

const (
	DirX Direction = iota
	DirY
	DirFree
	DirRotation
	DirXY
	numDirections
)

var directionNames = [...]string{"x", "y", "free", "rotation", "xy"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

var handleDirections = [numHandles]Direction{
	HandleN: DirY, HandleE: DirX, HandleS: DirY, HandleW: DirX,
	HandleNE: DirFree, HandleSE: DirFree, HandleSW: DirFree, HandleNW: DirFree,
	HandleR: DirRotation,
}

// Direction returns the movement axis of the handle.
func (h Handle) Direction() Direction {
	mustValid(h)
	return handleDirections[h]
}

// handleSigns places each resize handle on the unit box of the internal
// frame: x=-1 is the west edge, y=-1 the north edge (y grows downwards).
var handleSigns = [numHandles]vector.Pt{
	HandleN:  {X: 0, Y: -1},
	HandleE:  {X: 1, Y: 0},
	HandleS:  {X: 0, Y: 1},
	HandleW:  {X: -1, Y: 0},
	HandleNE: {X: 1, Y: -1},
	HandleSE: {X: 1, Y: 1},
	HandleSW: {X: -1, Y: 1},
	HandleNW: {X: -1, Y: -1},
}

// cornerMatrix is indexed [row][col]; row 0 is north, col 0 is west.
var cornerMatrix = [2][2]Handle{
	{HandleNW, HandleNE},
	{HandleSW, HandleSE},
}

var oppositeTable [numHandles][numDirections]Handle

func init() {
	for h := range oppositeTable {
		for d := range oppositeTable[h] {
			oppositeTable[h][d] = HandleNone
		}
	}
	sides := map[Handle]Handle{HandleN: HandleS, HandleS: HandleN, HandleE: HandleW, HandleW: HandleE}
	for h, o := range sides {
		// side handles ignore the constraint
		for d := Direction(0); d < numDirections; d++ {
			oppositeTable[h][d] = o
		}
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			h := cornerMatrix[row][col]
			diag := cornerMatrix[1-row][1-col]
			oppositeTable[h][DirXY] = diag
			oppositeTable[h][DirFree] = diag
			oppositeTable[h][DirX] = cornerMatrix[row][1-col]
			oppositeTable[h][DirY] = cornerMatrix[1-row][col]
		}
	}
}

// Opposite returns the handle opposite to h under constraint d.
// N/E/S/W always map to their complement. Corners flip both matrix indices
// for DirXY and DirFree, only the column for DirX (NE becomes NW) and only
// the row for DirY (NE becomes SE).
//
// The rotation handle has no opposite; asking for one panics.
func Opposite(h Handle, d Direction) Handle {
	mustValid(h)
	if d >= numDirections {
		panic(fmt.Sprintf("shape: invalid direction %d", d))
	}
	o := oppositeTable[h][d]
	if o == HandleNone {
		panic(fmt.Sprintf("shape: handle %s has no opposite under %s", h, d))
	}
	return o
}

func mustValid(h Handle) {
	if int(h) >= numHandles {
		panic(fmt.Sprintf("shape: invalid handle %d", h))
	}
}

// HandleInfo is the current state of one handle. Pos is in model units.
// Owner refers back to the shape by id only.
type HandleInfo struct {
	Handle    Handle
	Direction Direction
	Pos       vector.Pt
	Rotation  float64
	Owner     ID
}
