/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the pathway element record edited by the shape engine.
// All values are in model units: the logical diagram coordinate space,
// independent of the zoom level of any view.

import (
	"fmt"
	"strings"
)

// Kind tags the concrete element variant. The variant decides which
// handles the geometry engine offers.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindLabel
	KindGeneProduct
	KindSelectionBox
)

var kindNames = [...]string{
	KindGeneric:      "generic",
	KindLabel:        "label",
	KindGeneProduct:  "geneproduct",
	KindSelectionBox: "selectionbox",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindGeneric, nil
	}
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return KindGeneric, fmt.Errorf("unknown element kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Capabilities describes the handle set of a kind.
type Capabilities struct {
	HasRotationHandle bool
	CornerOnly        bool
}

// Capabilities of the kind: labels and gene products cannot be rotated
// interactively, a selection box only resizes from its corners.
func (k Kind) Capabilities() Capabilities {
	switch k {
	case KindLabel, KindGeneProduct:
		return Capabilities{}
	case KindSelectionBox:
		return Capabilities{CornerOnly: true}
	default:
		return Capabilities{HasRotationHandle: true}
	}
}

// Element is the mutable coordinate record of a pathway element.
// Left/Top describe the unrotated box; the element is drawn rotated by
// Rotation (radians) around its center.
type Element struct {
	ID       string  `json:"id" yaml:"id"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Left     float64 `json:"left" yaml:"left"`
	Top      float64 `json:"top" yaml:"top"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

func (e *Element) MLeft() float64     { return e.Left }
func (e *Element) MTop() float64      { return e.Top }
func (e *Element) MWidth() float64    { return e.Width }
func (e *Element) MHeight() float64   { return e.Height }
func (e *Element) Rot() float64       { return e.Rotation }
func (e *Element) MCenterX() float64  { return e.Left + e.Width/2 }
func (e *Element) MCenterY() float64  { return e.Top + e.Height/2 }
func (e *Element) SetMLeft(v float64) { e.Left = v }
func (e *Element) SetMTop(v float64)  { e.Top = v }

// SetMWidth changes the width keeping the left edge.
func (e *Element) SetMWidth(v float64) { e.Width = v }

// SetMHeight changes the height keeping the top edge.
func (e *Element) SetMHeight(v float64) { e.Height = v }

func (e *Element) SetRot(v float64) { e.Rotation = v }

// SetMCenterX moves the element horizontally so that its center lands on v.
func (e *Element) SetMCenterX(v float64) { e.Left = v - e.Width/2 }

// SetMCenterY moves the element vertically so that its center lands on v.
func (e *Element) SetMCenterY(v float64) { e.Top = v - e.Height/2 }

// Snapshot returns a detached copy of the record.
func (e *Element) Snapshot() Element { return *e }

// Restore overwrites the geometry with s, keeping identity.
func (e *Element) Restore(s Element) {
	e.Left, e.Top, e.Width, e.Height, e.Rotation = s.Left, s.Top, s.Width, s.Height, s.Rotation
}
