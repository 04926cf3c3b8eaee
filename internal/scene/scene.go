/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package scene reads and writes scene documents: a set of pathway elements
// plus a scripted list of editing steps replayed against an editor.
package scene

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"gopathway/internal/domain"
)

//go:embed scene.schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// CurrentVersion is written by Save when a document carries none.
const CurrentVersion = 1

// Op names a scripted editing step.
type Op string

const (
	OpDrag   Op = "drag"
	OpRotate Op = "rotate"
	OpMove   Op = "move"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpZoom   Op = "zoom"
)

// Space selects the unit of step coordinates.
const (
	SpaceModel = "model"
	SpaceView  = "view"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Step is one scripted action. Which fields apply depends on Op:
// drag uses Handle (or From for a body move) and To, rotate uses Angle,
// move uses DX/DY, zoom uses Zoom.
type Step struct {
	Op     Op       `json:"op"`
	Shape  string   `json:"shape,omitempty"`
	Handle string   `json:"handle,omitempty"`
	Space  string   `json:"space,omitempty"`
	From   *Point   `json:"from,omitempty"`
	To     []Point  `json:"to,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Zoom   *float64 `json:"zoom,omitempty"`
}

// Document is the on-disk scene.
type Document struct {
	Version int              `json:"version,omitempty"`
	Zoom    float64          `json:"zoom,omitempty"`
	Shapes  []domain.Element `json:"shapes"`
	Steps   []Step           `json:"steps,omitempty"`
}

// ValidationError lists schema violations of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid scene: " + strings.Join(e.Problems, "; ")
}

// Validate checks raw JSON against the embedded scene schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, re := range res.Errors() {
		ve.Problems = append(ve.Problems, re.String())
	}
	return ve
}

// Decode validates and parses a scene document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := Validate(data); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode scene: %w", err)
	}
	seen := make(map[string]bool, len(doc.Shapes))
	for _, el := range doc.Shapes {
		if seen[el.ID] {
			return doc, &ValidationError{Problems: []string{fmt.Sprintf("duplicate shape id %q", el.ID)}}
		}
		seen[el.ID] = true
	}
	return doc, nil
}

// Load reads and decodes a scene file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read scene: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return doc, fmt.Errorf("load scene %s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document with transactional semantics: a temp file in the
// target directory is synced and then renamed over path.
func Save(path string, doc Document) error {
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if doc.Shapes == nil {
		doc.Shapes = []domain.Element{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure scene dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp scene: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace scene: %w", rerr)
	}
	return nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
