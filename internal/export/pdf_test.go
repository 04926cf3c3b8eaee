/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"testing"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleFrame(), DefaultStyle()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("missing PDF header")
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Fatalf("missing PDF trailer")
	}
}

func TestWritePDF_EmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, Frame{}, Style{}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("empty output")
	}
}
