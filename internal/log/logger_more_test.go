/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFromEnvAndGetenv(t *testing.T) {
	t.Setenv("GPW_LOG_LEVEL", "warn")
	t.Setenv("GPW_LOG_FORMAT", "json")
	t.Setenv("GPW_LOG_SOURCE", "true")
	t.Setenv("GPW_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("GPW_SURELY_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestPrettyTextHandler_Behavior(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{level: slog.LevelWarn, w: &buf}
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")})
	h2 = h2.WithGroup("grp")

	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.Bool("ok", true))
	if err := h2.Handle(ctx, r); err != nil {
		t.Fatalf("handle error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "boom") || !strings.Contains(out, " k=v") {
		t.Fatalf("output missing expected content: %q", out)
	}
	if strings.Contains(out, "grp.k=v") {
		t.Fatalf("attr added before the group must not be prefixed: %q", out)
	}
	if !strings.Contains(out, "grp.n=42") || !strings.Contains(out, "grp.ok=true") {
		t.Fatalf("grouped attr missing or malformed: %q", out)
	}
	if !strings.Contains(out, "ERR") {
		t.Fatalf("expected ERR level tag in output: %q", out)
	}
	if !strings.Contains(out, "pi=3.14") {
		t.Fatalf("expected compact float: %q", out)
	}
}

func TestInitConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	l := WithComponent("edit")
	l.Info("hidden")
	l.Warn("shown", slog.Int("shape", 3))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=edit") || !strings.Contains(out, "shape=3") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "nope": slog.LevelInfo}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
