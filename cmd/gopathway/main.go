/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopathway/internal/config"
	"gopathway/internal/crash"
	"gopathway/internal/edit"
	"gopathway/internal/export"
	applog "gopathway/internal/log"
	"gopathway/internal/scene"
	"gopathway/internal/shape"
	"gopathway/internal/vector"
	"gopathway/internal/version"

	"gopkg.in/yaml.v3"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "GoPathway shape editor")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  gopathway version|-v|--version            Show version")
	_, _ = fmt.Fprintln(w, "  gopathway handles <scene.json>             Apply a scene and print every handle position")
	_, _ = fmt.Fprintln(w, "  gopathway run <scene.json> [out]           Apply a scene, print the result, optionally export .svg/.png/.pdf")
	_, _ = fmt.Fprintln(w, "  gopathway save <scene.json> <out.json>     Apply a scene and save the resulting shapes as a new scene")
	_, _ = fmt.Fprintln(w, "  gopathway config [init]                    Show the effective config, or write the defaults to the config file")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	cc := &crash.Context{}
	os.Exit(func() int {
		defer crash.Recover(cc)
		return run(os.Args[1:], os.Stdout, cc)
	}())
}

func run(args []string, out io.Writer, cc *crash.Context) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(out)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(out, version.String())
		return 0
	case "config":
		return cmdConfig(args[1:], out)
	case "handles", "run", "save":
	default:
		_, _ = fmt.Fprintf(out, "unknown command %q\n", args[0])
		usage(out)
		return 2
	}

	if len(args) < 2 {
		_, _ = fmt.Fprintf(out, "%s requires <scene.json>\n", args[0])
		usage(out)
		return 2
	}
	cfg, err := config.Load()
	if err != nil {
		l.Error("config load failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l = applog.WithComponent("cli")

	path := args[1]
	cc.Scene = path
	doc, err := scene.Load(path)
	if err != nil {
		l.Error("scene load failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	e := edit.New(edit.OptionsFromConfig(cfg))
	cc.Autosave = func() (string, error) {
		p := strings.TrimSuffix(path, ".json") + ".crash.json"
		return p, scene.Save(p, scene.FromEditor(e))
	}
	res, err := scene.Apply(e, doc)
	if err != nil {
		l.Error("scene apply failed", slog.String("scene", path), slog.Any("err", err))
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	l.Info("scene applied", slog.String("scene", path), slog.Int("shapes", len(res.IDs)), slog.Int("steps", len(res.Steps)))

	switch args[0] {
	case "handles":
		printHandles(out, e)
	case "run":
		printSteps(out, res)
		printShapes(out, e)
		if len(args) > 2 {
			st := export.DefaultStyle()
			st.HandleRadius = cfg.Handles.HitRadiusPx
			if err := export.ExportFile(args[2], export.Capture(e), st); err != nil {
				l.Error("export failed", slog.String("out", args[2]), slog.Any("err", err))
				_, _ = fmt.Fprintln(out, "Error:", err)
				if errors.Is(err, export.ErrUnsupportedFormat) {
					return 2
				}
				return 1
			}
			_, _ = fmt.Fprintln(out, "Exported", args[2])
		}
	case "save":
		if len(args) < 3 {
			_, _ = fmt.Fprintln(out, "save requires <out.json>")
			return 2
		}
		if err := scene.Save(args[2], scene.FromEditor(e)); err != nil {
			l.Error("scene save failed", slog.Any("err", err))
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, "Saved", args[2])
	}
	return 0
}

func cmdConfig(args []string, out io.Writer) int {
	path, err := config.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	if len(args) > 0 && args[0] == "init" {
		if _, err := os.Stat(path); err == nil {
			_, _ = fmt.Fprintln(out, "Config already exists at", path)
			return 1
		}
		if err := config.Save(path, config.Defaults()); err != nil {
			_, _ = fmt.Fprintln(out, "Error:", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, "Wrote default config to", path)
		return 0
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "# config file:", path)
	for _, key := range []string{"view.zoom_percent", "handles.rotation_distance", "handles.hit_radius_px", "snapping.enabled", "snapping.threshold", "logging.level", "logging.format", "logging.source", "logging.file"} {
		if env, ok := config.EnvOverrideFor(key); ok {
			_, _ = fmt.Fprintf(out, "# %s overridden by %s\n", key, env)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(out, "Error:", err)
		return 1
	}
	_, _ = out.Write(data)
	return 0
}

func label(e *edit.Editor, s *shape.Shape) string {
	el, _ := e.Element(s.ID())
	return fmt.Sprintf("%s (%s)", el.ID, s.Kind())
}

func fmtPt(p vector.Pt) string {
	return fmt.Sprintf("(%g, %g)", vector.FloatRound(p.X, 3), vector.FloatRound(p.Y, 3))
}

func printShapes(out io.Writer, e *edit.Editor) {
	for _, s := range e.Shapes() {
		el, _ := e.Element(s.ID())
		_, _ = fmt.Fprintf(out, "%s left=%g top=%g width=%g height=%g rotation=%g\n", label(e, s),
			vector.FloatRound(el.Left, 3), vector.FloatRound(el.Top, 3),
			vector.FloatRound(el.Width, 3), vector.FloatRound(el.Height, 3),
			vector.FloatRound(el.Rotation, 6))
	}
}

func printHandles(out io.Writer, e *edit.Editor) {
	_, _ = fmt.Fprintf(out, "zoom %g%%\n", e.Zoom())
	for _, s := range e.Shapes() {
		_, _ = fmt.Fprintln(out, label(e, s))
		for _, h := range s.Handles() {
			_, _ = fmt.Fprintf(out, "  %-2s model=%s view=%s\n", h, fmtPt(s.HandlePosition(h)), fmtPt(s.HandleViewPosition(h)))
		}
	}
}

func printSteps(out io.Writer, res scene.Result) {
	for _, sr := range res.Steps {
		if sr.Op == scene.OpDrag {
			_, _ = fmt.Fprintf(out, "step %d: %s shape %d active=%s\n", sr.Index, sr.Op, sr.Shape, sr.Handle)
			continue
		}
		_, _ = fmt.Fprintf(out, "step %d: %s\n", sr.Index, sr.Op)
	}
}
