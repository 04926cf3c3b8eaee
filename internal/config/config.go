/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type ViewConfig struct {
	ZoomPercent float64 `yaml:"zoom_percent"`
}

type HandlesConfig struct {
	// RotationDistance is measured in model units beyond the east edge.
	RotationDistance float64 `yaml:"rotation_distance"`
	// HitRadiusPx is the half-size of the square handle marker.
	HitRadiusPx float64 `yaml:"hit_radius_px"`
}

type SnappingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"` // model units
	Edges     bool    `yaml:"edges"`
	Centers   bool    `yaml:"centers"`
}

type UndoConfig struct {
	MaxPerShape   int `yaml:"max_per_shape"`
	MaxSnapshots  int `yaml:"max_snapshots"`
	MinIntervalMs int `yaml:"min_interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	View          ViewConfig     `yaml:"view"`
	Handles       HandlesConfig  `yaml:"handles"`
	Snapping      SnappingConfig `yaml:"snapping"`
	Undo          UndoConfig     `yaml:"undo"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		View:          ViewConfig{ZoomPercent: 100},
		Handles:       HandlesConfig{RotationDistance: 300, HitRadiusPx: 4},
		Snapping:      SnappingConfig{Enabled: true, Threshold: 90, Edges: true, Centers: true},
		Undo:          UndoConfig{MaxPerShape: 50, MaxSnapshots: 2000, MinIntervalMs: 0},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvZoom             = "GPW_ZOOM"
	EnvRotationDistance = "GPW_ROTATION_HANDLE_DISTANCE"
	EnvHandleRadius     = "GPW_HANDLE_RADIUS"
	EnvSnap             = "GPW_SNAP"
	EnvSnapThreshold    = "GPW_SNAP_THRESHOLD"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GPW_LOG_LEVEL"
	EnvLogFormat = "GPW_LOG_FORMAT"
	EnvLogSource = "GPW_LOG_SOURCE"
	EnvLogFile   = "GPW_LOG_FILE"
	// EnvConfigFile points Load at a different file than ConfigPath.
	EnvConfigFile = "GPW_CONFIG"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoPathway")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoPathway")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "gopathway")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, merges
// environment overrides and validates the result.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg, data)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config as YAML to path, creating parent directories.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects values the geometry engine cannot work with.
func (c AppConfig) Validate() error {
	var errs []error
	if c.View.ZoomPercent <= 0 {
		errs = append(errs, fmt.Errorf("view.zoom_percent must be positive, got %g", c.View.ZoomPercent))
	}
	if c.Handles.RotationDistance <= 0 {
		errs = append(errs, fmt.Errorf("handles.rotation_distance must be positive, got %g", c.Handles.RotationDistance))
	}
	if c.Handles.HitRadiusPx < 0 {
		errs = append(errs, fmt.Errorf("handles.hit_radius_px must not be negative, got %g", c.Handles.HitRadiusPx))
	}
	if c.Snapping.Threshold < 0 {
		errs = append(errs, fmt.Errorf("snapping.threshold must not be negative, got %g", c.Snapping.Threshold))
	}
	return errors.Join(errs...)
}

// mergeInto copies non-zero file values over the defaults. Booleans are only
// taken from the file when their key is present in raw.
func mergeInto(dst *AppConfig, src *AppConfig, raw []byte) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.View.ZoomPercent != 0 {
		dst.View.ZoomPercent = src.View.ZoomPercent
	}
	if src.Handles.RotationDistance != 0 {
		dst.Handles.RotationDistance = src.Handles.RotationDistance
	}
	if src.Handles.HitRadiusPx != 0 {
		dst.Handles.HitRadiusPx = src.Handles.HitRadiusPx
	}
	if src.Snapping.Threshold != 0 {
		dst.Snapping.Threshold = src.Snapping.Threshold
	}
	present := boolKeys(raw)
	if present["snapping.enabled"] {
		dst.Snapping.Enabled = src.Snapping.Enabled
	}
	if present["snapping.edges"] {
		dst.Snapping.Edges = src.Snapping.Edges
	}
	if present["snapping.centers"] {
		dst.Snapping.Centers = src.Snapping.Centers
	}
	if src.Undo.MaxPerShape != 0 {
		dst.Undo.MaxPerShape = src.Undo.MaxPerShape
	}
	if src.Undo.MaxSnapshots != 0 {
		dst.Undo.MaxSnapshots = src.Undo.MaxSnapshots
	}
	if src.Undo.MinIntervalMs != 0 {
		dst.Undo.MinIntervalMs = src.Undo.MinIntervalMs
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	if present["logging.source"] {
		dst.Logging.Source = src.Logging.Source
	}
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

// boolKeys lists which "section.key" pairs appear in the YAML document.
func boolKeys(raw []byte) map[string]bool {
	var doc map[string]any
	out := map[string]bool{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return out
	}
	for section, v := range doc {
		kv, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for k := range kv {
			out[section+"."+k] = true
		}
	}
	return out
}

func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := envFloat(EnvZoom); ok {
		cfg.View.ZoomPercent = v
	}
	if v, ok := envFloat(EnvRotationDistance); ok {
		cfg.Handles.RotationDistance = v
	}
	if v, ok := envFloat(EnvHandleRadius); ok {
		cfg.Handles.HitRadiusPx = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnap)); v != "" {
		cfg.Snapping.Enabled = truthy(v)
	}
	if v, ok := envFloat(EnvSnapThreshold); ok {
		cfg.Snapping.Threshold = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func truthy(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"view.zoom_percent":         EnvZoom,
		"handles.rotation_distance": EnvRotationDistance,
		"handles.hit_radius_px":     EnvHandleRadius,
		"snapping.enabled":          EnvSnap,
		"snapping.threshold":        EnvSnapThreshold,
		"logging.level":             EnvLogLevel,
		"logging.format":            EnvLogFormat,
		"logging.source":            EnvLogSource,
		"logging.file":              EnvLogFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
