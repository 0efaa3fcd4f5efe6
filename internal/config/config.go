/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config reads and writes the per-project songbook.yaml file.
// Defaults cover every field, file values are merged over them, and SBK_*
// environment variables win over both. The core packages never touch this;
// the CLI maps config values into compile settings and logger options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file, looked up at the project root.
const FileName = "songbook.yaml"

type GeneralConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogSource bool   `yaml:"log_source"`
	LogFile   string `yaml:"log_file"`
}

// BookConfig carries the book-level fields handed to the compiler.
type BookConfig struct {
	Title            string `yaml:"title"`
	Subtitle         string `yaml:"subtitle"`
	FrontImage       string `yaml:"front_image"`
	TitleNote        string `yaml:"title_note"`
	ChorusLabel      string `yaml:"chorus_label"`
	Notation         string `yaml:"notation"`
	SmartPunctuation bool   `yaml:"smart_punctuation"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "json" | "xml" | "both"
}

// IndexConfig tunes the song index. The index itself always lives under
// .songbook/ at the project root; only retention is configurable.
type IndexConfig struct {
	KeepRuns int `yaml:"keep_runs"`
}

// AppConfig is the user-editable project configuration persisted to
// songbook.yaml. Environment variables are treated as read-only overrides at
// runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Book          BookConfig    `yaml:"book"`
	Songs         []string      `yaml:"songs"`
	Output        OutputConfig  `yaml:"output"`
	Index         IndexConfig   `yaml:"index"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{LogLevel: "info", LogFormat: "console"},
		Book:          BookConfig{ChorusLabel: "Ch", Notation: "english", SmartPunctuation: true},
		Songs:         []string{"songs/*.md"},
		Output:        OutputConfig{Dir: "out", Format: "json"},
		Index:         IndexConfig{KeepRuns: 10},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel  = "SBK_LOG_LEVEL"
	EnvLogFormat = "SBK_LOG_FORMAT"
	EnvLogSource = "SBK_LOG_SOURCE"
	EnvLogFile   = "SBK_LOG_FILE"
	EnvNotation  = "SBK_NOTATION"
	EnvOutputDir = "SBK_OUTPUT_DIR"
)

// Path returns the configuration file path for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, FileName)
}

// Load reads the project config file (if present) over the defaults and
// merges environment overrides. A missing file is not an error; a file that
// does not parse is.
func Load(projectRoot string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(Path(projectRoot))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return cfg, err
	default:
		// Unmarshal into the populated struct: absent keys keep their
		// defaults, present keys win, including booleans set to false.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", FileName, err)
		}
	}
	applyEnvOverrides(&cfg)
	cfg.normalize()
	return cfg, nil
}

// Save writes the project config YAML with a short header comment.
func Save(cfg AppConfig, projectRoot string) error {
	path := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := "# songbook project configuration\n# values here merge over built-in defaults; SBK_* environment variables win over both\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.General.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.General.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.LogSource = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.General.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNotation)); v != "" {
		cfg.Book.Notation = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.Output.Dir = v
	}
}

func (c *AppConfig) normalize() {
	c.General.LogLevel = strings.ToLower(strings.TrimSpace(c.General.LogLevel))
	c.General.LogFormat = strings.ToLower(strings.TrimSpace(c.General.LogFormat))
	c.Book.Notation = strings.ToLower(strings.TrimSpace(c.Book.Notation))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Dir == "" {
		c.Output.Dir = Defaults().Output.Dir
	}
	if c.Index.KeepRuns <= 0 {
		c.Index.KeepRuns = Defaults().Index.KeepRuns
	}
	if len(c.Songs) == 0 {
		c.Songs = Defaults().Songs
	}
}
