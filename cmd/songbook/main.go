/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command songbook compiles chord-annotated song sources into a typed
// songbook tree and keeps a searchable index of the result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"songbook/internal/config"
	"songbook/internal/crash"
	applog "songbook/internal/log"
	"songbook/internal/version"
)

// CLI is the kong command grammar.
var CLI struct {
	Dir     string `short:"C" placeholder:"DIR" help:"Run as if songbook was started in DIR."`
	Verbose bool   `short:"v" help:"Force debug logging."`
	Color   string `enum:"auto,always,never" default:"auto" help:"Colorize status output (auto, always, never)."`

	Init    InitCmd    `cmd:"" help:"Create a new songbook project."`
	Compile CompileCmd `cmd:"" help:"Compile songs and write the book to the output directory."`
	Check   CheckCmd   `cmd:"" help:"Parse and validate songs without writing output."`
	Search  SearchCmd  `cmd:"" help:"Full-text search over the project index."`
	Index   IndexCmd   `cmd:"" help:"Compile songs into the project index."`
	Version VersionCmd `cmd:"" help:"Print version and tree format information."`
}

// appState is handed to every command Run method: a base context, the
// styled status writer and the CLI logger.
type appState struct {
	ctx context.Context
	ui  *palette
	log *slog.Logger
}

// project is an opened songbook project. Commands obtain one through
// openProject; the working directory is the project root afterwards.
type project struct {
	Root string
	Cfg  config.AppConfig
}

func main() {
	// a .env next to the invocation may carry SBK_* variables
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(version.Name),
		kong.Description("Compile chord-annotated songs into a typed songbook tree."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if CLI.Dir != "" {
		if err := os.Chdir(CLI.Dir); err != nil {
			kctx.FatalIfErrorf(fmt.Errorf("enter %s: %w", CLI.Dir, err))
		}
		// the target directory may bring its own .env; Load never
		// overrides variables that are already set
		_ = godotenv.Load()
	}

	opts := applog.FromEnv()
	if CLI.Verbose {
		opts.Level = "debug"
	}
	applog.Init(opts)
	defer crash.Recover()

	app := &appState{
		ctx: context.Background(),
		ui:  newPalette(CLI.Color),
		log: applog.WithComponent("cli"),
	}
	app.log.Debug("start", slog.String("command", kctx.Command()))

	if err := kctx.Run(app); err != nil {
		app.log.Error("command failed", slog.Any("err", err))
		app.ui.Fail(err)
		os.Exit(1)
	}
}

// openProject locates songbook.yaml in the working directory or any parent,
// enters the project root and loads the configuration. Logging is
// re-initialized with the project's settings; environment overrides already
// won inside config.Load, and --verbose beats both.
func (app *appState) openProject() (*project, error) {
	root, err := findProjectRoot(".")
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(root); err != nil {
		return nil, fmt.Errorf("enter project root: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	opts := applog.Options{
		Level:     cfg.General.LogLevel,
		Format:    cfg.General.LogFormat,
		AddSource: cfg.General.LogSource,
		File:      cfg.General.LogFile,
	}
	if CLI.Verbose {
		opts.Level = "debug"
	}
	applog.Init(opts)

	app.ui.Status("Loading", "project at "+root)
	app.log.Debug("project open", slog.String("root", root))
	return &project{Root: root, Cfg: cfg}, nil
}

// findProjectRoot walks from dir upward until it finds songbook.yaml, the
// way version-control tools locate their repository root.
func findProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		st, err := os.Stat(filepath.Join(abs, config.FileName))
		if err == nil && !st.IsDir() {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no %s in this or any parent directory (run \"songbook init\" first)", config.FileName)
		}
		abs = parent
	}
}
