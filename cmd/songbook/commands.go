/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"songbook/internal/book"
	"songbook/internal/compile"
	"songbook/internal/config"
	"songbook/internal/export"
	"songbook/internal/storage"
	"songbook/internal/version"
)

// exampleSong is the starter song init writes next to the fresh
// configuration. It exercises verses, a chorus and a chorus reference.
const exampleSong = "# Greensleeves\n" +
	"\n" +
	"1. `Am` Alas, my love, you `G` do me wrong\n" +
	"   to `Am` cast me off dis`E`courteously,\n" +
	"   and `Am` I have loved `G` you oh so long,\n" +
	"   de`Am`lighting `E`in your `Am` company.\n" +
	"\n" +
	"> `C` Greensleeves was `G` all my joy,\n" +
	"  `Am` Greensleeves was `E` my delight.\n" +
	"\n" +
	"2. I have been ready `G` at your hand\n" +
	"   to `Am` grant whatever `E` you would crave.\n" +
	"\n" +
	">>\n"

// projectIgnore keeps generated artifacts out of version control.
const projectIgnore = "out/\n.songbook/\n"

// InitCmd scaffolds a new project: songbook.yaml, a songs directory and an
// example song to start from.
type InitCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to initialize (default: current directory)." type:"path"`
}

func (c *InitCmd) Run(app *appState) error {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	if _, err := os.Stat(config.Path(abs)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, abs)
	}
	app.log.Info("init project", slog.String("root", abs))

	cfg := config.Defaults()
	cfg.Book.Title = filepath.Base(abs)
	if err := config.Save(cfg, abs); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(abs, "songs"), 0o755); err != nil {
		return err
	}
	example := filepath.Join(abs, "songs", "greensleeves.md")
	if err := os.WriteFile(example, []byte(exampleSong), 0o644); err != nil {
		return err
	}
	ignore := filepath.Join(abs, ".gitignore")
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		if err := os.WriteFile(ignore, []byte(projectIgnore), 0o644); err != nil {
			return err
		}
	}

	app.ui.Status("Created", "project at "+abs)
	app.ui.Success("Finished", "edit songs/greensleeves.md and run \"songbook compile\"")
	return nil
}

// CompileCmd compiles the configured songs and writes the book to disk.
type CompileCmd struct {
	Globs  []string `arg:"" optional:"" name:"glob" help:"Song files or glob patterns (default: songs from songbook.yaml)."`
	Format string   `help:"Output format: json, xml or both (default: from songbook.yaml)."`
	Out    string   `short:"o" placeholder:"DIR" help:"Output directory (default: from songbook.yaml)."`
	Strict bool     `help:"Fail when any diagnostic is reported."`
}

func (c *CompileCmd) Run(app *appState) error {
	prj, err := app.openProject()
	if err != nil {
		return err
	}
	format := c.Format
	if format == "" {
		format = prj.Cfg.Output.Format
	}
	switch format {
	case "json", "xml", "both":
	default:
		return fmt.Errorf("unknown output format %q (want json, xml or both)", format)
	}
	outDir := c.Out
	if outDir == "" {
		outDir = prj.Cfg.Output.Dir
	}

	build, err := app.compileProject(prj, c.Globs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if format == "json" || format == "both" {
		path := filepath.Join(outDir, "book.json")
		app.ui.Status("Writing", path)
		data, err := export.MarshalBook(build.Book)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	if format == "xml" || format == "both" {
		path := filepath.Join(outDir, "book.xml")
		app.ui.Status("Writing", path)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteXML(f, build.Book); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if n := len(build.Diagnostics); n > 0 {
		app.ui.Warning(fmt.Sprintf("%d problem(s) found", n))
		if c.Strict {
			return fmt.Errorf("%d problem(s) found in strict mode", n)
		}
	}
	app.ui.Success("Finished", fmt.Sprintf("%d song(s)", len(build.Book.Songs)))
	return nil
}

// CheckCmd parses and validates without writing any output.
type CheckCmd struct {
	Globs []string `arg:"" optional:"" name:"glob" help:"Song files or glob patterns (default: songs from songbook.yaml)."`
}

func (c *CheckCmd) Run(app *appState) error {
	prj, err := app.openProject()
	if err != nil {
		return err
	}
	build, err := app.compileProject(prj, c.Globs)
	if err != nil {
		return err
	}
	if n := len(build.Diagnostics); n > 0 {
		return fmt.Errorf("%d problem(s) found", n)
	}
	app.ui.Success("Finished", fmt.Sprintf("%d song(s) clean", len(build.Book.Songs)))
	return nil
}

// SearchCmd queries the project index.
type SearchCmd struct {
	Query  string `arg:"" help:"Full-text query over titles and lyrics."`
	File   string `help:"Restrict matches to one source file."`
	Limit  int    `default:"20" help:"Maximum number of results."`
	Offset int    `help:"Skip this many results."`
}

func (c *SearchCmd) Run(app *appState) error {
	prj, err := app.openProject()
	if err != nil {
		return err
	}
	results, err := storage.Search(app.ctx, prj.Root, storage.SearchQuery{
		Text:   c.Query,
		File:   c.File,
		Limit:  c.Limit,
		Offset: c.Offset,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		app.ui.Status("Found", fmt.Sprintf("no matches for %q (is the index current? run \"songbook index\")", c.Query))
		return nil
	}
	for _, r := range results {
		app.ui.Result(fmt.Sprintf("%s:%d", r.File, r.Line), r.Title)
		if r.Snippet != "" {
			app.ui.Snippet(r.Snippet)
		}
	}
	app.ui.Status("Found", fmt.Sprintf("%d match(es)", len(results)))
	return nil
}

// IndexCmd compiles the configured songs into the project index.
type IndexCmd struct {
	Globs   []string `arg:"" optional:"" name:"glob" help:"Song files or glob patterns (default: songs from songbook.yaml)."`
	Force   bool     `help:"Re-index even when no source file changed."`
	Rebuild bool     `help:"Drop and recreate the index from scratch."`
}

func (c *IndexCmd) Run(app *appState) error {
	prj, err := app.openProject()
	if err != nil {
		return err
	}
	globs := c.Globs
	if len(globs) == 0 {
		globs = prj.Cfg.Songs
	}
	paths, err := discoverSongs(globs)
	if err != nil {
		return err
	}
	unique := dedupPaths(paths)

	if !c.Force && !c.Rebuild {
		unchanged, err := storage.FilesUnchanged(app.ctx, prj.Root, unique)
		if err != nil {
			return err
		}
		if unchanged {
			app.ui.Status("Skipping", "index is up to date")
			return nil
		}
	}

	build, err := app.compilePaths(prj, paths)
	if err != nil {
		return err
	}

	var run storage.Run
	if c.Rebuild {
		run, err = storage.RebuildIndex(app.ctx, prj.Root, build)
		if err != nil {
			return err
		}
	} else {
		rebuilt, err := storage.DetectAndRebuildIndex(app.ctx, prj.Root, build)
		if err != nil {
			return err
		}
		if rebuilt {
			app.ui.Warning("index was corrupted and has been rebuilt")
			runs, err := storage.ListRuns(app.ctx, prj.Root, 1)
			if err != nil {
				return err
			}
			if len(runs) > 0 {
				run = runs[0]
			}
		} else {
			run, err = storage.UpdateIndex(app.ctx, prj.Root, build)
			if err != nil {
				return err
			}
		}
	}

	if err := storage.RecordFiles(app.ctx, prj.Root, unique); err != nil {
		return err
	}
	if _, err := storage.PruneRuns(app.ctx, prj.Root, prj.Cfg.Index.KeepRuns); err != nil {
		return err
	}
	app.log.Info("index updated",
		slog.String("run", run.ID),
		slog.Int("songs", run.Songs),
		slog.Int("diagnostics", run.Diagnostics))
	app.ui.Success("Indexed", fmt.Sprintf("%d song(s)", run.Songs))
	return nil
}

// VersionCmd prints the application version and the tree format history.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *appState) error {
	fmt.Println(version.Full())
	fmt.Println("tree format", book.CurrentAstVersion())
	for _, ch := range book.AstVersionLog {
		fmt.Printf("  %-6s %s\n", ch.Version, ch.Summary)
	}
	return nil
}

// compileProject discovers the song sources for globs (or the configured
// patterns when none are given) and compiles them.
func (app *appState) compileProject(prj *project, globs []string) (*compile.Build, error) {
	if len(globs) == 0 {
		globs = prj.Cfg.Songs
	}
	paths, err := discoverSongs(globs)
	if err != nil {
		return nil, err
	}
	return app.compilePaths(prj, paths)
}

// compilePaths reads the given song files and compiles the book.
// Diagnostics are printed as they do not fail the build; callers inspect
// build.Diagnostics when they must.
func (app *appState) compilePaths(prj *project, paths []string) (*compile.Build, error) {
	inputs := make([]compile.Input, 0, len(paths))
	for _, p := range paths {
		text, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read song %q: %w", p, err)
		}
		inputs = append(inputs, compile.Input{Name: p, Text: string(text)})
	}
	app.ui.Status("Compiling", fmt.Sprintf("%d file(s)", len(inputs)))
	build, err := compile.Compile(app.ctx, inputs, settingsFrom(prj.Cfg))
	if err != nil {
		return nil, err
	}
	for _, d := range build.Diagnostics {
		app.ui.Diagnostic(d)
	}
	return build, nil
}

// settingsFrom maps the book section of the configuration onto compiler
// settings.
func settingsFrom(cfg config.AppConfig) compile.Settings {
	return compile.Settings{
		Title:            cfg.Book.Title,
		Subtitle:         cfg.Book.Subtitle,
		FrontImage:       cfg.Book.FrontImage,
		TitleNote:        cfg.Book.TitleNote,
		ChorusLabel:      cfg.Book.ChorusLabel,
		Notation:         cfg.Book.Notation,
		SmartPunctuation: cfg.Book.SmartPunctuation,
	}
}
