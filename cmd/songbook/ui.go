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
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"songbook/internal/parser"
)

// verbWidth right-aligns the status verb column; continuation lines indent
// to the message column.
const verbWidth = 12

// palette writes status lines to stderr with a right-aligned, styled verb
// column. Stdout stays clean for result data, so compiled output and search
// hits can be piped.
type palette struct {
	verb lipgloss.Style
	good lipgloss.Style
	warn lipgloss.Style
	bad  lipgloss.Style
	dim  lipgloss.Style
}

// newPalette builds the styles after pinning the color profile: "always"
// and "never" force it, "auto" detects stderr since that is where status
// lines go.
func newPalette(mode string) *palette {
	r := lipgloss.DefaultRenderer()
	switch mode {
	case "always":
		r.SetColorProfile(termenv.ANSI)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		r.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
	}
	return &palette{
		verb: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		good: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warn: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		bad:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		dim:  lipgloss.NewStyle().Faint(true),
	}
}

func pad(verb string) string {
	return fmt.Sprintf("%*s", verbWidth, verb)
}

func (p *palette) line(style lipgloss.Style, verb, msg string) {
	lines := strings.Split(msg, "\n")
	fmt.Fprintf(os.Stderr, "%s %s\n", style.Render(pad(verb)), lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(os.Stderr, "%s %s\n", strings.Repeat(" ", verbWidth), l)
	}
}

// Status reports progress, e.g. "Compiling 12 file(s)".
func (p *palette) Status(verb, msg string) { p.line(p.verb, verb, msg) }

// Success closes an operation, e.g. "Finished 12 song(s)".
func (p *palette) Success(verb, msg string) { p.line(p.good, verb, msg) }

// Warning reports a non-fatal problem.
func (p *palette) Warning(msg string) { p.line(p.warn, "Warning", msg) }

// Fail prints the final error line for a failed command.
func (p *palette) Fail(err error) { p.line(p.bad, "error", err.Error()) }

// Diagnostic prints one compiler diagnostic as location, kind and message,
// with an indented hint line when the parser has a suggestion.
func (p *palette) Diagnostic(d parser.Diagnostic) {
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	fmt.Fprintf(os.Stderr, "%s %s  %s  %s\n",
		p.warn.Render(pad("Warning")), loc, p.warn.Render(string(d.Kind)), d.Message)
	if d.Hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			strings.Repeat(" ", verbWidth), p.dim.Render("hint: "+d.Hint))
	}
}

// Result prints one search hit to stdout: location column, then the title.
func (p *palette) Result(loc, title string) {
	fmt.Fprintf(os.Stdout, "%s  %s\n", p.verb.Render(loc), title)
}

// Snippet prints the matched excerpt under its result line.
func (p *palette) Snippet(text string) {
	fmt.Fprintf(os.Stdout, "    %s\n", p.dim.Render(text))
}
