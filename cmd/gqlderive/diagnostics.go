package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hanpama/gqlderive/internal/ir"
)

// diagnosticPrinter writes violations in the file:line:col: message form with a code frame.
type diagnosticPrinter struct {
	w        io.Writer
	readFile func(string) ([]byte, error)
	wd       string

	sources map[string][]string
}

func (p *diagnosticPrinter) print(verr ir.ValidationError) {
	for _, v := range verr {
		pos := ir.Position{File: v.File, Line: v.Line, Column: v.Column}
		if v.File == "" {
			fmt.Fprintf(p.w, "%s\n", v.Message)
		} else {
			fmt.Fprintf(p.w, "%s: %s\n", displayPosition(p.wd, pos), v.Message)
		}
		io.WriteString(p.w, p.frame(pos))
		for _, r := range v.Related {
			if r.File == "" {
				fmt.Fprintf(p.w, "    %s\n", r.Message)
				continue
			}
			rpos := ir.Position{File: r.File, Line: r.Line, Column: r.Column}
			fmt.Fprintf(p.w, "    %s: %s\n", displayPosition(p.wd, rpos), r.Message)
		}
	}
	noun := "problems"
	if len(verr) == 1 {
		noun = "problem"
	}
	fmt.Fprintf(p.w, "%d %s\n", len(verr), noun)
}

// frame renders the source line of pos with a caret under the column. It is empty when
// the source cannot be read.
func (p *diagnosticPrinter) frame(pos ir.Position) string {
	if pos.File == "" || pos.Line < 1 {
		return ""
	}
	lines, ok := p.sources[pos.File]
	if !ok {
		if p.sources == nil {
			p.sources = map[string][]string{}
		}
		if src, err := p.readFile(pos.File); err == nil {
			lines = strings.Split(string(src), "\n")
		}
		p.sources[pos.File] = lines
	}
	if pos.Line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[pos.Line-1], "\r")

	// Tabs are kept so the caret lines up with the source.
	var pad strings.Builder
	for i, r := range text {
		if i >= pos.Column-1 {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	gutter := fmt.Sprintf("%5d | ", pos.Line)
	return fmt.Sprintf("%s%s\n%s| %s^\n", gutter, text, strings.Repeat(" ", len(gutter)-2), pad.String())
}

// displayPosition prints pos with its file relative to wd when it lies below wd.
func displayPosition(wd string, pos ir.Position) string {
	file := pos.File
	if wd != "" && filepath.IsAbs(file) {
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}
	if pos.Line == 0 {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Column)
}
