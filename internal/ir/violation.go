package ir

import (
	"fmt"
	"go/token"
)

type Violation struct {
	Message string             `json:"message"`
	File    string             `json:"file,omitempty"`
	Line    int                `json:"line,omitempty"`
	Column  int                `json:"column,omitempty"`
	Related []*RelatedLocation `json:"related,omitempty"`
}

type RelatedLocation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		msg += "- " + v.String() + "\n"
		for _, r := range v.Related {
			line := "    " + r.Message
			if r.File != "" {
				line += fmt.Sprintf(" %s:%d:%d", r.File, r.Line, r.Column)
			}
			msg += line + "\n"
		}
	}
	return msg
}

func (v *Violation) String() string {
	if v.File == "" {
		return v.Message
	}
	return fmt.Sprintf("%s %s:%d:%d", v.Message, v.File, v.Line, v.Column)
}

// Position is a location in Go source.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func PositionOf(p token.Position) Position {
	return Position{File: p.Filename, Line: p.Line, Column: p.Column}
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Core primitive used by all template helpers.
func NewViolation(message string, pos Position) *Violation {
	return &Violation{
		Message: message,
		File:    pos.File,
		Line:    pos.Line,
		Column:  pos.Column,
	}
}

// Relate attaches a related location and returns v.
func (v *Violation) Relate(message string, pos Position) *Violation {
	v.Related = append(v.Related, &RelatedLocation{
		Message: message,
		File:    pos.File,
		Line:    pos.Line,
		Column:  pos.Column,
	})
	return v
}
