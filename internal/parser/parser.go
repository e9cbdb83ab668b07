// Package parser defines the decoding contract shared by input formats.
package parser

import (
	"io"

	"sparkify/internal/records"
)

// Parser turns the contents of one input file into typed records.
type Parser interface {
	Parse(kind records.Kind, name string, r io.Reader) ([]records.Record, error)
}

// Func adapts a plain function to Parser.
type Func func(kind records.Kind, name string, r io.Reader) ([]records.Record, error)

// Parse implements Parser.
func (f Func) Parse(kind records.Kind, name string, r io.Reader) ([]records.Record, error) {
	return f(kind, name, r)
}
