package engine

import (
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Input is one user event. It is implemented by Select, Point, Value,
// Option, Text, Enter and Escape.
type Input interface {
	input()
}

// Select adds objects to the selection. Pick is the world point the objects
// were picked at, when known; with no IDs the engine hit-tests Pick itself.
type Select struct {
	IDs  []shape.ID
	Pick *geom.Point
}

type Point struct {
	At geom.Point
}

// Value is a typed number: a distance, a factor, or an angle in degrees.
type Value struct {
	Number float64
}

// Option is a keyword answer to a prompt, such as "Multiple" or "Yes".
// Matching is case-insensitive and accepts any unambiguous prefix.
type Option struct {
	Text string
}

type Text struct {
	Text string
}

type Enter struct{}

type Escape struct{}

func (Select) input() {}
func (Point) input()  {}
func (Value) input()  {}
func (Option) input() {}
func (Text) input()   {}
func (Enter) input()  {}
func (Escape) input() {}
