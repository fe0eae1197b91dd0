package shape

import (
	"math"

	"github.com/joeycumines/one-shot-cad/internal/geom"
)

// Snapshot is an immutable, ordered view of a shape collection with lookup by
// identifier. It is what the engine reads; stores hand one out per input.
type Snapshot struct {
	order []ID
	byID  map[ID]Shape
}

// NewSnapshot builds a snapshot from shapes in drawing order. Later
// duplicates of an ID replace earlier ones but keep the first position.
func NewSnapshot(shapes ...Shape) *Snapshot {
	s := &Snapshot{byID: make(map[ID]Shape, len(shapes))}
	for _, sh := range shapes {
		id := sh.Base().ID
		if _, ok := s.byID[id]; !ok {
			s.order = append(s.order, id)
		}
		s.byID[id] = sh
	}
	return s
}

// Lookup returns the shape with the given ID.
func (s *Snapshot) Lookup(id ID) (Shape, bool) {
	if s == nil {
		return nil, false
	}
	sh, ok := s.byID[id]
	return sh, ok
}

// Len is the number of shapes.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the shapes in drawing order.
func (s *Snapshot) All() []Shape {
	if s == nil {
		return nil
	}
	out := make([]Shape, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Pick returns the visible shape nearest to p within tol, preferring the
// topmost (last drawn) on ties.
func (s *Snapshot) Pick(p geom.Point, tol float64) (Shape, bool) {
	if s == nil {
		return nil, false
	}
	var (
		best     Shape
		bestDist = math.Inf(1)
	)
	for i := len(s.order) - 1; i >= 0; i-- {
		sh := s.byID[s.order[i]]
		if sh.Base().Hidden {
			continue
		}
		if d := Distance(sh, p); d <= tol && d < bestDist {
			best, bestDist = sh, d
		}
	}
	return best, best != nil
}
