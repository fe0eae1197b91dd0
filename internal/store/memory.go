// Package store provides the reference shape store the console drives the
// engine against: an ordered in-memory collection that applies engine diffs
// atomically and journals them for undo and redo.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

var (
	// ErrNotFound is returned when a diff updates or deletes an unknown shape.
	ErrNotFound = errors.New("shape not found")
	// ErrDuplicateID is returned when a diff adds a shape whose ID is taken.
	ErrDuplicateID = errors.New("duplicate shape id")
	// ErrNothingToUndo is returned by Undo on an empty journal.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo when no undone change is pending.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultHistoryLimit bounds the undo journal unless WithHistoryLimit says
// otherwise.
const DefaultHistoryLimit = 100

// Memory is an ordered, in-memory shape collection. It is safe for concurrent
// use, though the console only ever touches it from one goroutine.
type Memory struct {
	mu     sync.Mutex
	shapes []shape.Shape
	undo   [][]shape.Shape
	redo   [][]shape.Shape
	limit  int
	logger *slog.Logger
}

// Option configures a Memory store.
type Option func(*Memory)

// WithHistoryLimit caps the number of undo steps kept. Zero or less disables
// undo entirely.
func WithHistoryLimit(n int) Option {
	return func(m *Memory) {
		m.limit = n
	}
}

// WithLogger sets the logger applied diffs are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memory) {
		m.logger = logger
	}
}

// NewMemory creates a store holding shapes, in drawing order.
func NewMemory(shapes []shape.Shape, opts ...Option) (*Memory, error) {
	m := &Memory{limit: DefaultHistoryLimit, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Replace(shapes); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps the whole collection, clearing the journal. Used when a
// drawing is loaded.
func (m *Memory) Replace(shapes []shape.Shape) error {
	seen := make(map[shape.ID]bool, len(shapes))
	for _, s := range shapes {
		id := s.Base().ID
		if id == "" {
			return errors.New("shape with empty id")
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shapes = append([]shape.Shape(nil), shapes...)
	m.undo = nil
	m.redo = nil
	return nil
}

// Snapshot returns an immutable view of the current shapes.
func (m *Memory) Snapshot() *shape.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return shape.NewSnapshot(m.shapes...)
}

// Shapes returns the current shapes in drawing order.
func (m *Memory) Shapes() []shape.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shape.Shape(nil), m.shapes...)
}

// Len is the number of shapes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shapes)
}

// Apply applies a diff atomically: deletions, then updates, then additions
// appended in order. Either every part applies or the store is unchanged.
// A non-empty diff becomes one undo step and clears the redo journal.
func (m *Memory) Apply(d engine.Diff) error {
	if d.Empty() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := apply(m.shapes, d)
	if err != nil {
		return err
	}
	m.push(&m.undo, m.shapes)
	m.redo = nil
	m.shapes = next
	m.logger.Debug("diff applied",
		"added", len(d.Add),
		"updated", len(d.Update),
		"deleted", len(d.Delete),
		"shapes", len(next),
	)
	return nil
}

// Undo reverts the most recent applied diff.
func (m *Memory) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.shapes)
	m.shapes = prev
	return nil
}

// Redo re-applies the most recently undone diff.
func (m *Memory) Redo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		return ErrNothingToRedo
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.push(&m.undo, m.shapes)
	m.shapes = next
	return nil
}

// CanUndo and CanRedo report whether the journal has a step available.
func (m *Memory) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *Memory) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

func (m *Memory) push(journal *[][]shape.Shape, shapes []shape.Shape) {
	if m.limit <= 0 {
		return
	}
	*journal = append(*journal, shapes)
	if over := len(*journal) - m.limit; over > 0 {
		*journal = append((*journal)[:0:0], (*journal)[over:]...)
	}
}

// apply builds the collection that results from d without touching cur.
// Shapes are values and Patch application copies, so the old slice stays
// valid as an undo step.
func apply(cur []shape.Shape, d engine.Diff) ([]shape.Shape, error) {
	index := make(map[shape.ID]int, len(cur))
	for i, s := range cur {
		index[s.Base().ID] = i
	}

	deleted := make(map[shape.ID]bool, len(d.Delete))
	for _, id := range d.Delete {
		if _, ok := index[id]; !ok {
			return nil, fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		deleted[id] = true
	}

	next := make([]shape.Shape, len(cur))
	copy(next, cur)
	for _, u := range d.Update {
		i, ok := index[u.ID]
		if !ok || deleted[u.ID] {
			return nil, fmt.Errorf("update %s: %w", u.ID, ErrNotFound)
		}
		s, err := shape.Apply(next[i], u.Patch)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", u.ID, err)
		}
		next[i] = s
	}

	out := next[:0:0]
	for _, s := range next {
		if !deleted[s.Base().ID] {
			out = append(out, s)
		}
	}
	for _, s := range d.Add {
		id := s.Base().ID
		if id == "" {
			return nil, errors.New("add: shape with empty id")
		}
		if _, ok := index[id]; ok && !deleted[id] {
			return nil, fmt.Errorf("add %s: %w", id, ErrDuplicateID)
		}
		// re-adding a shape deleted in the same diff is fine, adding it twice
		// is not
		index[id] = -1
		delete(deleted, id)
		out = append(out, s)
	}
	return out, nil
}
