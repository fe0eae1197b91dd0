package console

import (
	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=console

// Store is the shape collection a Session edits. store.Memory implements it.
type Store interface {
	// Snapshot returns the current shapes. The engine reads one per input.
	Snapshot() *shape.Snapshot
	// Apply commits a diff atomically, or changes nothing and errors.
	Apply(d engine.Diff) error
	Undo() error
	Redo() error
}
