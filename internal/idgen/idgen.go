// Package idgen provides the shape identifier generators. Identifiers are
// opaque strings; the engine only needs them to be unique and never reused.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Generator supplies new shape identifiers.
type Generator interface {
	NewID() shape.ID
}

// UUID generates random (version 4) UUIDs. It is the default.
type UUID struct{}

func (UUID) NewID() shape.ID { return shape.ID(uuid.NewString()) }

// ULID generates lexically sortable ULIDs, so identifiers order by creation
// time in a saved drawing.
type ULID struct{}

func (ULID) NewID() shape.ID { return shape.ID(ulid.Make().String()) }

// Sequential generates Prefix1, Prefix2, ... It is deterministic, which makes
// it the generator of choice for tests and scripted runs.
type Sequential struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequential returns a Sequential generator whose first ID is prefix
// followed by start+1.
func NewSequential(prefix string, start uint64) *Sequential {
	s := &Sequential{Prefix: prefix}
	s.n.Store(start)
	return s
}

func (s *Sequential) NewID() shape.ID {
	return shape.ID(fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1)))
}

// Reserve advances the counter past every ID of the form Prefix<n> in ids,
// so a drawing loaded from disk does not collide with new shapes.
func (s *Sequential) Reserve(ids ...shape.ID) {
	for _, id := range ids {
		digits, ok := strings.CutPrefix(string(id), s.Prefix)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			continue
		}
		for {
			cur := s.n.Load()
			if n <= cur || s.n.CompareAndSwap(cur, n) {
				break
			}
		}
	}
}

// New returns the generator for a configured format: "uuid", "ulid" or
// "sequential" (alias "seq").
func New(format string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "uuid":
		return UUID{}, nil
	case "ulid":
		return ULID{}, nil
	case "sequential", "seq":
		return NewSequential("s", 0), nil
	}
	return nil, fmt.Errorf("unknown id format %q (want uuid, ulid or sequential)", format)
}
