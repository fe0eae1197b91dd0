package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// CurrentSchemaVersion is written into every saved drawing. Loading a drawing
// with a different major version fails.
const CurrentSchemaVersion = "1.0.0"

// Drawing is the persisted form of a shape collection. This is the top-level
// object serialized to a drawing file.
type Drawing struct {
	Version   string         `json:"version" yaml:"version"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"updated_at"`
	Shapes    []shape.Record `json:"shapes" yaml:"shapes"`
}

// NewDrawing builds a drawing document from shapes, in drawing order.
func NewDrawing(name string, shapes []shape.Shape) *Drawing {
	now := time.Now().UTC()
	d := &Drawing{
		Version:   CurrentSchemaVersion,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Shapes:    make([]shape.Record, 0, len(shapes)),
	}
	d.SetShapes(shapes)
	return d
}

// SetShapes replaces the document's shapes.
func (d *Drawing) SetShapes(shapes []shape.Shape) {
	d.Shapes = d.Shapes[:0]
	for _, s := range shapes {
		d.Shapes = append(d.Shapes, shape.ToRecord(s))
	}
}

// Decode converts the stored records back into shapes.
func (d *Drawing) Decode() ([]shape.Shape, error) {
	out := make([]shape.Shape, 0, len(d.Shapes))
	for i, r := range d.Shapes {
		s, err := shape.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Format is a drawing file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension: .yaml and .yml are
// YAML, everything else is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Marshal encodes d in the given format.
func Marshal(f Format, d *Drawing) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("failed to marshal drawing: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal drawing: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal drawing: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown drawing format %q", f)
}

// Unmarshal decodes a drawing and checks its schema version.
func Unmarshal(f Format, data []byte) (*Drawing, error) {
	var d Drawing
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	case FormatJSON:
		err = json.Unmarshal(data, &d)
	default:
		return nil, fmt.Errorf("unknown drawing format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawing: %w", err)
	}
	if err := checkVersion(d.Version); err != nil {
		return nil, err
	}
	return &d, nil
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("drawing has no schema version")
	}
	major, _, _ := strings.Cut(v, ".")
	want, _, _ := strings.Cut(CurrentSchemaVersion, ".")
	if major != want {
		return fmt.Errorf("unsupported drawing schema version %q (want %s.x)", v, want)
	}
	return nil
}
