// Package storage persists drawings: JSON or YAML documents written
// atomically, guarded by an exclusive lock file while a drawing is open.
package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Backend is the contract the console saves and loads drawings through.
type Backend interface {
	// Load reads the drawing. It returns (nil, nil) if none exists yet.
	Load() (*Drawing, error)
	// Save atomically persists the whole drawing.
	Save(d *Drawing) error
	// Close releases any resources, such as the drawing lock.
	Close() error
	// Path names the drawing, for messages.
	Path() string
}

// FileSystemBackend stores one drawing file and holds its lock for as long
// as it is open.
type FileSystemBackend struct {
	path   string
	format Format
	mu     sync.Mutex
	lock   *os.File
}

// Open locks the drawing at path for exclusive use. The file itself need not
// exist yet. ErrLocked means another process has it open.
func Open(path string) (*FileSystemBackend, error) {
	if path == "" {
		return nil, errors.New("drawing path cannot be empty")
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("drawing path %q is a directory", path)
	}
	lock, err := acquireFileLock(LockPath(path))
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("failed to acquire drawing lock: %w", err)
	}
	return &FileSystemBackend{path: path, format: FormatFor(path), lock: lock}, nil
}

func (b *FileSystemBackend) Path() string { return b.path }

// Load reads and decodes the drawing file.
func (b *FileSystemBackend) Load() (*Drawing, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read drawing file: %w", err)
	}
	return Unmarshal(b.format, data)
}

// Save stamps the drawing with the current schema version and update time
// and writes it atomically.
func (b *FileSystemBackend) Save(d *Drawing) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	return WriteFile(b.path, d)
}

// Close releases the drawing lock. Closing twice is a no-op.
func (b *FileSystemBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lock == nil {
		return nil
	}
	err := releaseFileLock(b.lock)
	b.lock = nil
	if err != nil {
		return fmt.Errorf("failed to release drawing lock: %w", err)
	}
	return nil
}

func (b *FileSystemBackend) checkOpen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lock == nil {
		return fmt.Errorf("drawing %s is closed", b.path)
	}
	return nil
}

// WriteFile saves d to path without taking the drawing lock, for exporting a
// copy. The format follows the extension.
func WriteFile(path string, d *Drawing) error {
	d.Version = CurrentSchemaVersion
	d.UpdatedAt = time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = d.UpdatedAt
	}
	data, err := Marshal(FormatFor(path), d)
	if err != nil {
		return err
	}
	if err := AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write drawing file: %w", err)
	}
	return nil
}

// ReadFile loads the drawing at path without locking it.
func ReadFile(path string) (*Drawing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drawing file: %w", err)
	}
	return Unmarshal(FormatFor(path), data)
}

// InMemoryBackend keeps the drawing in memory, for scripted runs that never
// touch disk and for tests. Saved drawings are deep-copied through the
// encoder, as a file round trip would.
type InMemoryBackend struct {
	name string
	mu   sync.Mutex
	data []byte
}

// NewInMemoryBackend creates an empty in-memory backend.
func NewInMemoryBackend(name string) *InMemoryBackend {
	return &InMemoryBackend{name: name}
}

func (b *InMemoryBackend) Path() string { return b.name }

func (b *InMemoryBackend) Load() (*Drawing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, nil
	}
	return Unmarshal(FormatJSON, b.data)
}

func (b *InMemoryBackend) Save(d *Drawing) error {
	d.Version = CurrentSchemaVersion
	d.UpdatedAt = time.Now().UTC()
	data, err := Marshal(FormatJSON, d)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
	return nil
}

func (b *InMemoryBackend) Close() error { return nil }
