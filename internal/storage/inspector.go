package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DrawingInfo is lightweight metadata for a drawing file found on disk.
type DrawingInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Format    Format    `json:"format"`
	Size      int64     `json:"size"`
	Shapes    int       `json:"shapes"`
	UpdatedAt time.Time `json:"updatedAt"`
	// IsOpen is set when another process holds the drawing lock.
	IsOpen bool `json:"isOpen"`
	// Err is set when the file could not be decoded; Shapes is then zero.
	Err string `json:"error,omitempty"`
}

// Scan lists the drawing files (.json, .yaml, .yml) in dir, sorted by name.
// Unreadable drawings are listed with Err set rather than failing the scan.
func Scan(dir string) ([]DrawingInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DrawingInfo{}, nil
		}
		return nil, err
	}

	out := []DrawingInfo{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		path := filepath.Join(dir, e.Name())
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info := DrawingInfo{
			Name:      e.Name(),
			Path:      path,
			Format:    FormatFor(path),
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
		}
		if d, err := ReadFile(path); err != nil {
			info.Err = err.Error()
		} else {
			info.Shapes = len(d.Shapes)
			if !d.UpdatedAt.IsZero() {
				info.UpdatedAt = d.UpdatedAt
			}
		}
		if held, err := probeLock(LockPath(path)); err == nil {
			info.IsOpen = held
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
