package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/storage"
)

// SetKeyInFile updates or adds an option in the config file, preserving
// comments and formatting. An empty section means the global section.
//
// An existing key in the target section is replaced in place. A new global
// key goes before the first section header. A new section key goes at the end
// of that section, and a missing section is appended to the file.
func SetKeyInFile(path, section, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	newLine := key
	if value != "" {
		newLine = key + " " + value
	}

	current := ""
	sectionFound := section == ""
	// insertIndex is the line after the last content line of the target section
	insertIndex := -1
	if section == "" {
		insertIndex = 0
	}
	replaced := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			current = strings.TrimSpace(strings.Trim(trimmed, "[]"))
			if current == section && section != "" {
				sectionFound = true
				insertIndex = i + 1
			}
			continue
		}
		if current != section {
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		name, _, _ := strings.Cut(trimmed, " ")
		if name == key {
			lines[i] = newLine
			replaced = true
			break
		}
		insertIndex = i + 1
	}

	switch {
	case replaced:
	case !sectionFound:
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "["+section+"]", newLine)
	default:
		lines = append(lines[:insertIndex], append([]string{newLine}, lines[insertIndex:]...)...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return storage.AtomicWriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
