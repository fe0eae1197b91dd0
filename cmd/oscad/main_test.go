package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/one-shot-cad/internal/command"
	"github.com/joeycumines/one-shot-cad/internal/storage"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OSCAD_CONFIG", filepath.Join(dir, "config"))

	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{"no command shows help", nil, "Available commands:"},
		{"help flag", []string{"--help"}, "Available commands:"},
		{"version", []string{"version"}, "oscad version " + version},
		{"help for draw", []string{"help", "draw"}, "Usage: oscad draw [options] [file]"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.NoError(t, run(tc.args, &stdout, &stderr))
			assert.Contains(t, stdout.String(), tc.want)
		})
	}

	var stdout, stderr bytes.Buffer
	assert.ErrorIs(t, run([]string{"nonexistent"}, &stdout, &stderr), command.ErrUnknownCommand)
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config")
	t.Setenv("OSCAD_CONFIG", configPath)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"config", "id.format", "sequential"}, &stdout, &stderr))
	require.NoError(t, run([]string{"config", "fillet.radius", "2"}, &stdout, &stderr))

	script := filepath.Join(dir, "corner.txt")
	require.NoError(t, os.WriteFile(script, []byte("line 0,0 10,0\nline 10,0 10,10\nfillet\npick 1,0\npick 10,9\n"), 0644))
	out := filepath.Join(dir, "corner.json")

	stdout.Reset()
	require.NoError(t, run([]string{"run", "-out", out, script}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Radius = 2.")
	assert.Contains(t, stdout.String(), "Created s1 line 0,0 10,0.")

	d, err := storage.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, d.Shapes, 3)

	require.NoError(t, os.WriteFile(configPath, []byte("bogus option\n"), 0644))
	stderr.Reset()
	require.NoError(t, run([]string{"version"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Warning: "+configPath)
}
