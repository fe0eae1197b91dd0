package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/one-shot-cad/internal/config"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	help := NewHelpCommand(r)
	r.Register(help)
	r.Register(NewVersionCommand("0.0.1"))
	r.Register(NewRunCommand(config.NewConfig()))

	var stdout, stderr bytes.Buffer
	require.NoError(t, help.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "version")
	assert.Contains(t, stdout.String(), "Run a script of console lines against a drawing")
	assert.Empty(t, stderr.String())

	stdout.Reset()
	require.NoError(t, help.Execute([]string{"run"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Command: run")
	assert.Contains(t, stdout.String(), "Flags:")
	assert.Contains(t, stdout.String(), "-strict")

	assert.Error(t, help.Execute([]string{"nope"}, &stdout, &stderr))
	assert.Error(t, help.Execute([]string{"a", "b"}, &stdout, &stderr))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := NewVersionCommand("9.9.9")

	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Equal(t, "oscad version 9.9.9\n", stdout.String())

	err := cmd.Execute([]string{"extra"}, &stdout, &stderr)
	assert.EqualError(t, err, "version: unexpected arguments: [extra]")
	assert.Contains(t, stderr.String(), "Usage: oscad version")
}

func TestConfigCommandGet(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig()
	cfg.SetCommandOption("fillet", "radius", "2")
	cmd := NewConfigCommand(cfg, "")

	for _, tc := range []struct{ key, want string }{
		{"fillet.radius", "fillet.radius: 2\n"},
		{"offset.distance", "offset.distance: 1\n"},
		{"pick.tolerance", "pick.tolerance: 0.5\n"},
		{"fillet.color", "fillet.color: auto\n"},
		{"nope", "Configuration key 'nope' not found\n"},
	} {
		var stdout, stderr bytes.Buffer
		require.NoError(t, cmd.Execute([]string{tc.key}, &stdout, &stderr))
		assert.Equal(t, tc.want, stdout.String(), tc.key)
	}
}

func TestConfigCommandSet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	cfg := config.NewConfig()
	cmd := NewConfigCommand(cfg, path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute([]string{"fillet.radius", "3"}, &stdout, &stderr))
	require.NoError(t, cmd.Execute([]string{"id.format", "sequential"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Set configuration: fillet.radius = 3")

	v, ok := cfg.GetCommandOption("fillet", "radius")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id.format sequential\n[fillet]\nradius 3\n", string(content))

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	d, err := config.EngineDefaults(loaded)
	require.NoError(t, err)
	assert.Equal(t, 3.0, d.FilletRadius)

	err = cmd.Execute([]string{"fillet.trim", "maybe"}, &stdout, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Invalid value")

	err = cmd.Execute([]string{"bogus", "1"}, &stdout, &stderr)
	assert.EqualError(t, err, "unknown option: bogus")
}

func TestConfigCommandValidateAndSchema(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig()
	cfg.SetCommandOption("offset", "distance", "-1")
	cfg.SetGlobalOption("mystery", "x")
	cmd := NewConfigCommand(cfg, "")

	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute([]string{"validate"}, &stdout, &stderr))
	out := stdout.String()
	assert.Contains(t, out, "Configuration has 2 issue(s):")
	assert.Contains(t, out, `unknown global option: "mystery"`)
	assert.Contains(t, out, "[offset] distance: must be positive, got -1")

	stdout.Reset()
	require.NoError(t, cmd.Execute([]string{"schema"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "[fillet] Options:")

	stdout.Reset()
	cmd.showAll = true
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "  distance: -1\n")
	assert.Contains(t, stdout.String(), "  color: auto\n")
}

func TestInitCommand(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")
	cmd := NewInitCommand(path)

	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Initialized oscad configuration at: "+path)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, config.ValidateConfig(cfg, config.DefaultSchema()))
	assert.Empty(t, cfg.Global, "every option is commented out")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[fillet]\n")
	assert.Contains(t, string(content), "# radius 0\n")

	require.NoError(t, os.WriteFile(path, []byte("color never\n"), 0644))
	stdout.Reset()
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Configuration already exists")
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "color never\n", string(content))

	cmd.force = true
	require.NoError(t, cmd.Execute(nil, &stdout, &stderr))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "color never\n", string(content))
}
