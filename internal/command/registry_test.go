package command

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCommand struct {
	*BaseCommand
	loud bool
	got  []string
}

func (c *echoCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.loud, "loud", false, "shout")
}

func (c *echoCommand) Execute(args []string, stdout, _ io.Writer) error {
	c.got = args
	return nil
}

func newTestRegistry() (*Registry, *echoCommand) {
	r := NewRegistry()
	echo := &echoCommand{BaseCommand: NewBaseCommand("echo", "Echo arguments", "echo [-loud] [args...]")}
	r.Register(echo)
	r.Register(NewHelpCommand(r))
	r.Register(NewVersionCommand("1.2.3"))
	return r, echo
}

func TestRegistryGetAndList(t *testing.T) {
	t.Parallel()
	r, echo := newTestRegistry()

	cmd, err := r.Get("echo")
	require.NoError(t, err)
	assert.Same(t, echo, cmd)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	assert.Equal(t, []string{"echo", "help", "version"}, r.List())
}

func TestRegistryRun(t *testing.T) {
	t.Parallel()
	r, echo := newTestRegistry()

	var stdout, stderr bytes.Buffer
	require.NoError(t, r.Run([]string{"echo", "-loud", "a", "b"}, &stdout, &stderr))
	assert.True(t, echo.loud)
	assert.Equal(t, []string{"a", "b"}, echo.got)

	for _, args := range [][]string{nil, {"-h"}, {"--help"}} {
		stdout.Reset()
		require.NoError(t, r.Run(args, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "Available commands:")
	}

	stderr.Reset()
	err := r.Run([]string{"frobnicate"}, &stdout, &stderr)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, stderr.String(), "Unknown command: frobnicate")

	stderr.Reset()
	require.NoError(t, r.Run([]string{"echo", "-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: oscad echo [-loud] [args...]")

	assert.Error(t, r.Run([]string{"echo", "-bogus"}, &stdout, &stderr))
}
