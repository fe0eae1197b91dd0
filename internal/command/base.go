// Package command implements the oscad subcommands and the registry main
// dispatches them through.
package command

import (
	"flag"
	"fmt"
	"io"
)

// Command is one oscad subcommand.
type Command interface {
	Name() string
	// Description is the one-line summary shown by help.
	Description() string
	Usage() string
	// SetupFlags registers the command's flags. The registry parses them
	// before Execute.
	SetupFlags(fs *flag.FlagSet)
	// Execute runs the command with the arguments left after flag parsing.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the name, description and usage. Commands embed it
// and override SetupFlags when they take flags.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{name: name, description: description, usage: usage}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

func (c *BaseCommand) SetupFlags(*flag.FlagSet) {}

// checkArgs reports an error on stderr when the argument count is outside
// [minArgs, maxArgs]. A negative maxArgs means no upper bound.
func (c *BaseCommand) checkArgs(args []string, minArgs, maxArgs int, stderr io.Writer) error {
	if len(args) >= minArgs && (maxArgs < 0 || len(args) <= maxArgs) {
		return nil
	}
	_, _ = fmt.Fprintf(stderr, "Usage: oscad %s\n", c.usage)
	if len(args) < minArgs {
		return fmt.Errorf("%s: missing arguments", c.name)
	}
	return fmt.Errorf("%s: unexpected arguments: %v", c.name, args[maxArgs:])
}
