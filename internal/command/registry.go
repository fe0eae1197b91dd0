package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownCommand is returned by Get and Run for a name nothing is
// registered under.
var ErrUnknownCommand = errors.New("unknown command")

// Registry holds the available commands by name.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd, replacing any command of the same name.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, error) {
	if cmd, ok := r.commands[name]; ok {
		return cmd, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// List returns the registered command names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses args (the command line after the program name) and executes
// the named command. No arguments, -h and --help run help.
func (r *Registry) Run(args []string, stdout, stderr io.Writer) error {
	name := "help"
	if len(args) > 0 && args[0] != "-h" && args[0] != "--help" {
		name, args = args[0], args[1:]
	} else {
		args = nil
	}

	cmd, err := r.Get(name)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		_, _ = fmt.Fprintln(stderr, "Use 'oscad help' to see available commands.")
		return err
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: oscad %s\n\n%s\n\n", cmd.Usage(), cmd.Description())
		_, _ = fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	cmd.SetupFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return cmd.Execute(fs.Args(), stdout, stderr)
}
