package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/joeycumines/one-shot-cad/internal/config"
)

// HelpCommand lists the commands, or describes one with its flags.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand("help", "Display help information for commands", "help [command]"),
		registry:    registry,
	}
}

func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 1, stderr); err != nil {
		return err
	}
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "oscad - modify 2D drawings from the command line")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: oscad <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")
		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'oscad help <command>' for the flags of a command.")
		return nil
	}

	cmd, err := c.registry.Get(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: oscad %s\n", cmd.Usage())

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	if buf.Len() > 0 {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, buf.String())
	}
	return nil
}

type VersionCommand struct {
	*BaseCommand
	version string
}

func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand("version", "Display version information", "version"),
		version:     version,
	}
}

func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 0, stderr); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "oscad version %s\n", c.version)
	return nil
}

// ConfigCommand reads and writes configuration options. Keys of section
// options are written section.key, as in fillet.radius.
type ConfigCommand struct {
	*BaseCommand
	config     *config.Config
	configPath string
	showAll    bool
}

// NewConfigCommand creates the config command. With an empty configPath,
// set changes only the in-memory config.
func NewConfigCommand(cfg *config.Config, configPath string) *ConfigCommand {
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Manage configuration settings",
			"config [-all] [key [value]] | config validate | config schema",
		),
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.showAll, "all", false, "Show every effective option, including defaults")
}

func (c *ConfigCommand) Execute(args []string, stdout, stderr io.Writer) error {
	schema := config.DefaultSchema()

	if len(args) == 0 {
		if c.showAll {
			c.printAll(stdout, schema)
			return nil
		}
		_, _ = fmt.Fprintln(stdout, "Configuration management:")
		_, _ = fmt.Fprintln(stdout, "  config <key>          - Get configuration value")
		_, _ = fmt.Fprintln(stdout, "  config <key> <value>  - Set configuration value")
		_, _ = fmt.Fprintln(stdout, "  config -all           - Show all configuration")
		_, _ = fmt.Fprintln(stdout, "  config validate       - Validate configuration")
		_, _ = fmt.Fprintln(stdout, "  config schema         - Show configuration schema")
		return nil
	}

	switch args[0] {
	case "validate":
		return c.validate(stdout, schema)
	case "schema":
		_, _ = fmt.Fprint(stdout, schema.FormatHelp())
		return nil
	}

	section, key := splitKey(schema, args[0])
	switch len(args) {
	case 1:
		if !schema.IsKnown(section, key) {
			_, _ = fmt.Fprintf(stdout, "Configuration key '%s' not found\n", args[0])
			return nil
		}
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", args[0], schema.ResolveIn(c.config, section, key))
		return nil

	case 2:
		value := args[1]
		if err := schema.Check(section, key, value); err != nil {
			_, _ = fmt.Fprintf(stderr, "Invalid value: %v\n", err)
			return err
		}
		if section == "" {
			c.config.SetGlobalOption(key, value)
		} else {
			c.config.SetCommandOption(section, key, value)
		}
		if c.configPath != "" {
			if err := config.SetKeyInFile(c.configPath, section, key, value); err != nil {
				return fmt.Errorf("failed to persist config: %w", err)
			}
		}
		_, _ = fmt.Fprintf(stdout, "Set configuration: %s = %s\n", args[0], value)
		return nil
	}

	_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
	return fmt.Errorf("config: invalid arguments")
}

// splitKey maps "fillet.radius" to ("fillet", "radius"). Keys whose first
// part is not a schema section, such as "log.file", are global.
func splitKey(schema *config.ConfigSchema, s string) (section, key string) {
	if sec, k, ok := strings.Cut(s, "."); ok && slices.Contains(schema.Sections(), sec) {
		return sec, k
	}
	return "", s
}

func (c *ConfigCommand) printAll(w io.Writer, schema *config.ConfigSchema) {
	_, _ = fmt.Fprintln(w, "Global configuration:")
	for _, o := range schema.GlobalOptions() {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", o.Key, schema.Resolve(c.config, o.Key))
	}
	for _, sec := range schema.Sections() {
		_, _ = fmt.Fprintf(w, "\n[%s]\n", sec)
		for _, o := range schema.SectionOptions(sec) {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", o.Key, schema.ResolveIn(c.config, sec, o.Key))
		}
	}
}

func (c *ConfigCommand) validate(w io.Writer, schema *config.ConfigSchema) error {
	issues := config.ValidateConfig(c.config, schema)
	if _, err := config.EngineDefaults(c.config); err != nil {
		issues = append(issues, err.Error())
	}
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "  - %s\n", issue)
	}
	return nil
}

// InitCommand writes a commented configuration file listing every option
// at its default.
type InitCommand struct {
	*BaseCommand
	configPath string
	force      bool
}

func NewInitCommand(configPath string) *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand("init", "Create a configuration file", "init [-force]"),
		configPath:  configPath,
	}
}

func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
}

func (c *InitCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 0, stderr); err != nil {
		return err
	}
	if _, err := os.Stat(c.configPath); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Configuration already exists at: %s\n", c.configPath)
		_, _ = fmt.Fprintln(stdout, "Use -force to overwrite it")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.configPath, []byte(defaultConfigText(config.DefaultSchema())), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if _, err := config.LoadFromPath(c.configPath); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to load created config: %v\n", err)
	}
	_, _ = fmt.Fprintf(stdout, "Initialized oscad configuration at: %s\n", c.configPath)
	return nil
}

// defaultConfigText renders the schema as a config file with every option
// commented out.
func defaultConfigText(schema *config.ConfigSchema) string {
	var b strings.Builder
	b.WriteString("# oscad configuration\n")
	b.WriteString("# Format: optionName remainingLineIsTheValue\n")
	b.WriteString("# [section] headers scope the options below them to one command\n\n")
	writeOptions := func(opts []config.ConfigOption) {
		sort.Slice(opts, func(i, j int) bool { return opts[i].Key < opts[j].Key })
		for _, o := range opts {
			fmt.Fprintf(&b, "# %s\n# %s %s\n", o.Description, o.Key, o.Default)
		}
	}
	writeOptions(schema.GlobalOptions())
	for _, sec := range schema.Sections() {
		fmt.Fprintf(&b, "\n[%s]\n", sec)
		writeOptions(schema.SectionOptions(sec))
	}
	return b.String()
}
