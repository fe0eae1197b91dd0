package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/one-shot-cad/internal/command"
	"github.com/joeycumines/one-shot-cad/internal/config"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.GetWarnings() {
		_, _ = fmt.Fprintf(stderr, "Warning: %s: %s\n", configPath, w)
	}

	registry := command.NewRegistry()
	registry.Register(command.NewHelpCommand(registry))
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(cfg, configPath))
	registry.Register(command.NewInitCommand(configPath))
	registry.Register(command.NewDrawCommand(cfg))
	registry.Register(command.NewRunCommand(cfg))
	registry.Register(command.NewLsCommand())
	registry.Register(command.NewLogCommand(cfg))
	registry.Register(command.NewCompletionCommand(registry))

	return registry.Run(args, stdout, stderr)
}
