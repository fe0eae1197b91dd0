package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/one-shot-cad/internal/config"
)

// CompletionCommand generates shell completion scripts.
type CompletionCommand struct {
	*BaseCommand
	registry *Registry
}

// NewCompletionCommand creates a new completion command.
func NewCompletionCommand(registry *Registry) *CompletionCommand {
	return &CompletionCommand{
		BaseCommand: NewBaseCommand(
			"completion",
			"Generate shell completion scripts",
			"completion [bash|zsh|fish]",
		),
		registry: registry,
	}
}

var completionShells = []string{"bash", "zsh", "fish"}

// Execute generates the completion script for the specified shell.
func (c *CompletionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 0, 1, stderr); err != nil {
		return err
	}
	shell := "bash"
	if len(args) > 0 {
		shell = strings.ToLower(args[0])
	}
	switch shell {
	case "bash":
		return c.writeBash(stdout)
	case "zsh":
		return c.writeZsh(stdout)
	case "fish":
		return c.writeFish(stdout)
	}
	_, _ = fmt.Fprintf(stderr, "Unsupported shell: %s\n", shell)
	_, _ = fmt.Fprintf(stderr, "Supported shells: %s\n", strings.Join(completionShells, ", "))
	return fmt.Errorf("unsupported shell: %s", shell)
}

// configKeys lists every key accepted by "oscad config", with section
// options written as section.key.
func configKeys() []string {
	schema := config.DefaultSchema()
	var keys []string
	for _, o := range schema.GlobalOptions() {
		keys = append(keys, o.Key)
	}
	for _, sec := range schema.Sections() {
		for _, o := range schema.SectionOptions(sec) {
			keys = append(keys, sec+"."+o.Key)
		}
	}
	return keys
}

func (c *CompletionCommand) writeBash(w io.Writer) error {
	script := fmt.Sprintf(`# bash completion for oscad

_oscad_completion() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=($(compgen -W "%[1]s" -- "${cur}"))
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        help)
            COMPREPLY=($(compgen -W "%[1]s" -- "${cur}"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "%[2]s" -- "${cur}"))
            ;;
        config)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=($(compgen -W "validate schema %[3]s" -- "${cur}"))
            fi
            ;;
        log)
            COMPREPLY=($(compgen -W "tail" -- "${cur}"))
            ;;
        ls)
            COMPREPLY=($(compgen -d -- "${cur}"))
            ;;
        draw)
            COMPREPLY=($(compgen -f -X '!*.@(json|yaml|yml)' -- "${cur}") $(compgen -d -- "${cur}"))
            ;;
        *)
            COMPREPLY=($(compgen -f -- "${cur}"))
            ;;
    esac
    return 0
}

complete -F _oscad_completion oscad

# To install, source it from ~/.bashrc:
#    source <(oscad completion bash)
`, strings.Join(c.registry.List(), " "), strings.Join(completionShells, " "), strings.Join(configKeys(), " "))
	_, err := io.WriteString(w, script)
	return err
}

func (c *CompletionCommand) writeZsh(w io.Writer) error {
	var commands strings.Builder
	for _, name := range c.registry.List() {
		if cmd, err := c.registry.Get(name); err == nil {
			_, _ = fmt.Fprintf(&commands, "                '%s:%s'\n", name, zshEscape(cmd.Description()))
		}
	}

	script := fmt.Sprintf(`#compdef oscad

_oscad() {
    local state
    _arguments -C \
        '1: :->commands' \
        '*: :->args' && return 0

    case "$state" in
        commands)
            local commands
            commands=(
%[1]s            )
            _describe 'commands' commands
            ;;
        args)
            case ${words[2]} in
                help) _values 'command' %[2]s ;;
                completion) _values 'shell' %[3]s ;;
                config) (( CURRENT == 3 )) && _values 'key' 'validate' 'schema' %[4]s ;;
                log) _values 'subcommand' 'tail' ;;
                ls) _files -/ ;;
                draw) _files -g '*.(json|yaml|yml)' ;;
                *) _files ;;
            esac
            ;;
    esac
}

_oscad "$@"

# To install, write it to a directory on $fpath as _oscad:
#    oscad completion zsh > ~/.zsh/completions/_oscad
`, commands.String(), zshWords(c.registry.List()), zshWords(completionShells), zshWords(configKeys()))
	_, err := io.WriteString(w, script)
	return err
}

func zshWords(words []string) string {
	quoted := make([]string, len(words))
	for i, s := range words {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, " ")
}

func zshEscape(s string) string {
	return strings.NewReplacer(`'`, `'\''`, ":", `\:`).Replace(s)
}

func (c *CompletionCommand) writeFish(w io.Writer) error {
	var b strings.Builder
	_, _ = fmt.Fprintln(&b, "# fish completion for oscad")
	_, _ = fmt.Fprintln(&b, "complete -c oscad -f")
	for _, name := range c.registry.List() {
		if cmd, err := c.registry.Get(name); err == nil {
			_, _ = fmt.Fprintf(&b, "complete -c oscad -n '__fish_use_subcommand' -a '%s' -d '%s'\n",
				name, strings.ReplaceAll(cmd.Description(), "'", `\'`))
		}
	}
	_, _ = fmt.Fprintf(&b, "complete -c oscad -n '__fish_seen_subcommand_from help' -a '%s'\n", strings.Join(c.registry.List(), " "))
	_, _ = fmt.Fprintf(&b, "complete -c oscad -n '__fish_seen_subcommand_from completion' -a '%s'\n", strings.Join(completionShells, " "))
	_, _ = fmt.Fprintf(&b, "complete -c oscad -n '__fish_seen_subcommand_from config' -a 'validate schema %s'\n", strings.Join(configKeys(), " "))
	_, _ = fmt.Fprintln(&b, "complete -c oscad -n '__fish_seen_subcommand_from log' -a 'tail'")
	_, _ = fmt.Fprintln(&b, "complete -c oscad -n '__fish_seen_subcommand_from ls' -a '(__fish_complete_directories)'")
	_, _ = fmt.Fprintln(&b, "complete -c oscad -n '__fish_seen_subcommand_from draw run' -F")
	_, _ = fmt.Fprintln(&b, "# To install: oscad completion fish > ~/.config/fish/completions/oscad.fish")
	_, err := io.WriteString(w, b.String())
	return err
}
