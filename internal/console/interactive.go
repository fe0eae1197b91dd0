package console

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/go-prompt"
	istrings "github.com/joeycumines/go-prompt/strings"

	"github.com/joeycumines/one-shot-cad/internal/argv"
)

// RunInteractive reads lines from the terminal until quit. historyFile, when
// set, seeds the line history and records every non-empty line.
func (s *Session) RunInteractive(historyFile string) {
	s.print(s.styles.Dim, "Type 'help' for commands, 'quit' to leave.")

	executor := func(line string) {
		if _, err := s.Exec(line); err != nil {
			s.logger.Error("console line failed", "line", line, "error", err)
		}
		if strings.TrimSpace(line) != "" {
			if err := appendHistory(historyFile, line); err != nil {
				s.logger.Warn("could not record history", "file", historyFile, "error", err)
			}
		}
	}

	completer := func(document prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
		suggestions, cur := s.Suggest(document.TextBeforeCursor())
		return suggestions, istrings.RuneNumber(cur.Start), istrings.RuneNumber(cur.End)
	}

	options := []prompt.Option{
		prompt.WithTitle("oscad"),
		prompt.WithPrefix("oscad> "),
		prompt.WithCompleter(completer),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return breakline && s.done
		}),
	}
	if history := loadHistory(historyFile); len(history) > 0 {
		options = append(options, prompt.WithHistory(history))
	}

	p := prompt.New(executor, options...)
	p.Run()
}

// Suggest completes the word before the cursor. While a command is active the
// candidates are its options; otherwise they are command names and console
// verbs, or shape IDs after select. The returned token is the span the
// suggestion replaces.
func (s *Session) Suggest(before string) ([]prompt.Suggest, argv.Token) {
	completed, cur := argv.BeforeCursor(before)

	var all []prompt.Suggest
	switch {
	case len(completed) == 0 && s.state.Active():
		for _, o := range s.state.Options {
			all = append(all, prompt.Suggest{Text: o, Description: string(s.state.Command) + " option"})
		}
		all = append(all, prompt.Suggest{Text: "esc", Description: "cancel"})
	case len(completed) == 0:
		for _, id := range s.dispatch.Commands() {
			all = append(all, prompt.Suggest{
				Text:        strings.ToLower(string(id)),
				Description: strings.ToLower(strings.Join(s.dispatch.Aliases(id), ", ")),
			})
		}
		for _, v := range Verbs {
			all = append(all, prompt.Suggest{Text: v.Name, Description: v.Usage})
		}
	case strings.EqualFold(completed[0], "select") || strings.EqualFold(completed[0], "sel"):
		for _, sh := range s.store.Snapshot().All() {
			all = append(all, prompt.Suggest{Text: string(sh.Base().ID), Description: string(sh.Kind())})
		}
	default:
		return nil, cur
	}

	prefix := strings.ToLower(cur.Text)
	out := all[:0]
	for _, sg := range all {
		if strings.HasPrefix(strings.ToLower(sg.Text), prefix) {
			out = append(out, sg)
		}
	}
	return out, cur
}

func loadHistory(filename string) []string {
	if filename == "" {
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	var history []string
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			history = append(history, line)
		}
	}
	return history
}

func appendHistory(filename, line string) error {
	if filename == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.TrimSpace(line) + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
