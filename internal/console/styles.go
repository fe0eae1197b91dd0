package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"
)

// Styles colours the prompt line.
type Styles struct {
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Cancel  lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style

	// Profile is what rendered text is downsampled to on the way out.
	Profile colorprofile.Profile
}

// NewStyles builds styles for w. mode is the color option: "auto" detects
// from w and the environment, "always" forces 256 colours and "never"
// disables them.
func NewStyles(w io.Writer, mode string) Styles {
	var profile colorprofile.Profile
	switch strings.ToLower(mode) {
	case "never", "off", "false":
		profile = colorprofile.NoTTY
	case "always", "on", "true":
		profile = colorprofile.ANSI256
	default:
		profile = colorprofile.Detect(w, os.Environ())
	}

	dark := true
	if f, ok := w.(*os.File); ok && profile > colorprofile.NoTTY && term.IsTerminal(int(f.Fd())) && term.IsTerminal(int(os.Stdin.Fd())) {
		dark = lipgloss.HasDarkBackground(os.Stdin, f)
	}
	pick := lipgloss.LightDark(dark)

	return Styles{
		Prompt: lipgloss.NewStyle().
			Foreground(pick(lipgloss.Color("#0066CC"), lipgloss.Color("#5599FF"))).
			Bold(true),
		Success: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle().
			Foreground(pick(lipgloss.Color("#D00000"), lipgloss.Color("#FF5555"))),
		Cancel: lipgloss.NewStyle().
			Foreground(pick(lipgloss.Color("#B8860B"), lipgloss.Color("#FFAA00"))),
		Dim: lipgloss.NewStyle().
			Foreground(pick(lipgloss.Color("#666666"), lipgloss.Color("#888888"))),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Profile: profile,
	}
}

// PlainStyles renders everything unstyled.
func PlainStyles() Styles {
	return NewStyles(io.Discard, "never")
}

// Fprintln renders msg with style and writes it to w as one line, reduced to
// the colours s.Profile allows.
func (s Styles) Fprintln(w io.Writer, style lipgloss.Style, msg string) {
	out := &colorprofile.Writer{Forward: w, Profile: s.Profile}
	_, _ = fmt.Fprintln(out, style.Render(msg))
}
