package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000")).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Italic(true)
)

// StyledHelpPrinter builds the Lipgloss help renderer handed to
// kong.Help. Everything is read from the parsed model, so the enum
// choices and defaults shown here stay in step with the CLI struct.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("Jivegain 🎚"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("EBU R128 loudness scanner and ReplayGain 2.0 tagger"))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(usageLine(ctx))
		sb.WriteString("\n")

		if args := ctx.Model.Node.Positional; len(args) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range args {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(positionalName(arg)))
				if arg.Help != "" {
					sb.WriteString("  ")
					sb.WriteString(arg.Help)
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, f := range ctx.Model.Node.Flags {
			if f.Hidden {
				continue
			}
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(flagSyntax(f)))
			if f.Help != "" {
				sb.WriteString("  ")
				sb.WriteString(f.Help)
			}
			if note := flagNote(f); note != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render(note))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

// usageLine derives the one-line synopsis from the model's positional
// arguments. The file list stays in brackets: version and tag-deletion
// runs take no files.
func usageLine(ctx *kong.Context) string {
	parts := []string{ctx.Model.Name, "[flags]"}
	for _, arg := range ctx.Model.Node.Positional {
		parts = append(parts, "["+positionalName(arg)+"]")
	}
	return strings.Join(parts, " ")
}

func positionalName(arg *kong.Value) string {
	name := "<" + arg.Name + ">"
	if arg.IsCumulative() {
		name += " ..."
	}
	return name
}

// flagSyntax renders the "-s, --tagmode=d|i|e|l|s" flag form. Enum
// flags list their choices in place of a placeholder.
func flagSyntax(f *kong.Flag) string {
	syntax := "--" + f.Name
	if f.Short != 0 {
		syntax = fmt.Sprintf("-%c, %s", f.Short, syntax)
	}
	if f.IsBool() {
		return syntax
	}
	switch {
	case f.Enum != "":
		choices := strings.Split(f.Enum, ",")
		for i := range choices {
			choices[i] = strings.TrimSpace(choices[i])
		}
		syntax += "=" + strings.Join(choices, "|")
	case f.PlaceHolder != "":
		syntax += "=" + f.PlaceHolder
	default:
		syntax += "=" + strings.ToUpper(f.Name)
	}
	return syntax
}

// flagNote is the dimmed default-value suffix. Boolean flags default
// to off and print nothing.
func flagNote(f *kong.Flag) string {
	if f.IsBool() || !f.HasDefault {
		return ""
	}
	return "(default: " + f.Default + ")"
}
