package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdcore/internal/ui/pretty"
)

// Command groups shown in the root help.
const (
	groupDocuments = "documents"
	groupSetup     = "setup"
)

// flagColumnGap separates the flag column from its description.
const flagColumnGap = 3

// HelpFormatter renders Cobra help with the pretty output styles.
type HelpFormatter struct {
	styles *pretty.Styles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))}
}

// ApplyToCommand installs the styled help and usage functions on cmd and,
// through inheritance, on its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := template.FuncMap{
		"heading":    h.styles.SummaryTitle.Render,
		"command":    h.styles.Bold.Render,
		"subcommand": h.styles.Kind.Render,
		"example":    h.styles.Dim.Render,
		"dim":        h.styles.Dim.Render,
		"flags":      h.formatFlags,
		"rpad":       rpad,
		"join":       strings.Join,
		"trim":       trimTrailingWhitespaces,
	}

	tmpl := template.Must(template.New("mdcore").Funcs(funcs).Parse(usageTemplate + helpTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := tmpl.ExecuteTemplate(command.OutOrStderr(), "usage", command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := tmpl.ExecuteTemplate(command.OutOrStdout(), "help", command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// formatFlags renders a flag set as an aligned two-column list.
func (h *HelpFormatter) formatFlags(flags *pflag.FlagSet) string {
	type row struct{ name, styled, usage string }

	var rows []row
	width := 0

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}

		varname, usage := pflag.UnquoteUsage(flag)

		var name, styled strings.Builder
		if flag.Shorthand != "" {
			name.WriteString("-" + flag.Shorthand + ", ")
			styled.WriteString(h.styles.Kind.Render("-"+flag.Shorthand) + ", ")
		} else {
			name.WriteString("    ")
			styled.WriteString("    ")
		}
		name.WriteString("--" + flag.Name)
		styled.WriteString(h.styles.Kind.Render("--" + flag.Name))
		if varname != "" {
			name.WriteString(" " + varname)
			styled.WriteString(" " + h.styles.Dim.Render(varname))
		}

		if showDefault(flag) {
			usage += h.styles.Dim.Render(fmt.Sprintf(" (default %s)", flag.DefValue))
		}

		rows = append(rows, row{name: name.String(), styled: styled.String(), usage: usage})
		width = max(width, len(name.String()))
	})

	var out strings.Builder
	for i, r := range rows {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString("  ")
		out.WriteString(r.styled)
		out.WriteString(strings.Repeat(" ", width-len(r.name)+flagColumnGap))
		out.WriteString(r.usage)
	}
	return out.String()
}

// showDefault reports whether a flag's default is worth printing.
func showDefault(flag *pflag.Flag) bool {
	switch flag.DefValue {
	case "", "false", "0", "[]", "0s":
		return false
	}
	return flag.Value.Type() != "bool"
}

const usageTemplate = `{{define "usage"}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}
{{- $cmds := .Commands}}
{{- range $group := .Groups}}

{{ heading $group.Title }}
{{- range $cmds}}{{if and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if not .AllChildCommandsHaveGroup}}

{{ heading "Additional Commands:" }}
{{- range $cmds}}{{if and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
{{end}}`

const helpTemplate = `{{define "help"}}
{{- with (or .Long .Short)}}{{ trim . }}

{{end}}
{{- if or .Runnable .HasSubCommands}}{{template "usage" .}}{{end}}
{{- end}}`

// rpad pads str with spaces to width.
func rpad(str string, width int) string {
	if len(str) >= width {
		return str
	}
	return str + strings.Repeat(" ", width-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from every line.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
