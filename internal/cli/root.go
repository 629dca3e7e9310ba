// Package cli wires the mdcore engine into cobra commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/logging"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand builds the mdcore command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "mdcore",
		Short: "Markdown document engine for editors and link checking",
		Long: `mdcore is the document engine behind a Markdown editor: it parses
documents into a syntax tree, caches parses per buffer version, extracts
headings and the document outline, validates relative links and computes
list, quote and footer continuation when Enter is pressed.

The commands expose the engine from the shell so it can be scripted,
run in CI or wired into other editors.`,
		Args:              unknownCommand,
		RunE:              func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		PersistentPreRunE: applyLogLevel,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.Bool("debug", false, "enable debug logging (same as --log-level debug)")
	flags.String("log-level", "", "log level: "+strings.Join(logging.LevelNames, ", ")+" (default from config)")
	flags.String("config", "", "path to config file")
	flags.String("color", "auto", "colorize output: auto, always, never")

	root.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Document Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	addGroup(root, groupDocuments,
		newValidateCommand(info),
		newHeadingsCommand(),
		newOutlineCommand(),
		newContinueCommand(),
		newWatchCommand(info),
	)
	addGroup(root, groupSetup,
		newInitCommand(),
		newVersionCommand(info),
	)

	NewHelpFormatter(flagValue(root, "color"), os.Stdout).ApplyToCommand(root)

	return root
}

func addGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		cmd.Args = usageArgs(cmd.Args)
		root.AddCommand(cmd)
	}
}

// unknownCommand rejects positional arguments on the root command.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += "; did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return usageError(errors.New(msg))
}

// usageArgs reports argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	if validate == nil {
		return nil
	}
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// applyLogLevel sets the default logger level from --debug or --log-level.
// Without either, loadConfig applies the configured level later.
func applyLogLevel(cmd *cobra.Command, _ []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetLevel("debug")
		return nil
	}

	name := flagValue(cmd, "log-level")
	if name == "" {
		return nil
	}
	if _, ok := logging.ParseLevel(name); !ok {
		return usageError(fmt.Errorf("unknown log level %q; valid levels: %s", name, strings.Join(logging.LevelNames, ", ")))
	}
	logging.SetLevel(name)
	return nil
}

// levelFromFlags reports whether --debug or --log-level chose the level.
func levelFromFlags(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug || flagValue(cmd, "log-level") != ""
}

func flagValue(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}
