package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/continuation"
	"github.com/yaklabco/mdcore/pkg/fsutil"
	"github.com/yaklabco/mdcore/pkg/textedit"
)

type continueFlags struct {
	shared   sharedFlags
	caret    int
	format   string
	disabled bool
	write    bool
	backup   bool
	restore  bool
}

var (
	errWriteNeedsFile = errors.New("--write and --restore require a file argument")
	errNoBackup       = errors.New("no backup found")
)

// actionJSON is the JSON form of a continuation action. Handled is false
// when the host should insert a plain line break.
type actionJSON struct {
	Handled bool       `json:"handled"`
	Kind    string     `json:"kind,omitempty"`
	Prefix  string     `json:"prefix"`
	Caret   int        `json:"caret"`
	Edits   []editJSON `json:"edits"`
	Text    string     `json:"text"`
}

type editJSON struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

func newContinueCommand() *cobra.Command {
	flags := &continueFlags{}

	cmd := &cobra.Command{
		Use:   "continue [file]",
		Short: "Simulate pressing Enter inside a Markdown document",
		Long: `Compute the edits an editor makes when Enter is pressed at a caret
position: continuing a list, task list, quote or footer with the right
marker, or erasing an empty marker to end the block.

The caret is a byte offset; a negative caret means the end of the text.
Reads stdin when no file (or "-") is given.

Examples:
  printf -- '- item' | mdcore continue
  printf -- '1. one\n2. ' | mdcore continue --format json
  mdcore continue --caret 42 notes.md
  mdcore continue --caret 42 --write --backup notes.md
  mdcore continue --restore notes.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContinue(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.shared.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&flags.caret, "caret", -1, "caret byte offset (negative = end of text)")
	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")
	cmd.Flags().BoolVar(&flags.disabled, "no-continuation", false, "disable continuation and insert a plain line break")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a "+fsutil.BackupSuffix+" copy of the file before writing")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "put the "+fsutil.BackupSuffix+" copy back and exit")
	cmd.MarkFlagsMutuallyExclusive("restore", "write")

	return cmd
}

func runContinue(cmd *cobra.Command, args []string, flags *continueFlags) error {
	if err := checkFormat(flags.format, formatText, formatJSON); err != nil {
		return err
	}
	if flags.restore {
		return restoreBackup(cmd, args)
	}

	overrides := flags.shared.overrides(cmd)
	if flags.disabled {
		enabled := false
		overrides.ContinuationEnabled = &enabled
	}

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()

	var (
		content []byte
		info    *fsutil.Snapshot
	)
	if flags.write {
		if len(args) == 0 || args[0] == stdinPath {
			return usageError(errWriteNeedsFile)
		}
		content, info, err = fsutil.Read(commandContext(cmd), fsys, args[0])
	} else {
		_, content, err = readDocument(cmd, fsys, args)
	}
	if err != nil {
		return err
	}

	caret := flags.caret
	if caret < 0 || caret > len(content) {
		caret = len(content)
	}

	sess := newSession(cfg, fsys, nil)
	defer sess.Close()

	action, handled := sess.OnEnter(commandContext(cmd), content, caret)
	if !handled {
		action = plainBreak(caret)
	}

	logging.Default().Debug("enter handled",
		logging.FieldEnabled, handled,
		logging.FieldAction, action.Kind,
		logging.FieldCaret, action.Caret,
	)

	text, err := textedit.ApplySequential(content, action.Edits)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}

	if flags.write {
		if err := writeBack(cmd, fsys, info, text, flags.backup); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		result := actionJSON{
			Handled: handled,
			Prefix:  action.Prefix,
			Caret:   action.Caret,
			Edits:   make([]editJSON, 0, len(action.Edits)),
			Text:    string(text),
		}
		if handled {
			result.Kind = action.Kind.String()
		}
		for _, e := range action.Edits {
			result.Edits = append(result.Edits, editJSON{Start: e.StartOffset, End: e.EndOffset, NewText: e.NewText})
		}
		return writeJSON(out, result)
	}

	if flags.write {
		return nil
	}
	if _, err := out.Write(text); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// writeBack replaces the file described by info with text, refusing when
// the file changed while the edits were computed.
func writeBack(cmd *cobra.Command, fsys afero.Fs, info *fsutil.Snapshot, text []byte, backup bool) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	if backup {
		created, err := fsutil.Backup(ctx, fsys, info.Path)
		if err != nil {
			return err
		}
		if created {
			logger.Debug("created backup", logging.FieldPath, fsutil.BackupPath(info.Path))
		}
	}

	if err := fsutil.Replace(ctx, fsys, info, text); err != nil {
		return err
	}

	logger.Debug("wrote file", logging.FieldPath, info.Path)
	return nil
}

// restoreBackup puts a file's sidecar backup back in place.
func restoreBackup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == stdinPath {
		return usageError(errWriteNeedsFile)
	}

	restored, err := fsutil.Restore(commandContext(cmd), afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}
	if !restored {
		return fmt.Errorf("%w: %s", errNoBackup, fsutil.BackupPath(args[0]))
	}

	logging.Default().Info("restored backup", logging.FieldPath, args[0])
	return nil
}

// plainBreak is the action of an unhandled Enter: a bare line break.
func plainBreak(caret int) continuation.Action {
	return continuation.Action{
		Kind:  continuation.ActionContinue,
		Edits: []textedit.TextEdit{{StartOffset: caret, EndOffset: caret, NewText: "\n"}},
		Caret: caret + 1,
	}
}
