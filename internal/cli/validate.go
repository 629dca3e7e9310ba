package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/reporter"
	"github.com/yaklabco/mdcore/pkg/runner"
)

type validateFlags struct {
	shared    sharedFlags
	format    string
	lenient   bool
	noContext bool
	compact   bool
	include   []string
}

func newValidateCommand(info BuildInfo) *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check relative links in Markdown files",
		Long:  validateLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, flags, info)
		},
	}

	addSharedFlags(cmd, &flags.shared)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, summary")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "exit 0 when only broken links are found")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only check files matching these glob patterns")

	return cmd
}

const validateLongDescription = `Check that relative links and images in Markdown files point at files
that exist.

By default, checks all .md and .markdown files in the current directory
and subdirectories. Specify paths to check specific files or directories.

Examples:
  mdcore validate                     # Check current directory
  mdcore validate docs/               # Check docs directory
  mdcore validate README.md           # Check a single file
  mdcore validate --format sarif      # Output SARIF for code scanning
  mdcore validate --ext .mdx          # Also try .mdx for extensionless links`

func runValidate(cmd *cobra.Command, args []string, flags *validateFlags, info BuildInfo) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return usageError(fmt.Errorf("invalid format: %w", err))
	}

	cfg, err := loadConfig(cmd, flags.shared.overrides(cmd))
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	fsys := afero.NewOsFs()
	sess := newSession(cfg, fsys, nil)
	defer sess.Close()

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		IncludeGlobs: flags.include,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Workers(),
		SkipLinks:    !cfg.Links.Enabled,
	}

	logger.Debug("starting validation run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(sess, fsys).Run(logging.WithLogger(ctx, logger), runOpts)
	if err != nil {
		return errors.Join(errors.New("validation run failed"), err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if code := ExitCodeFromResult(result, flags.lenient); code != ExitSuccess {
		return &ExitError{Code: code, Err: ErrIssuesFound}
	}

	return nil
}
