package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdcore/internal/configloader"
	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/internal/metrics"
	"github.com/yaklabco/mdcore/pkg/config"
	goldmarkparser "github.com/yaklabco/mdcore/pkg/parser/goldmark"
	"github.com/yaklabco/mdcore/pkg/session"
)

// stdinPath is the path argument that reads the document from stdin.
const stdinPath = "-"

// ErrIssuesFound is returned when validation finds broken links.
var ErrIssuesFound = errors.New("issues found")

// errStdinTerminal is returned when a command would read a document from
// an interactive terminal.
var errStdinTerminal = errors.New("no input: pass a file or pipe a document on stdin")

// sharedFlags are the configuration flags accepted by every document command.
type sharedFlags struct {
	flavor string
	jobs   int
	ignore []string
	exts   []string
}

func addSharedFlags(cmd *cobra.Command, flags *sharedFlags) {
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.exts, "ext", nil, "extra extensions tried for extensionless links")
}

// overrides builds configuration overrides from the flags that were set
// on the command line.
func (f *sharedFlags) overrides(cmd *cobra.Command) *configloader.Overrides {
	o := &configloader.Overrides{
		Ignore:             f.ignore,
		MarkdownExtensions: f.exts,
	}
	if cmd.Flags().Changed("flavor") {
		flavor := config.Flavor(f.flavor)
		o.Flavor = &flavor
	}
	if cmd.Flags().Changed("jobs") {
		o.Jobs = &f.jobs
	}
	return o
}

// loadConfig resolves the configuration for cmd, layering overrides on
// top of the discovered files and environment.
func loadConfig(cmd *cobra.Command, overrides ...*configloader.Overrides) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Overrides:    configloader.MergeAll(overrides...),
	})
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: errors.Join(errors.New("failed to load configuration"), err)}
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if !levelFromFlags(cmd) {
		logging.SetLevel(cfg.LogLevel)
	}

	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldJobs, cfg.Workers(),
		logging.FieldCapacity, cfg.Cache.Capacity,
	)

	return cfg, nil
}

// newSession composes a session from the resolved configuration.
func newSession(cfg *config.Config, fsys afero.Fs, recorder metrics.Recorder) *session.Session {
	return session.New(goldmarkparser.New(string(cfg.Flavor)), session.Options{
		Workers:              cfg.Workers(),
		CacheCapacity:        cfg.Cache.Capacity,
		Fs:                   fsys,
		Extensions:           cfg.Links.MarkdownExtensions,
		ContinuationDisabled: !cfg.Continuation.Enabled,
		Recorder:             recorder,
		Logger:               logging.Default(),
	})
}

// readDocument reads the document named by args, or stdin when args is
// empty or "-". Reading from an interactive terminal is refused.
func readDocument(cmd *cobra.Command, fsys afero.Fs, args []string) (string, []byte, error) {
	if len(args) > 0 && args[0] != stdinPath {
		content, err := afero.ReadFile(fsys, args[0])
		if err != nil {
			return "", nil, &ExitError{Code: ExitIOError, Err: fmt.Errorf("read %s: %w", args[0], err)}
		}
		return args[0], content, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil, usageError(errStdinTerminal)
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return "", nil, &ExitError{Code: ExitIOError, Err: fmt.Errorf("read stdin: %w", err)}
	}
	return "", content, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// colorMode returns the --color flag value.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
