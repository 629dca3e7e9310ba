package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/internal/metrics"
	"github.com/yaklabco/mdcore/internal/watch"
	"github.com/yaklabco/mdcore/pkg/cache"
	"github.com/yaklabco/mdcore/pkg/reporter"
	"github.com/yaklabco/mdcore/pkg/runner"
	"github.com/yaklabco/mdcore/pkg/session"
)

// metricsShutdownTimeout bounds the metrics server shutdown.
const metricsShutdownTimeout = 5 * time.Second

type watchFlags struct {
	shared      sharedFlags
	metricsAddr string
	debounce    time.Duration
	noContext   bool
}

func newWatchCommand(info BuildInfo) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check links whenever Markdown files change",
		Long: `Check links once, then watch the given paths and re-check every file that
changes. Unchanged files are served from the parse cache.

Examples:
  mdcore watch docs/
  mdcore watch --metrics-addr :9090     # Serve Prometheus metrics on /metrics`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags, info)
		},
	}

	addSharedFlags(cmd, &flags.shared)
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags, info BuildInfo) error {
	logger := logging.Default()

	cfg, err := loadConfig(cmd, flags.shared.overrides(cmd))
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if flags.metricsAddr != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	fsys := afero.NewOsFs()
	sess := newSession(cfg, fsys, recorder)
	defer sess.Close()

	unsubscribe := sess.Subscribe(logParsed(sess))
	defer unsubscribe()

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.FormatText,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		WorkingDir:  workDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	run := runner.New(sess, fsys)
	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Workers(),
		SkipLinks:    !cfg.Links.Enabled,
	}

	check := func(opts runner.Options) {
		result, err := run.Run(ctx, opts)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("check failed", logging.FieldError, err)
			}
			return
		}
		if _, err := rep.Report(ctx, result); err != nil {
			logger.Error("report failed", logging.FieldError, err)
		}
	}

	check(runOpts)

	roots := args
	if len(roots) == 0 {
		roots = []string{workDir}
	}

	group, ctx := errgroup.WithContext(ctx)

	if registry != nil {
		server := &http.Server{
			Addr:              flags.metricsAddr,
			Handler:           metricsMux(registry),
			ReadHeaderTimeout: metricsShutdownTimeout,
		}
		group.Go(func() error {
			logger.Info("serving metrics", logging.FieldAddr, flags.metricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		logger.Info("watching for changes", logging.FieldPaths, roots)
		return watch.Run(ctx, watch.Options{
			Roots:      roots,
			Extensions: runOpts.Extensions,
			Debounce:   flags.debounce,
			Logger:     logger,
		}, func(batch watch.Batch) {
			for _, path := range batch.Removed {
				run.Forget(path)
			}
			changed := lo.Filter(batch.Changed, func(path string, _ int) bool {
				ok, _ := afero.Exists(fsys, path)
				return ok
			})
			if len(changed) == 0 {
				return
			}
			opts := runOpts
			opts.Paths = changed
			check(opts)
		})
	})

	return group.Wait()
}

// logParsed returns a bus observer that logs fresh parses of the newest
// snapshot of each buffer.
func logParsed(sess *session.Session) cache.Observer {
	logger := logging.Default()
	return func(ev cache.ParsedEvent) {
		if !sess.IsLatest(ev.Snapshot) {
			return
		}
		logger.Debug("parsed",
			logging.FieldPath, ev.Path,
			logging.FieldBuffer, ev.Snapshot.Buffer,
			logging.FieldVersion, ev.Snapshot.Version,
		)
	}
}

func metricsMux(registry *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	return mux
}
