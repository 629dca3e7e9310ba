// Command mdcore is the shell front end of the mdcore Markdown engine.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/yaklabco/mdcore/internal/cli"
	"github.com/yaklabco/mdcore/internal/logging"
)

// Stamped by the release build through -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	// Broken links are already in the report; only the exit code is left.
	if !errors.Is(err, cli.ErrIssuesFound) {
		logging.Default().Error("mdcore failed", logging.FieldError, err)
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return cli.ExitInternalError
}
