package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/logging"
)

type versionJSON struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	Target  string `json:"target"`
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the mdcore version, the commit and date it was built from and
the Go toolchain and target platform. Development builds installed with
"go install" report the module version instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, formatText, formatJSON); err != nil {
				return err
			}

			v := versionJSON{
				Version: info.Version,
				Commit:  info.Commit,
				Date:    info.Date,
				Go:      runtime.Version(),
				Target:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if bi, ok := debug.ReadBuildInfo(); ok && v.Version == "dev" && bi.Main.Version != "(devel)" && bi.Main.Version != "" {
				v.Version = bi.Main.Version
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{})
			logger.Info("mdcore",
				logging.FieldVersion, v.Version,
				logging.FieldCommit, v.Commit,
				logging.FieldBuilt, v.Date,
				"go", v.Go,
				"target", v.Target,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}
