package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/configloader"
	"github.com/yaklabco/mdcore/internal/logging"
	"github.com/yaklabco/mdcore/pkg/config"
	"github.com/yaklabco/mdcore/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// defaultConfigFile is the project configuration file written by init.
const defaultConfigFile = ".mdcore.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force    bool
	full     bool
	resolved bool
	output   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mdcore configuration file",
		Long: `Create a new .mdcore.yml configuration file in the current directory
with sensible defaults.

Examples:
  mdcore init                     Create a minimal .mdcore.yml
  mdcore init --full              Document every key with its default
  mdcore init --resolved          Write the effective configuration
  mdcore init --output custom.yml Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, afero.NewOsFs())
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate a full template with every key documented")
	cmd.Flags().BoolVar(&flags.resolved, "resolved", false,
		"Write the configuration resolved from files and environment")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	cmd.MarkFlagsMutuallyExclusive("full", "resolved")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, fsys afero.Fs) error {
	logger := logging.NewInteractive()
	ctx := commandContext(cmd)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	exists, err := afero.Exists(fsys, absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", flags.output, err)
	}
	if exists {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	if flags.resolved {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := configloader.WriteConfig(ctx, fsys, cfg, absPath); err != nil {
			return err
		}
	} else {
		content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
		if err != nil {
			return fmt.Errorf("generate template: %w", err)
		}
		if err := fsutil.WriteAtomic(ctx, fsys, absPath, content, configFilePermissions); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'mdcore validate' to check the links in this directory")

	return nil
}
