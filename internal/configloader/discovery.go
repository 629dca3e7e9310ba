package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// ConfigPaths holds the config files found for each layer. A layer with no
// file has an empty path.
type ConfigPaths struct {
	System   string // /etc/mdcore/config.yaml
	User     string // $XDG_CONFIG_HOME/mdcore/config.yaml
	Project  string // nearest .mdcore.yml above the working directory
	Explicit string // --config
}

const appName = "mdcore"

// Candidate names, most preferred first.
//
//nolint:gochecknoglobals // read-only lookup tables
var (
	projectConfigNames = []string{".mdcore.yml", ".mdcore.yaml", "mdcore.yml", "mdcore.yaml"}
	layerConfigNames   = []string{"config.yaml", "config.yml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// locator searches a filesystem for config files.
type locator struct {
	fs     afero.Fs
	getenv func(string) string
	home   string
}

func newLocator(fsys afero.Fs, getenv func(string) string) locator {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return locator{fs: fsys, getenv: getenv, home: home}
}

// DiscoverPaths finds the system, user and project config files for
// workDir on fsys. A nil fsys means the OS filesystem; a nil getenv means
// os.Getenv.
func DiscoverPaths(ctx context.Context, fsys afero.Fs, workDir string, getenv func(string) string) (*ConfigPaths, error) {
	loc := newLocator(fsys, getenv)

	project, err := loc.project(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  loc.firstFile(loc.systemDir(), layerConfigNames),
		User:    loc.firstFile(loc.userDir(), layerConfigNames),
		Project: project,
	}, nil
}

// FindProjectConfig walks up from startDir on fsys and returns the first
// project config file, or "" when none is found before a VCS root, the home
// directory or the filesystem root.
func FindProjectConfig(ctx context.Context, fsys afero.Fs, startDir string) (string, error) {
	return newLocator(fsys, nil).project(ctx, startDir)
}

func (l locator) systemDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	programData := l.getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, appName)
}

func (l locator) userDir() string {
	if dir := l.getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if l.home == "" {
		return ""
	}
	return filepath.Join(l.home, ".config", appName)
}

func (l locator) project(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}

		if path := l.firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if l.isVCSRoot(dir) || dir == l.home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func (l locator) firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	path, _ := lo.Find(lo.Map(names, func(name string, _ int) string {
		return filepath.Join(dir, name)
	}), func(path string) bool {
		info, err := l.fs.Stat(path)
		return err == nil && info.Mode().IsRegular()
	})
	return path
}

func (l locator) isVCSRoot(dir string) bool {
	return lo.SomeBy(vcsRootMarkers, func(marker string) bool {
		ok, err := afero.DirExists(l.fs, filepath.Join(dir, marker))
		return err == nil && ok
	})
}
