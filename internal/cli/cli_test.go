package cli_test

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdcore/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "mdcore", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"validate", "headings", "outline", "continue", "watch", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if !assert.NoError(t, err, "subcommand %q", name) {
			continue
		}
		assert.Equal(t, name, subCmd.Name())
		assert.NotEmpty(t, subCmd.GroupID, "subcommand %q has a help group", name)
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{command: "validate", flags: []string{"flavor", "jobs", "ignore", "ext", "format", "lenient", "no-context", "compact", "include"}},
		{command: "headings", flags: []string{"flavor", "format"}},
		{command: "outline", flags: []string{"flavor", "format", "tooltip-limit", "detect-language"}},
		{command: "continue", flags: []string{"flavor", "caret", "format", "no-continuation", "write", "backup", "restore"}},
		{command: "watch", flags: []string{"flavor", "jobs", "metrics-addr", "debounce", "no-context"}},
		{command: "init", flags: []string{"force", "full", "resolved", "output"}},
		{command: "version", flags: []string{"format"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			subCmd, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)

			for _, name := range tt.flags {
				assert.NotNil(t, subCmd.Flags().Lookup(name), "expected flag --%s on %s", name, tt.command)
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "log-level", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "expected global flag --%s", name)
	}
}

func TestLogLevelFlag_Unknown(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"version", "--log-level", "loud"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cli.ExitInvalidUsage, exitErr.Code)
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown command", []string{"never"}, `unknown command "never"`},
		{"misspelled command", []string{"validat"}, "did you mean validate?"},
		{"unknown flag", []string{"version", "--nope"}, "unknown flag"},
		{"too many args", []string{"headings", "a.md", "b.md"}, "accepts at most 1 arg"},
		{"args to init", []string{"init", "extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, cli.ExitInvalidUsage, exitErr.Code)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--color=never"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Document Commands:")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2026-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
	assert.Contains(t, out.String(), runtime.GOOS+"/"+runtime.GOARCH)

	out.Reset()
	cmd.SetArgs([]string{"version", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var v struct {
		Version string `json:"version"`
		Date    string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, "2026-01-01", v.Date)
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"--color=never", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Document Commands:")
	assert.Contains(t, help, "Setup Commands:")
	assert.Contains(t, help, "validate")
	assert.Contains(t, help, "--config string")
	assert.Contains(t, help, "(default auto)")
}

func TestValidateAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	assert.NoError(t, validateCmd.Args(validateCmd, []string{"file1.md", "file2.md", "docs/"}))
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	exitErr := &cli.ExitError{Code: cli.ExitBrokenLinks, Err: cli.ErrIssuesFound}
	assert.ErrorIs(t, exitErr, cli.ErrIssuesFound)
	assert.Equal(t, cli.ErrIssuesFound.Error(), exitErr.Error())
}
