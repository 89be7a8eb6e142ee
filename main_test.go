package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/dragonwatch/dragonwatch/app"

	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd(io.Discard)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Contains(t, out.String(), app.Name+" "+app.Version.String())
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd(io.Discard)
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"restart"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestFindConfigfile(t *testing.T) {
	require.Equal(t, "/etc/dragonwatch.yaml", findConfigfile("/etc/dragonwatch.yaml"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("DRAGONWATCH_CONFIGFILE", path)

	require.Equal(t, path, findConfigfile(""))
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	err := runWatch(context.Background(), filepath.Join(dir, "missing", "config.yaml"), io.Discard, "once")
	require.Error(t, err)

	var exitErr *exitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.code)
}
