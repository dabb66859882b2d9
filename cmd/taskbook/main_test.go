package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/taskbook/internal/config"
	"github.com/thywilljoshua/taskbook/internal/convert"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProfileInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	_, err := run(t, "profile", "init", path)
	require.NoError(t, err)

	p, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, convert.DefaultProfile(), p)
}

func TestParseRejectsUnknownSource(t *testing.T) {
	_, err := run(t, "parse", filepath.Join(t.TempDir(), "book.txt"))
	require.Error(t, err)
}

func TestParseNeedsSource(t *testing.T) {
	_, err := run(t, "parse")
	require.Error(t, err)
}

func TestBadConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "profile", "init", "x.yaml")
	require.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"problems": 2}))
	assert.Equal(t, "{\n  \"problems\": 2\n}\n", buf.String())
}
