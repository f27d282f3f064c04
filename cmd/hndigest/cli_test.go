package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/hndigest/cmd/hndigest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"read", "paper", "summarize", "top", "batch", "favorites"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range commands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := &main.Main{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	for _, cmd := range commands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgsIsAnError(t *testing.T) {
	t.Parallel()

	m := &main.Main{}
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "favorites")
}

func TestMain_Run_RejectsUnknownLocale(t *testing.T) {
	t.Parallel()

	m := &main.Main{}

	err := m.Run(context.Background(),
		[]string{"--locale=fr", "favorites", "list"},
		&bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported locale")
}

func TestMain_Run_SummarizeRequiresAPIKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	m := &main.Main{}

	err := m.Run(context.Background(),
		[]string{"--data-dir", t.TempDir(), "summarize", "https://example.com"},
		&bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
}

func TestMain_Run_Favorites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	run := func(args ...string) (string, error) {
		m := &main.Main{}
		stdout := &bytes.Buffer{}
		args = append([]string{"--data-dir", dir, "--store-backend", "fs"}, args...)
		err := m.Run(context.Background(), args, stdout, &bytes.Buffer{})
		return stdout.String(), err
	}

	out, err := run("favorites", "add-article", "https://example.com/a", "--title", "A", "--id", "42")
	require.NoError(t, err)
	assert.Contains(t, out, `Added article "https://example.com/a"`)

	out, err = run("favorites", "add-article", "https://example.com/a", "--id", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "already a favorite")

	out, err = run("favorites", "add-paper", "https://arxiv.org/abs/2401.00001", "--title", "A Paper")
	require.NoError(t, err)
	assert.Contains(t, out, "Added paper")

	out, err = run("favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Articles (1):")
	assert.Contains(t, out, "42  A  https://example.com/a")
	assert.Contains(t, out, "Papers (1):")
	assert.Contains(t, out, "https://arxiv.org/abs/2401.00001  A Paper")

	_, err = os.Stat(filepath.Join(dir, "favorites-articles.json"))
	require.NoError(t, err)

	out, err = run("favorites", "remove-article", "42")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed article "42"`)

	out, err = run("favorites", "remove-article", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "is not a favorite")
}

func TestMain_Run_ReadsConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("data-dir: "+dir+"\nstore:\n  backend: sqlite\n"), 0644))

	m := &main.Main{ConfigPaths: []string{config}}
	err := m.Run(context.Background(),
		[]string{"favorites", "add-paper", "https://arxiv.org/abs/2401.00002", "--title", "Stored"},
		&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "hndigest.db"))
	assert.NoError(t, err)
}
