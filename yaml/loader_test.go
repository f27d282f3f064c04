package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	hnyaml "github.com/fwojciec/hndigest/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKebab(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"locale", "locale"},
		{"maxChars", "max-chars"},
		{"baseURL", "base-url"},
		{"HTTPTimeout", "http-timeout"},
		{"api_key", "api-key"},
		{"already-kebab", "already-kebab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, hnyaml.Kebab(tt.in))
		})
	}
}

type testCLI struct {
	Locale     string        `default:"zh"`
	LLMBaseURL string        `name:"llm-base-url"`
	LLMModel   string        `name:"llm-model" default:"deepseek-chat"`
	Delay      time.Duration `default:"2s"`
	Limit      int           `default:"500"`
	Verbose    bool
	Feeds      []string
}

func parse(t *testing.T, config string, args ...string) *testCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0644))

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(hnyaml.Loader, path), kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("resolves nested and scalar keys", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, `
locale: en
limit: 42
verbose: true
delay: 500ms
llm:
  baseURL: http://localhost:11434/v1
feeds:
  - https://hnrss.org/frontpage
  - https://hnrss.org/best
`)

		assert.Equal(t, "en", cli.Locale)
		assert.Equal(t, 42, cli.Limit)
		assert.True(t, cli.Verbose)
		assert.Equal(t, 500*time.Millisecond, cli.Delay)
		assert.Equal(t, "http://localhost:11434/v1", cli.LLMBaseURL)
		assert.Equal(t, "deepseek-chat", cli.LLMModel)
		assert.Equal(t, []string{"https://hnrss.org/frontpage", "https://hnrss.org/best"}, cli.Feeds)
	})

	t.Run("flags override the file", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "limit: 42\n", "--limit=7")

		assert.Equal(t, 7, cli.Limit)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cli := parse(t, "")

		assert.Equal(t, 500, cli.Limit)
		assert.Equal(t, "zh", cli.Locale)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		t.Parallel()

		var cli testCLI
		parser, err := kong.New(&cli, kong.Configuration(hnyaml.Loader, filepath.Join(t.TempDir(), "absent.yaml")))
		require.NoError(t, err)
		_, err = parser.Parse(nil)

		require.NoError(t, err)
		assert.Equal(t, 500, cli.Limit)
	})
}

func TestLoader_RejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := hnyaml.Loader(strings.NewReader("a: [unclosed"))

	assert.Error(t, err)
}

