package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	Dir           string        `arg:"" optional:""`
	NoGit         bool          `name:"no-git"`
	Plain         bool          `name:"plain"`
	Registry      string        `name:"registry" default:"https://registry.npmjs.org"`
	LookupTimeout time.Duration `name:"lookup-timeout" default:"2s"`
	NextJS        bool          `name:"nextjs"`
}

func parse(t *testing.T, conf string, args ...string) (*cli, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0600))

	var c cli

	parser, err := kong.New(&c, kong.Configuration(Loader, path), kong.Exit(func(int) {}))
	if err != nil {
		return nil, err
	}

	_, err = parser.Parse(args)

	return &c, err
}

func TestConfigSetsDefaults(t *testing.T) {
	c, err := parse(t, "no-git = true\nregistry = \"http://localhost:4873\"\nlookup-timeout = \"5s\"\n", "app")
	require.NoError(t, err)

	assert.True(t, c.NoGit)
	assert.False(t, c.Plain)
	assert.Equal(t, "http://localhost:4873", c.Registry)
	assert.Equal(t, 5*time.Second, c.LookupTimeout)
}

func TestFlagsBeatConfig(t *testing.T) {
	c, err := parse(t, "registry = \"http://localhost:4873\"\n", "app", "--registry", "http://mirror")
	require.NoError(t, err)

	assert.Equal(t, "http://mirror", c.Registry)
}

func TestConfigRejectsSelection(t *testing.T) {
	_, err := Loader(strings.NewReader("nextjs = true\ntools = [\"zod\"]\n"))
	require.ErrorIs(t, err, ErrKey)

	assert.Contains(t, err.Error(), `["nextjs" "tools"]`)

	_, err = parse(t, "nextjs = true\nno-git = true\n", "app")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "unsupported config key")
	assert.Contains(t, err.Error(), `["nextjs"]`)
}

func TestConfigRejectsBadTOML(t *testing.T) {
	_, err := Loader(strings.NewReader("no-git = = true"))
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	t.Setenv("INIKIT_CONFIG", "/etc/inikit.toml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, []string{
		"/etc/inikit.toml",
		filepath.Join("/xdg", "inikit", "config.toml"),
		"~/.config/inikit/config.toml",
	}, Paths())
}
