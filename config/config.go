// Package config reads user defaults for run options from a TOML file and
// feeds them to kong as a configuration resolver.
//
//	no-git = true
//	plain = false
//	verbose = false
//	pin-versions = true
//	registry = "https://registry.npmmirror.com"
//	lookup-timeout = "3s"
//
// Framework, language and tool selection can only come from the command
// line or the prompts.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
)

var (
	// Keys lists the flags a config file may set.
	Keys = []string{"no-git", "plain", "verbose", "pin-versions", "registry", "lookup-timeout"}

	ErrKey = errors.New("unsupported config key")
)

// Paths lists the candidate config files, most specific first. kong skips
// the ones that do not exist.
func Paths() []string {
	var paths []string

	if p := os.Getenv("INIKIT_CONFIG"); p != "" {
		paths = append(paths, p)
	}

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, "inikit", "config.toml"))
	}

	return append(paths, "~/.config/inikit/config.toml")
}

// Loader is a [kong.ConfigurationLoader].
//
// Non-nil returned error wraps [ErrKey] when the file sets anything but a
// run option.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := make(map[string]any)

	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var bad []string

	for k := range values {
		if !slices.Contains(Keys, k) {
			bad = append(bad, k)
		}
	}

	if len(bad) > 0 {
		sort.Strings(bad)

		return nil, fmt.Errorf("%w %q: only %v may be set", ErrKey, bad, Keys)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := values[flag.Name]
		if !ok {
			return nil, nil
		}

		return v, nil
	}), nil
}
