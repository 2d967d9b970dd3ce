package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file read when it exists.
const DefaultConfigPath = "~/.siteindex/config.yaml"

// YAMLConfig is a kong.ConfigurationLoader for flat YAML files keyed by
// flag name, e.g.:
//
//	base-url: https://example.com
//	store: sqlite
//	rps: 2
//
// Underscores may stand in for dashes. A flag whose environment variable is
// set is left alone, so the environment wins over the file.
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			v, ok := values[key]
			if !ok || v == nil {
				continue
			}
			return fmt.Sprint(v), nil
		}
		return nil, nil
	}), nil
}
