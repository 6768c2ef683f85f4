// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package testenv implements the test-environment matrix: a YAML
// config declaring a list of environments, per-environment settings
// layered over shared defaults, and a sequential runner.
package testenv

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"
)

// Config is the top-level environment-matrix configuration.
type Config struct {
	// Envlist is the ordered list of environments to run by default.
	Envlist []string `json:"envlist,omitempty"`

	// SkipMissingInterpreters makes a missing interpreter skip the
	// environment instead of failing it.
	SkipMissingInterpreters bool `json:"skip_missing_interpreters,omitempty"`

	// Defaults holds the settings shared by every environment.
	Defaults EnvConfig `json:"testenv,omitempty"`

	// Environments holds per-environment overrides, layered over
	// Defaults.
	Environments map[string]EnvConfig `json:"environments,omitempty"`
}

// EnvConfig is the configuration of a single test environment.
type EnvConfig struct {
	// Basepython names the interpreter executable; empty means derive
	// it from the environment name.
	Basepython string `json:"basepython,omitempty"`

	// Setenv is extra environment variables for the commands.
	Setenv map[string]string `json:"setenv,omitempty"`

	// Passenv names host environment variables to pass through.
	Passenv []string `json:"passenv,omitempty"`

	// Deps is the dependencies to install before running, usually
	// requirement-file references.
	Deps []string `json:"deps,omitempty"`

	// Commands is the command lines to run.
	Commands []string `json:"commands,omitempty"`

	// Cover configures the coverage gate, for coverage environments.
	Cover *CoverConfig `json:"cover,omitempty"`
}

// CoverConfig configures a coverage run and its report gate.
type CoverConfig struct {
	// Package is the package to measure.
	Package string `json:"package,omitempty"`

	// Branch enables branch coverage.
	Branch bool `json:"branch,omitempty"`

	// HTMLDir is the directory of the HTML report, relative to the
	// environment work dir unless absolute.
	HTMLDir string `json:"html_dir,omitempty"`

	// FailUnder is the minimum acceptable coverage, as a bare number
	// or a "95%" style string.
	FailUnder intstr.IntOrString `json:"fail_under,omitempty"`
}

// UnknownEnvError is returned when an environment name has neither an
// override section nor an envlist entry.
type UnknownEnvError struct {
	Name string
}

func (e *UnknownEnvError) Error() string {
	return fmt.Sprintf("environment not found: %q", e.Name)
}

// Parse parses configuration bytes.  Parsing is pure; parsing the
// same bytes twice yields equal configurations.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("testenv: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("testenv: parse config: %w", err)
	}
	return &cfg, nil
}

// Load reads and parses a configuration file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Envlist))
	for _, name := range c.Envlist {
		if name == "" {
			return fmt.Errorf("envlist: empty environment name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("envlist: duplicate environment %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// EnvNames returns every defined environment name: the envlist, then
// any override-only environments, sorted, without duplicates.
func (c *Config) EnvNames() []string {
	names := make([]string, 0, len(c.Envlist)+len(c.Environments))
	names = append(names, c.Envlist...)

	inList := make(map[string]struct{}, len(c.Envlist))
	for _, name := range c.Envlist {
		inList[name] = struct{}{}
	}

	var extras []string
	for name := range c.Environments {
		if _, ok := inList[name]; !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

var pyEnvName = regexp.MustCompile(`^py([0-9])([0-9]+)$`)

// defaultBasepython derives an interpreter name from an environment
// name: "py36" means "python3.6", anything else means "python3".
func defaultBasepython(envname string) string {
	if m := pyEnvName.FindStringSubmatch(envname); m != nil {
		return "python" + m[1] + "." + m[2]
	}
	return "python3"
}

// Resolve returns the effective configuration of the named
// environment: the defaults with the environment's override section
// (if any) layered on top.  Names with neither an override section nor
// an envlist entry yield an UnknownEnvError.
func (c *Config) Resolve(name string) (*EnvConfig, error) {
	override, hasOverride := c.Environments[name]
	if !hasOverride {
		found := false
		for _, listed := range c.Envlist {
			if listed == name {
				found = true
				break
			}
		}
		if !found {
			return nil, &UnknownEnvError{Name: name}
		}
	}

	env := c.Defaults.clone()
	if hasOverride {
		env.overlay(&override)
	}
	if env.Basepython == "" {
		env.Basepython = defaultBasepython(name)
	}
	return env, nil
}

func (e *EnvConfig) clone() *EnvConfig {
	out := &EnvConfig{
		Basepython: e.Basepython,
		Passenv:    append([]string(nil), e.Passenv...),
		Deps:       append([]string(nil), e.Deps...),
		Commands:   append([]string(nil), e.Commands...),
	}
	if e.Setenv != nil {
		out.Setenv = make(map[string]string, len(e.Setenv))
		for k, v := range e.Setenv {
			out.Setenv[k] = v
		}
	}
	if e.Cover != nil {
		cover := *e.Cover
		out.Cover = &cover
	}
	return out
}

// overlay layers an override section over e.  List and scalar settings
// replace the defaults; setenv entries merge, the override winning.
func (e *EnvConfig) overlay(o *EnvConfig) {
	if o.Basepython != "" {
		e.Basepython = o.Basepython
	}
	for k, v := range o.Setenv {
		if e.Setenv == nil {
			e.Setenv = make(map[string]string, len(o.Setenv))
		}
		e.Setenv[k] = v
	}
	if o.Passenv != nil {
		e.Passenv = append([]string(nil), o.Passenv...)
	}
	if o.Deps != nil {
		e.Deps = append([]string(nil), o.Deps...)
	}
	if o.Commands != nil {
		e.Commands = append([]string(nil), o.Commands...)
	}
	if o.Cover != nil {
		cover := *o.Cover
		e.Cover = &cover
	}
}
