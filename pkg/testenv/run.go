// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dexec"
	"github.com/datawire/dlib/dlog"
)

// Runner runs test environments sequentially.
type Runner struct {
	Config *Config

	// BaseDir is the directory holding the configuration; command
	// substitution exposes it as {toxinidir}.  Empty means the
	// current directory.
	BaseDir string

	// WorkDir is the directory for per-environment state; empty means
	// ".plexenv" under BaseDir.
	WorkDir string

	// Posargs is the caller-supplied argv, spliced into commands at
	// {posargs}.
	Posargs []string

	// Stdout and Stderr are the command output streams; nil means the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *Runner) baseDir() string {
	if r.BaseDir == "" {
		return "."
	}
	return r.BaseDir
}

func (r *Runner) workDir() string {
	if r.WorkDir == "" {
		return filepath.Join(r.baseDir(), ".plexenv")
	}
	return r.WorkDir
}

// Run runs the named environments in order, or the config's envlist
// if names is empty.  Every environment runs even if an earlier one
// fails; the failures are collected into a single error.
func (r *Runner) Run(ctx context.Context, names []string) error {
	if len(names) == 0 {
		names = r.Config.Envlist
	}

	var errs derror.MultiError
	for _, name := range names {
		if err := r.RunEnv(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("environment %q: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RunEnv runs a single named environment: interpreter lookup, work
// dir setup, dependency installation, then the commands.
func (r *Runner) RunEnv(ctx context.Context, name string) error {
	env, err := r.Config.Resolve(name)
	if err != nil {
		return err
	}

	interp, err := dexec.LookPath(env.Basepython)
	if err != nil {
		if r.Config.SkipMissingInterpreters {
			dlog.Warnf(ctx, "skipping environment %q: interpreter %q not found", name, env.Basepython)
			return nil
		}
		return fmt.Errorf("interpreter %q: %w", env.Basepython, err)
	}

	envdir := filepath.Join(r.workDir(), name)
	if err := os.MkdirAll(envdir, 0o777); err != nil {
		return err
	}

	vars := map[string]string{
		"posargs":   strings.Join(r.Posargs, " "),
		"envdir":    envdir,
		"toxinidir": r.baseDir(),
	}

	environ, err := r.environ(env, vars)
	if err != nil {
		return err
	}

	for _, dep := range env.Deps {
		depWords, err := r.expandCommand(dep, vars)
		if err != nil {
			return fmt.Errorf("dep %q: %w", dep, err)
		}
		args := append([]string{"-m", "pip", "install"}, depWords...)
		if err := r.command(ctx, interp, args, environ); err != nil {
			return fmt.Errorf("dep %q: %w", dep, err)
		}
	}

	dlog.Infof(ctx, "running environment %q with %s", name, interp)
	for _, line := range env.Commands {
		argv, err := r.expandCommand(line, vars)
		if err != nil {
			return fmt.Errorf("command %q: %w", line, err)
		}
		if len(argv) == 0 {
			continue
		}
		if err := r.command(ctx, argv[0], argv[1:], environ); err != nil {
			return fmt.Errorf("command %q: %w", line, err)
		}
	}

	if env.Cover != nil {
		if err := r.checkCover(ctx, env.Cover, envdir); err != nil {
			return err
		}
	}
	return nil
}

// expandCommand splits a command line and substitutes variables.  A
// word that is exactly "{posargs}" splices in the caller argv.
func (r *Runner) expandCommand(line string, vars map[string]string) ([]string, error) {
	words, err := splitCommand(line)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(words))
	for _, word := range words {
		if word == "{posargs}" {
			out = append(out, r.Posargs...)
			continue
		}
		expanded, err := expand(word, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// environ builds the command environment: passed-through host
// variables, then the environment's setenv entries.
func (r *Runner) environ(env *EnvConfig, vars map[string]string) ([]string, error) {
	passAll := false
	pass := map[string]struct{}{
		// Always passed through.
		"PATH":   {},
		"HOME":   {},
		"TMPDIR": {},
	}
	for _, name := range env.Passenv {
		if name == "*" {
			passAll = true
			continue
		}
		pass[name] = struct{}{}
	}

	var environ []string
	for _, kv := range os.Environ() {
		if passAll {
			environ = append(environ, kv)
			continue
		}
		name := strings.SplitN(kv, "=", 2)[0]
		if _, ok := pass[name]; ok {
			environ = append(environ, kv)
		}
	}

	names := make([]string, 0, len(env.Setenv))
	for name := range env.Setenv {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, err := expand(env.Setenv[name], vars)
		if err != nil {
			return nil, fmt.Errorf("setenv %s: %w", name, err)
		}
		environ = append(environ, name+"="+val)
	}
	return environ, nil
}

func (r *Runner) command(ctx context.Context, name string, args, environ []string) error {
	cmd := dexec.CommandContext(ctx, name, args...)
	cmd.Dir = r.baseDir()
	cmd.Env = environ
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}
