// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package lexspec reads lexer specifications: YAML documents declaring
// token rules, each with a pattern and an action, optionally grouped
// into start codes.  A specification compiles to a lexer automaton.
package lexspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/plexgen/plexgen/pkg/automaton"
	"github.com/plexgen/plexgen/pkg/pattern"
)

// Spec is a lexer specification.
type Spec struct {
	// Name is an optional name for the lexer, used in generated
	// output.
	Name string `yaml:"name,omitempty"`

	// Rules is the token rules.  Earlier rules win over later ones
	// when both match the same text, unless explicit precedences say
	// otherwise.
	Rules []Rule `yaml:"rules"`
}

// Rule is a single token rule.
type Rule struct {
	// Pattern is the regular expression matching the rule's lexemes.
	Pattern string `yaml:"pattern"`

	// Action is the action text to attach to the rule.
	Action string `yaml:"action,omitempty"`

	// Name is an optional short name for the rule's token.
	Name string `yaml:"name,omitempty"`

	// Precedence overrides the rule-order precedence; numerically
	// smaller wins.
	Precedence *int `yaml:"precedence,omitempty"`

	// Code is the start code the rule belongs to; empty means the
	// default start code.
	Code string `yaml:"code,omitempty"`

	// ExitCode is the start code to switch to after the rule fires;
	// unset means stay in Code.
	ExitCode *string `yaml:"exit_code,omitempty"`
}

// Parse parses specification bytes.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("lexspec: parse spec: %w", err)
	}
	if len(spec.Rules) == 0 {
		return nil, fmt.Errorf("lexspec: parse spec: no rules")
	}
	for i, rule := range spec.Rules {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("lexspec: parse spec: rule %d: no pattern", i)
		}
	}
	return &spec, nil
}

// Load reads and parses a specification file.
func Load(filename string) (*Spec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Compile builds the (non-deterministic) lexer automaton from the
// specification.  Run DFA on the result to get a machine fit for
// simulation or code generation.
func (s *Spec) Compile() (*automaton.Lexer, error) {
	lexer := automaton.NewLexer()
	for i, rule := range s.Rules {
		mach, err := pattern.Parse(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexspec: rule %d: %w", i, err)
		}

		precedence := i
		if rule.Precedence != nil {
			precedence = *rule.Precedence
		}

		lexer.Action(mach, rule.Action, precedence, automaton.ActionOptions{
			Code:     rule.Code,
			ExitCode: rule.ExitCode,
			Name:     rule.Name,
		})
	}
	return lexer, nil
}
