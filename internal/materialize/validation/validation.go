// Package validation provides a framework for checking rendered paths before
// anything is written. Rules are reusable and composed into validators.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Kind distinguishes directory targets from file targets.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "directory"
}

// Target is one rendered path, relative to Root, that is about to be created.
type Target struct {
	Root string
	Rel  string
	Kind Kind
}

// Path returns the on-disk location of the target.
func (t Target) Path() string {
	return filepath.Join(t.Root, filepath.FromSlash(t.Rel))
}

// Rule checks one property of a Target and returns nil when it holds.
type Rule interface {
	Validate(t Target) error
}

// Validator runs every rule for one kind of target and reports all failures
// for that target together.
type Validator struct {
	Name  string
	Rules []Rule
}

// NewValidator returns an empty validator whose errors are prefixed with name.
func NewValidator(name string) *Validator {
	return &Validator{Name: name}
}

// AddRule appends rule and returns v for chaining.
func (v *Validator) AddRule(rule Rule) *Validator {
	v.Rules = append(v.Rules, rule)
	return v
}

// Validate applies every rule to t. Failures are joined under a
// "<name> <rel>:" prefix.
func (v *Validator) Validate(t Target) error {
	var errs []error
	for _, rule := range v.Rules {
		if err := rule.Validate(t); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s %q: %w", v.Name, t.Rel, err)
	}
	return nil
}
