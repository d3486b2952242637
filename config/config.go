// Package config holds runtime configuration for cardhook.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imdario/mergo"
)

// Config is the configuration for a single hook invocation. It is built once
// at startup from defaults, the optional cardhook.yaml file and command-line
// flags, then passed explicitly to every component.
type Config struct {
	Debug   bool `json:"debug,omitempty"`
	Dryrun  bool `json:"dryrun,omitempty"`
	Quiet   bool `json:"quiet,omitempty"`

	// Environment is the deployment environment name, ie "dev", "test", or a
	// multidev name.
	Environment string `json:"environment,omitempty"`
	// PublicURL is the host (and optional path) the environment is served
	// at. It is linked from comments.
	PublicURL string `json:"public_url,omitempty"`
	// PrimaryEnvironment always resolves cards by tag, regardless of
	// Strategy.
	PrimaryEnvironment string `json:"primary_environment,omitempty"`
	// Strategy is how commits are resolved to cards in environments other
	// than the primary one: "by-tag" or "by-env-name".
	Strategy string `json:"strategy,omitempty"`

	StateDir        string `json:"state_dir,omitempty"`
	CommentTemplate string `json:"comment_template,omitempty"`
	Timeout         string `json:"timeout,omitempty"`
	BoardURL        string `json:"board_url,omitempty"`
	SecretsFile     string `json:"secrets_file,omitempty"`
	SecretsPrefix   string `json:"secrets_prefix,omitempty"`

	Term TerminalIO `json:"-"`
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	c.Term.Printf(msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	c.Term.Errorf(msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Debug {
		return
	}
	c.Printf(msg, args...)
}

// GetTimeout returns the per-call timeout for outward calls.
func (c Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

func (c Config) Validate() error {
	if c.Environment == "" {
		return errors.New("config: environment is required")
	}
	if strings.ContainsAny(c.Environment, `/\`) || c.Environment == "." || c.Environment == ".." {
		return fmt.Errorf("config: invalid environment name %q", c.Environment)
	}
	switch c.Strategy {
	case "by-tag", "by-env-name":
	default:
		return fmt.Errorf("config: unknown strategy %q (want by-tag or by-env-name)", c.Strategy)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("config: invalid timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config: timeout must be positive, got %s", d)
		}
	}
	if c.StateDir == "" {
		return errors.New("config: state_dir is required")
	}
	return nil
}
