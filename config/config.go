// Package config provides YAML configuration parsing for the userboard binary.
//
// Example configuration:
//
//	title: Users
//	port: 8080
//
//	seed:
//	  - username: example1
//	    email: example1@yopmail.com
//
//	script:
//	  - after: 1s
//	    action:
//	      type: add_user
//	      username: joe
//	      email: joe@yopmail.com
//	  - after: 2s
//	    action: add_user:jose jose@yopmail.com
//	  - after: 5s
//	    action: remove_all_users
//
// String values in seed, title and add_user actions support environment
// variable substitution: ${VAR} or ${VAR:-default}.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/userboard"
)

const (
	defaultPort  = 8080
	defaultTitle = "Userboard"
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load], [Parse] or [Default] to create a Config.
type Config struct {
	// Title is the page title. Defaults to "Userboard".
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Seed is the initial state of the store, in order.
	Seed []UserConfig `yaml:"seed"`

	// Script lists actions dispatched at fixed offsets after start.
	Script []StepConfig `yaml:"script"`
}

// UserConfig is a user record in the configuration file.
type UserConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
}

// StepConfig is a single scripted dispatch.
type StepConfig struct {
	// After is the offset from start, e.g. "5s". Zero dispatches immediately.
	After Duration `yaml:"after"`

	// Action is the action to dispatch.
	Action ActionConfig `yaml:"action"`
}

// ActionConfig describes an action in the configuration file.
//
// It supports two formats in YAML:
//
// Shorthand string:
//
//	action: remove_all_users
//	action: add_user:joe joe@yopmail.com
//
// Structured object:
//
//	action:
//	  type: add_user
//	  username: joe
//	  email: joe@yopmail.com
type ActionConfig struct {
	// Type is the action kind: "add_user" or "remove_all_users".
	Type string

	// Username is the record's username (for type: add_user).
	Username string

	// Email is the record's email (for type: add_user).
	Email string
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for ActionConfig.
func (a *ActionConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return a.parseShorthand(s)

	case yaml.MappingNode:
		// separate struct avoids recursing into this method
		var raw struct {
			Type     string `yaml:"type"`
			Username string `yaml:"username"`
			Email    string `yaml:"email"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		a.Type = raw.Type
		a.Username = raw.Username
		a.Email = raw.Email
		return nil
	}

	return fmt.Errorf("action must be a string or object, got %v", node.Kind)
}

// parseShorthand parses action shorthand syntax.
//
// Supported formats:
//   - "remove_all_users"
//   - "add_user:username" or "add_user:username email"
func (a *ActionConfig) parseShorthand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	kind, value, hasValue := strings.Cut(s, ":")
	switch kind {
	case userboard.KindRemoveAllUsers:
		if hasValue {
			return fmt.Errorf("action %q takes no value", kind)
		}
		a.Type = kind
	case userboard.KindAddUser:
		a.Type = kind
		fields := strings.Fields(value)
		if len(fields) > 2 {
			return fmt.Errorf("action %q expects 'add_user:username [email]', got %q", kind, s)
		}
		if len(fields) > 0 {
			a.Username = fields[0]
		}
		if len(fields) > 1 {
			a.Email = fields[1]
		}
	default:
		return fmt.Errorf("unknown action %q (expected %q or %q)", kind, userboard.KindAddUser, userboard.KindRemoveAllUsers)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part, present when a default was specified
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		if hasDefault {
			return submatches[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", varName)
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the built-in demo configuration: one seed record, two
// users added shortly after start and the list cleared after five seconds.
func Default() *Config {
	return &Config{
		Title: defaultTitle,
		Port:  defaultPort,
		Seed: []UserConfig{
			{Username: "example1", Email: "example1@yopmail.com"},
		},
		Script: []StepConfig{
			{After: Duration(1 * time.Second), Action: ActionConfig{Type: userboard.KindAddUser, Username: "joe", Email: "joe@yopmail.com"}},
			{After: Duration(2 * time.Second), Action: ActionConfig{Type: userboard.KindAddUser, Username: "jose", Email: "jose@yopmail.com"}},
			{After: Duration(5 * time.Second), Action: ActionConfig{Type: userboard.KindRemoveAllUsers}},
		},
	}
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Title ("Userboard") and Port (8080), then
// environment variables are expanded and the result validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
//
// User records are not validated: any username and email are accepted.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	title, err := expandEnvVars(c.Title)
	if err != nil {
		return fmt.Errorf("title: %w", err)
	}
	c.Title = title

	for i := range c.Seed {
		u := &c.Seed[i]
		if err := expandUser(&u.Username, &u.Email); err != nil {
			return fmt.Errorf("seed[%d]: %w", i, err)
		}
	}

	for i := range c.Script {
		step := &c.Script[i]

		if step.After.Duration() < 0 {
			return fmt.Errorf("script[%d]: after cannot be negative, got %s", i, step.After.Duration())
		}

		switch step.Action.Type {
		case "":
			return fmt.Errorf("script[%d]: action is required", i)
		case userboard.KindAddUser:
			if err := expandUser(&step.Action.Username, &step.Action.Email); err != nil {
				return fmt.Errorf("script[%d]: %w", i, err)
			}
		case userboard.KindRemoveAllUsers:
			if step.Action.Username != "" || step.Action.Email != "" {
				return fmt.Errorf("script[%d]: action %q takes no username or email", i, step.Action.Type)
			}
		default:
			return fmt.Errorf("script[%d]: unknown action type %q", i, step.Action.Type)
		}
	}

	return nil
}

// expandUser expands environment variables in a username/email pair in place.
func expandUser(username, email *string) error {
	u, err := expandEnvVars(*username)
	if err != nil {
		return fmt.Errorf("username: %w", err)
	}
	e, err := expandEnvVars(*email)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	*username, *email = u, e
	return nil
}
