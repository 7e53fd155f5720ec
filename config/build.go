package config

import (
	"fmt"

	"github.com/jpalmerr/userboard"
	"github.com/jpalmerr/userboard/internal/timeline"
)

// BuildSeed converts the configured seed into user records, in order.
func BuildSeed(cfg *Config) []userboard.UserRecord {
	seed := make([]userboard.UserRecord, len(cfg.Seed))
	for i, u := range cfg.Seed {
		seed[i] = userboard.UserRecord{Username: u.Username, Email: u.Email}
	}
	return seed
}

// BuildScript converts the configured script into timeline steps, in file order.
//
// Returns an error if a step names an unknown action type; configs produced
// by [Parse] have already been checked.
func BuildScript(cfg *Config) ([]timeline.Step, error) {
	script := make([]timeline.Step, 0, len(cfg.Script))
	for i, step := range cfg.Script {
		action, err := buildAction(step.Action)
		if err != nil {
			return nil, fmt.Errorf("script[%d]: %w", i, err)
		}
		script = append(script, timeline.Step{
			After:  step.After.Duration(),
			Action: action,
		})
	}
	return script, nil
}

// buildAction converts an ActionConfig into the matching action variant.
func buildAction(ac ActionConfig) (userboard.Action, error) {
	switch ac.Type {
	case userboard.KindAddUser:
		return userboard.AddUser{Record: userboard.UserRecord{
			Username: ac.Username,
			Email:    ac.Email,
		}}, nil
	case userboard.KindRemoveAllUsers:
		return userboard.RemoveAllUsers{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", ac.Type)
	}
}
