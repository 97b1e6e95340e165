// Package script replays YAML action scripts against a headless session and
// writes one trace line per step. IDs and the story clock are deterministic
// so traces can be compared verbatim.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAction is returned for steps naming an action the runner lacks.
var ErrUnknownAction = errors.New("unknown action")

// Step is one action with its arguments.
type Step struct {
	Action string            `yaml:"action"`
	Args   map[string]string `yaml:"args,omitempty"`
}

// Arg returns a trimmed argument.
func (s Step) Arg(name string) string { return strings.TrimSpace(s.Args[name]) }

// Script is a named sequence of steps run as one user.
type Script struct {
	Name          string `yaml:"name"`
	User          string `yaml:"user"`
	Authenticated *bool  `yaml:"authenticated,omitempty"`
	Steps         []Step `yaml:"steps"`
}

// StartsAuthenticated defaults to true when the script does not say.
func (s *Script) StartsAuthenticated() bool {
	return s.Authenticated == nil || *s.Authenticated
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a script document. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Script
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	sc.User = strings.TrimSpace(sc.User)
	if sc.User == "" {
		sc.User = "u1"
	}
	for i, st := range sc.Steps {
		if strings.TrimSpace(st.Action) == "" {
			return nil, fmt.Errorf("step %d: action is required", i+1)
		}
		sc.Steps[i].Action = strings.ToLower(strings.TrimSpace(st.Action))
	}
	return &sc, nil
}
