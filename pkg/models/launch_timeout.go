package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLaunchTimeout         = 60000
	DefaultAfterSimLaunchTimeout = 10000
)

// LaunchTimeout is either a flat number of milliseconds or a structured
// value with separate global and after-simulator-launch limits.
type LaunchTimeout struct {
	Global         int
	AfterSimLaunch int
	Structured     bool
}

type structuredTimeout struct {
	Global         int `json:"global" yaml:"global"`
	AfterSimLaunch int `json:"afterSimLaunch" yaml:"afterSimLaunch"`
}

// FlatTimeout returns a plain millisecond launch timeout.
func FlatTimeout(ms int) LaunchTimeout {
	return LaunchTimeout{Global: ms}
}

// StructuredTimeout returns a {global, afterSimLaunch} launch timeout.
func StructuredTimeout(global, afterSimLaunch int) LaunchTimeout {
	return LaunchTimeout{Global: global, AfterSimLaunch: afterSimLaunch, Structured: true}
}

// ParseLaunchTimeout parses a JSON-like literal: either an integer or a
// mapping with global and afterSimLaunch integer keys. Unquoted keys are
// accepted. Nulls, floats, unknown keys and empty mappings are rejected.
func ParseLaunchTimeout(raw string) (LaunchTimeout, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LaunchTimeout{}, fmt.Errorf("empty launch timeout")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return LaunchTimeout{}, fmt.Errorf("parsing launch timeout %q: %w", raw, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return LaunchTimeout{}, fmt.Errorf("launch timeout %q has no value", raw)
	}

	node := doc.Content[0]
	switch node.Kind {
	case yaml.ScalarNode:
		ms, err := millis(node)
		if err != nil {
			return LaunchTimeout{}, fmt.Errorf("launch timeout %q: %w", raw, err)
		}
		return FlatTimeout(ms), nil
	case yaml.MappingNode:
		st, err := parseStructured(node)
		if err != nil {
			return LaunchTimeout{}, fmt.Errorf("launch timeout %q: %w", raw, err)
		}
		return st, nil
	default:
		return LaunchTimeout{}, fmt.Errorf("launch timeout %q must be an integer or a mapping", raw)
	}
}

func parseStructured(node *yaml.Node) (LaunchTimeout, error) {
	if len(node.Content) == 0 {
		return LaunchTimeout{}, fmt.Errorf("mapping needs global or afterSimLaunch")
	}

	var st structuredTimeout
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		ms, err := millis(value)
		if err != nil {
			return LaunchTimeout{}, fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "global":
			st.Global = ms
		case "afterSimLaunch":
			st.AfterSimLaunch = ms
		default:
			return LaunchTimeout{}, fmt.Errorf("unknown key %q", key)
		}
	}
	return StructuredTimeout(st.Global, st.AfterSimLaunch), nil
}

func millis(node *yaml.Node) (int, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, fmt.Errorf("expected an integer, got %q", node.Value)
	}
	var ms int
	if err := node.Decode(&ms); err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative timeout %d", ms)
	}
	return ms, nil
}

func (t LaunchTimeout) String() string {
	if t.Structured {
		return fmt.Sprintf("{global: %d, afterSimLaunch: %d}", t.Global, t.AfterSimLaunch)
	}
	return fmt.Sprintf("%d", t.Global)
}

func (t LaunchTimeout) MarshalJSON() ([]byte, error) {
	if t.Structured {
		return json.Marshal(structuredTimeout{Global: t.Global, AfterSimLaunch: t.AfterSimLaunch})
	}
	return json.Marshal(t.Global)
}

func (t *LaunchTimeout) UnmarshalJSON(data []byte) error {
	parsed, err := ParseLaunchTimeout(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LaunchTimeout) MarshalYAML() (interface{}, error) {
	if t.Structured {
		return structuredTimeout{Global: t.Global, AfterSimLaunch: t.AfterSimLaunch}, nil
	}
	return t.Global, nil
}
