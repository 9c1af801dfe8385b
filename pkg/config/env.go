package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/amaumene/testenv/pkg/errors"
)

// Env is a snapshot of environment variables. A key counts as set when its
// value is non-empty.
type Env map[string]string

// FromOS snapshots the process environment.
func FromOS() Env {
	return FromPairs(os.Environ())
}

// FromPairs builds an Env from KEY=VALUE pairs.
func FromPairs(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}

// LoadEnvFiles merges dotenv files into env. Non-empty values already in env
// win over file values, and earlier files win over later ones.
func LoadEnvFiles(env Env, paths ...string) (Env, error) {
	merged := make(Env, len(env))
	for k, v := range env {
		merged[k] = v
	}

	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, apperrors.NewConfigError("reading env file", path, err)
		}
		for k, v := range values {
			if !merged.IsSet(k) {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

func (e Env) Lookup(key string) (string, bool) {
	v := e[key]
	return v, v != ""
}

func (e Env) IsSet(key string) bool {
	return e[key] != ""
}

func (e Env) String(key, defaultValue string) string {
	if value, ok := e.Lookup(key); ok {
		return value
	}
	return defaultValue
}

func (e Env) Int(key string, defaultValue int) (int, error) {
	value, ok := e.Lookup(key)
	if !ok {
		return defaultValue, nil
	}
	return parseInt(key, value)
}

// OptionalInt returns nil when key is not set.
func (e Env) OptionalInt(key string) (*int, error) {
	value, ok := e.Lookup(key)
	if !ok {
		return nil, nil
	}
	n, err := parseInt(key, value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Bool accepts strconv.ParseBool values; any other non-empty value is true.
func (e Env) Bool(key string, defaultValue bool) bool {
	value, ok := e.Lookup(key)
	if !ok {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return true
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, apperrors.InvalidValue("parsing integer", key, value)
	}
	return n, nil
}
