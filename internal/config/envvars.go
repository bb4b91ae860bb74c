// ABOUTME: .env loading and ${VAR} expansion in config string fields
// ABOUTME: Settings.env supplies values first, then the process environment; unset vars become empty

package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// LoadDotEnv loads the project's .env file into the process environment.
// Variables already set are not overridden; a missing file is not an error.
func LoadDotEnv(projectRoot string) error {
	path := EnvFile(projectRoot)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return oops.In("config").With("path", path).Wrapf(err, "loading .env")
	}
	return nil
}

// ResolveEnvVars expands ${VAR} patterns in path-like string fields of Settings.
func ResolveEnvVars(s *Settings) {
	for k, v := range s.Env {
		s.Env[k] = expandEnv(v, nil)
	}
	s.Mode = expandEnv(s.Mode, s.Env)
	s.RepliesDir = expandEnv(s.RepliesDir, s.Env)
	s.LogFile = expandEnv(s.LogFile, s.Env)
	s.StatusLine.Command = expandEnv(s.StatusLine.Command, s.Env)

	for event, defs := range s.Hooks {
		for i := range defs {
			defs[i].Command = expandEnv(defs[i].Command, s.Env)
			defs[i].Matcher = expandEnv(defs[i].Matcher, s.Env)
		}
		s.Hooks[event] = defs
	}
}

// expandEnv replaces ${VAR} with env[VAR] if present, else os.Getenv(VAR).
func expandEnv(s string, env map[string]string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if v, ok := env[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}
