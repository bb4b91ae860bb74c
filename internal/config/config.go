// ABOUTME: Settings loading with global + project config merge and validation
// ABOUTME: JSON files, .env and ${VAR} expansion, checked with go-playground/validator

package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// Reply modes.
const (
	ModeRich   = "rich"
	ModeSimple = "simple"
)

// Settings holds the merged configuration.
type Settings struct {
	Mode           string            `json:"mode,omitempty" validate:"omitempty,oneof=rich simple"`
	Seed           *uint64           `json:"seed,omitempty"` // fixed variant selection when set
	TopicsUserOnly bool              `json:"topics_user_only,omitempty"`
	MaxEchoRunes   int               `json:"max_echo_runes,omitempty" validate:"gte=0,lte=1000"`
	HistoryLimit   int               `json:"history_limit,omitempty" validate:"gte=0"`
	RepliesDir     string            `json:"replies_dir,omitempty"`
	LogFile        string            `json:"log_file,omitempty"`
	Verbose        bool              `json:"verbose,omitempty"`
	Env            map[string]string `json:"env,omitempty"`

	// Hooks maps a session event (exchange, transition, cleared, closed)
	// to shell commands run when it fires.
	Hooks map[string][]HookDef `json:"hooks,omitempty" validate:"omitempty,dive,keys,oneof=exchange transition cleared closed,endkeys,dive"`

	// StatusLine runs a command after each reply; its output is shown in
	// the chat footer.
	StatusLine StatusLineConfig `json:"status_line,omitzero"`
}

// StatusLineConfig configures the external footer command.
type StatusLineConfig struct {
	Command string `json:"command,omitempty"`
	Padding int    `json:"padding,omitempty" validate:"gte=0,lte=20"`
}

// HookDef is one hook command. Matcher is a regexp tested against the
// intent label; empty matches every event.
type HookDef struct {
	Matcher string `json:"matcher,omitempty"`
	Command string `json:"command" validate:"required"`
}

// Defaults returns the settings used when no file sets a value.
func Defaults() *Settings {
	return &Settings{
		Mode:         ModeRich,
		MaxEchoRunes: 60,
		HistoryLimit: 50,
		RepliesDir:   DefaultRepliesDir(),
	}
}

// IsSimple reports whether the keyword-only responder is selected.
func (s *Settings) IsSimple() bool {
	return s.Mode == ModeSimple
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return oops.In("config").Wrapf(err, "invalid settings")
	}
	return nil
}

// Load reads the project .env, then merges defaults, global and project-local
// settings (project wins), expands ${VAR} references and validates the result.
func Load(projectRoot string) (*Settings, error) {
	if err := LoadDotEnv(projectRoot); err != nil {
		return nil, err
	}

	global, err := loadFile(GlobalConfigFile())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	merged := merge(merge(Defaults(), global), project)
	ResolveEnvVars(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads Settings from a JSON file. A missing file returns empty
// Settings and an error satisfying errors.Is(err, fs.ErrNotExist).
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, oops.In("config").With("path", path).Wrapf(err, "reading settings")
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, oops.In("config").With("path", path).Wrapf(err, "parsing settings")
	}
	return &s, nil
}

// merge overlays project onto global. Non-zero project values win.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global
	result.Env = maps.Clone(global.Env)

	if project.Mode != "" {
		result.Mode = project.Mode
	}
	if project.Seed != nil {
		seed := *project.Seed
		result.Seed = &seed
	}
	if project.TopicsUserOnly {
		result.TopicsUserOnly = true
	}
	if project.MaxEchoRunes != 0 {
		result.MaxEchoRunes = project.MaxEchoRunes
	}
	if project.HistoryLimit != 0 {
		result.HistoryLimit = project.HistoryLimit
	}
	if project.RepliesDir != "" {
		result.RepliesDir = project.RepliesDir
	}
	if project.LogFile != "" {
		result.LogFile = project.LogFile
	}
	if project.Verbose {
		result.Verbose = true
	}

	if project.StatusLine.Command != "" {
		result.StatusLine = project.StatusLine
	}

	// Project hooks replace global hooks for the same event.
	if len(project.Hooks) > 0 {
		hooks := maps.Clone(result.Hooks)
		if hooks == nil {
			hooks = make(map[string][]HookDef, len(project.Hooks))
		}
		maps.Copy(hooks, project.Hooks)
		result.Hooks = hooks
	}

	if len(project.Env) > 0 {
		if result.Env == nil {
			result.Env = make(map[string]string)
		}
		maps.Copy(result.Env, project.Env)
	}

	return &result
}
