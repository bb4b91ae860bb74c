// ABOUTME: Shared startup for every subcommand: settings, logging, reply library, engine, store
// ABOUTME: CLI flags override settings; sessions open fresh, by ID, or resume the latest

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/config"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/export"
	"github.com/mauromedda/pi-offline-go/internal/hooks"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	pilog "github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/replies"
	"github.com/mauromedda/pi-offline-go/internal/respond"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// app holds everything built from settings and flags.
type app struct {
	root     string
	settings *config.Settings
	library  *replies.Library
	engine   *engine.Engine
	store    *session.Store
	hooks    *hooks.Engine
	logFile  io.Closer
}

// setup loads settings for the workspace and builds the engine.
func setup() (*app, error) {
	root := workspace
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		root = cwd
	}

	settings, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(settings)

	closer, err := pilog.Setup(pilog.Options{File: settings.LogFile})
	if err != nil {
		return nil, err
	}
	if settings.Verbose {
		pilog.SetLevel(pilog.LevelDebug)
	}

	lib, err := replies.New(settings.RepliesDir)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("loading reply templates: %w", err)
	}

	hk, err := hooks.NewEngine(settings.Hooks)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("loading hooks: %w", err)
	}

	store := session.DefaultStore()
	a := &app{
		root:     root,
		settings: settings,
		library:  lib,
		store:    &store,
		hooks:    hk,
		logFile:  closer,
	}
	a.engine = engine.New(engineOptions(settings, lib)...)
	pilog.Debug("pi-offline %s: mode=%s replies=%s", version, settings.Mode, settings.RepliesDir)
	return a, nil
}

func applyFlags(s *config.Settings) {
	if verbose {
		s.Verbose = true
	}
	if seed != 0 {
		v := seed
		s.Seed = &v
	}
	if simple {
		s.Mode = config.ModeSimple
	}
	if userTopics {
		s.TopicsUserOnly = true
	}
}

func engineOptions(s *config.Settings, lib *replies.Library) []engine.Option {
	opts := []engine.Option{
		engine.WithLibrary(lib),
		engine.WithMaxEcho(s.MaxEchoRunes),
		engine.WithSimpleMode(s.IsSimple()),
		engine.WithUserTopicsOnly(s.TopicsUserOnly),
	}
	if s.Seed != nil {
		opts = append(opts, engine.WithPicker(respond.SeededPicker(*s.Seed)))
	}
	return opts
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// sessionOptions returns the options used for every session this run opens.
// persist=false keeps the conversation in memory only.
func (a *app) sessionOptions(persist bool) (session.Options, error) {
	opts := session.Options{
		Mode:         a.settings.Mode,
		HistoryLimit: a.settings.HistoryLimit,
	}
	if !persist {
		return opts, nil
	}
	if err := config.EnsureDir(a.store.Dir); err != nil {
		return opts, fmt.Errorf("creating sessions directory: %w", err)
	}
	opts.Store = a.store
	return opts, nil
}

// openSession honours --session and --continue.
func (a *app) openSession(persist bool) (*session.Session, session.Options, error) {
	opts, err := a.sessionOptions(persist)
	if err != nil {
		return nil, opts, err
	}

	switch {
	case sessionID != "":
		opts.ID = sessionID
	case resumeLast:
		if opts.Store == nil {
			return nil, opts, errors.New("--continue needs a persisted session")
		}
		id, err := a.store.Latest()
		if err != nil {
			pilog.Info("%v; starting a new session", err)
		}
		opts.ID = id
	}

	sess, err := session.New(a.engine, opts)
	if err != nil {
		return nil, opts, err
	}
	return sess, opts, nil
}

// withHooks runs configured hooks on sess events until the returned func,
// which closes sess first so "closed" hooks still fire.
func (a *app) withHooks(sess *session.Session) func() {
	detach := a.hooks.Attach(sess, a.root, nil)
	return func() {
		if err := sess.Close(); err != nil {
			pilog.Warn("closing session: %v", err)
		}
		detach()
	}
}

// reload validates the settings files and re-reads the reply templates.
// Settings other than templates apply on the next start.
func (a *app) reload() (string, error) {
	if _, err := config.Load(a.root); err != nil {
		return "", err
	}
	if err := a.library.Reload(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Reloaded %d reply pools.", len(a.library.PoolNames())), nil
}

// watchPaths lists the files whose changes trigger reload.
func (a *app) watchPaths() []string {
	paths := []string{
		config.ProjectConfigFile(a.root),
		config.GlobalConfigFile(),
		config.ProjectKeybindingsFile(a.root),
		config.GlobalKeybindingsFile(),
	}
	if dir := a.settings.RepliesDir; dir != "" {
		paths = append(paths, dir)
	}
	return paths
}

// keybindingFiles returns the global and project keybinding files, in merge order.
func (a *app) keybindingFiles() [2]string {
	return [2]string{config.GlobalKeybindingsFile(), config.ProjectKeybindingsFile(a.root)}
}

// commandContext binds slash commands to sess for non-interactive surfaces.
func (a *app) commandContext(sess *session.Session) *commands.CommandContext {
	ctx := &commands.CommandContext{
		Mode:     a.settings.Mode,
		Version:  version,
		Analyze:  a.engine.Analyze,
		ReloadFn: a.reload,
	}
	if a.store != nil {
		ctx.ListSessions = a.store.List
	}
	if sess == nil {
		return ctx
	}
	ctx.SessionID = sess.ID
	ctx.History = sess.History
	ctx.Topics = sess.Topics
	ctx.CurrentIntent = func() (intent.Intent, []intent.Intent) { return sess.CurrentIntent(), sess.IntentPath() }
	ctx.ClearHistory = sess.Clear
	ctx.ExportConversation = func(path string) error {
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.root, path)
		}
		return export.Write(path, sess.History(), export.Meta{SessionID: sess.ID, Exported: time.Now()})
	}
	return ctx
}
