package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/config"
	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/kv"
	"github.com/ppiankov/alertflow/internal/lifecycle"
	"github.com/ppiankov/alertflow/internal/model"
	"github.com/ppiankov/alertflow/internal/playbook"
	"github.com/ppiankov/alertflow/internal/store"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	kv     kv.Store
	stores *store.Set
	ctrl   *lifecycle.Controller
}

func openEnv(cmd *cobra.Command, opts ...lifecycle.Option) (*env, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagStateDir != "" {
		cfg.StateDir = flagStateDir
	}
	if flagBackend != "" {
		cfg.Backend = kv.Backend(flagBackend)
	}
	if flagFeed != "" {
		cfg.FeedPath = flagFeed
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	catalog := playbook.Builtin()
	if cfg.PlaybookDir != "" {
		if err := catalog.LoadDir(cfg.PlaybookDir); err != nil {
			return nil, fmt.Errorf("load playbooks: %w", err)
		}
	}

	backing, err := kv.Open(cfg.Backend, cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	stores := store.NewSet(backing, log)
	opts = append([]lifecycle.Option{lifecycle.WithLogger(log)}, opts...)

	return &env{
		cfg:    cfg,
		log:    log,
		kv:     backing,
		stores: stores,
		ctrl:   lifecycle.New(stores, catalog, opts...),
	}, nil
}

func (e *env) Close() error {
	return e.kv.Close()
}

// actor resolves who is acting: --as wins over the logged-in user.
func (e *env) actor() (model.Actor, error) {
	if flagAs != "" {
		m, ok := e.cfg.Member(flagAs)
		if !ok {
			return model.Actor{}, fmt.Errorf("unknown team member %q", flagAs)
		}
		return m, nil
	}
	a, ok := e.stores.Users.Current()
	if !ok {
		return model.Actor{}, fmt.Errorf("no current user: run 'alertflow login <member-id>' or pass --as")
	}
	return a, nil
}

// feed returns the configured alert feed.
func (e *env) feed() (feed.Source, error) {
	if e.cfg.FeedPath == "" {
		return nil, fmt.Errorf("no alert feed configured: pass --feed or set feed_path")
	}
	return feed.File{Path: e.cfg.FeedPath}, nil
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// withEnv opens the environment for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(e *env) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// mutate resolves the actor and runs fn against the controller.
func mutate(cmd *cobra.Command, fn func(e *env, actor model.Actor) error) error {
	return withEnv(cmd, func(e *env) error {
		actor, err := e.actor()
		if err != nil {
			return err
		}
		return fn(e, actor)
	})
}
