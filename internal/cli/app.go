package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/roach88/deskicons/internal/cache"
	"github.com/roach88/deskicons/internal/config"
	"github.com/roach88/deskicons/internal/desktop"
	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/store"
)

// app is the wiring shared by commands that touch the database.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	ttl     *cache.TTLStore
	svc     *desktop.Service
	out     *OutputFormatter
	logFile *os.File
}

// openApp loads configuration, applies flag overrides and opens the store.
// Callers must Close the returned app.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DB != "" {
		cfg.DB = opts.DB
	}
	if opts.User != "" {
		cfg.User = opts.User
	}

	a := &app{
		ctx: cmd.Context(),
		cfg: cfg,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}

	if err := a.setupLogger(opts, cmd); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DB)
	if err != nil {
		a.Close()
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", cfg.DB), err)
	}
	a.store = st

	feeds := feed.DirProvider{Dir: cfg.FeedsDir}
	apps := cfg.Apps
	if len(apps) == 0 {
		if apps, err = feeds.Apps(); err != nil {
			a.Close()
			return nil, WrapExitError(ExitCommandError, "failed to discover feeds", err)
		}
	}

	a.ttl = cache.NewTTLStore(cfg.CacheTTL)
	a.svc = desktop.New(st, st, feeds, cache.New(a.ttl, a.logger),
		desktop.WithLogger(a.logger),
		desktop.WithSystemUser(cfg.SystemUser),
		desktop.WithApps(apps...),
		desktop.WithSwatchPicker(icon.RandomSwatch),
	)

	a.logger.Debug("opened desktop store", "db", cfg.DB, "feeds_dir", cfg.FeedsDir, "apps", apps)
	a.out.VerboseLog("database %s, packages %v", cfg.DB, apps)
	return a, nil
}

// setupLogger writes text logs to stderr and, when log_file is set, JSON
// logs to that file as well.
func (a *app) setupLogger(opts *RootOptions, cmd *cobra.Command) error {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	stderr := slog.NewTextHandler(cmd.ErrOrStderr(), handlerOpts)

	if a.cfg.LogFile == "" {
		a.logger = slog.New(stderr)
		return nil
	}

	f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	a.logFile = f
	a.logger = slog.New(slogmulti.Fanout(
		stderr,
		slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	return nil
}

// Close releases the store, the cache and the log file.
func (a *app) Close() error {
	var errs []error
	if a.ttl != nil {
		a.ttl.Close()
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// user returns the configured user or a command error if none is set.
func (a *app) user() (string, error) {
	if a.cfg.User == "" {
		return "", NewExitError(ExitCommandError, "no user: pass --user or set user in config")
	}
	return a.cfg.User, nil
}

// withApp opens the app, runs fn and closes the app.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// fail reports a domain error in the configured format and returns the
// matching ExitError.
func (a *app) fail(err error) error {
	code, msg, exit := "E_FAILED", "failed", ExitCommandError
	switch {
	case icon.IsNotFound(err):
		code, msg, exit = "E_NOT_FOUND", "not found", ExitFailure
	case icon.IsConflict(err):
		code, msg, exit = "E_CONFLICT", "conflict", ExitFailure
	case icon.IsNameTaken(err):
		code, msg, exit = "E_NAME_TAKEN", "name taken", ExitFailure
	}
	if a.out.isJSON() {
		if werr := a.out.Error(code, err.Error(), nil); werr != nil {
			return werr
		}
	}
	return WrapExitError(exit, msg, err)
}

// done reports a successful write: text for humans, data for JSON.
func (a *app) done(text string, data any) error {
	if a.out.isJSON() {
		return a.out.Success(data)
	}
	fmt.Fprintln(a.out.Writer, text)
	return nil
}
