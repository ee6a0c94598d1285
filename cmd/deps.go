package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/config"
	"github.com/abhisek/quizmaster/internal/logger"
	"github.com/abhisek/quizmaster/internal/progress"
	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/store"
)

// deps bundles everything a command needs. Close releases it all.
type deps struct {
	cfg       *config.Config
	log       zerolog.Logger
	questions *questionbank.Client
	progress  *progress.Store
	events    store.EventRepo // nil when ephemeral

	closers []io.Closer
}

type depsOpts struct {
	// ephemeral keeps progress in memory and skips the database.
	ephemeral bool
}

// buildDeps loads configuration, applies flag overrides and opens storage.
func buildDeps(cmd *cobra.Command, opts depsOpts) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg}

	logOut, err := openLogOutput(cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := logOut.(io.Closer); ok {
		d.closers = append(d.closers, c)
	}
	d.log = logger.Setup(cfg.LogLevel, cfg.LogFormat, logOut)

	d.questions = questionbank.NewClient(questionbank.SourceFor(cfg.BankLocation), d.log)

	if opts.ephemeral || cfg.ProgressBackend == config.BackendMemory {
		d.progress = progress.New(progress.NewMemoryBackend(), d.log)
		if opts.ephemeral {
			return d, nil
		}
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.closers = append(d.closers, st)
	d.events = st.EventRepo()

	switch cfg.ProgressBackend {
	case config.BackendSQLite:
		d.progress = progress.New(st.ProgressRepo(), d.log)
	case config.BackendRedis:
		rb, err := progress.NewRedisBackend(contextOf(cmd), cfg.RedisURL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, rb)
		d.progress = progress.New(rb, d.log)
	}

	d.log.Debug().
		Str("db", dbPath).
		Str("bank", d.bankName()).
		Str("backend", cfg.ProgressBackend).
		Msg("dependencies ready")
	return d, nil
}

// Close releases storage and log handles in reverse order.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
	d.closers = nil
}

func (d *deps) bankName() string {
	if d.cfg.BankLocation == "" {
		return "embedded"
	}
	return d.cfg.BankLocation
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("bank"); v != "" {
		cfg.BankLocation = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.ProgressBackend = strings.ToLower(v)
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
}

// resolveDBPath returns the database path using --db / QUIZ_DB first,
// then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openLogOutput opens the log destination. The TUI owns stdout, so logs
// go to a file; "-" means stderr.
func openLogOutput(cfg *config.Config) (io.Writer, error) {
	path := cfg.LogFile
	if path == "-" {
		return os.Stderr, nil
	}
	if path == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return io.Discard, nil
		}
		path = p
	}
	f, err := logger.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// contextOf returns the command context, or Background when unset.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
