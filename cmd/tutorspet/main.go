// Package main is the entry point of the TutorsPet roster manager: it loads
// the configuration, opens the configured storage and runs the command loop
// over standard input.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/tutorspet/tutorspet/config"
	"github.com/tutorspet/tutorspet/internal/application/logic"
	"github.com/tutorspet/tutorspet/internal/application/model"
	"github.com/tutorspet/tutorspet/internal/domain/roster"
	"github.com/tutorspet/tutorspet/internal/domain/shared"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/file"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/postgres"
	"github.com/tutorspet/tutorspet/internal/infrastructure/persistence/redis"
	"github.com/tutorspet/tutorspet/internal/interface/cli"
	"github.com/tutorspet/tutorspet/pkg/logger"
	"github.com/tutorspet/tutorspet/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cfg, args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting TutorsPet",
		logger.String("version", cfg.App.Version),
		logger.Backend(string(cfg.Storage.Backend)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer closeStorage()

	data, err := logic.LoadRoster(ctx, storage, logic.LoadOptions{SampleOnMissing: cfg.Storage.SampleDataOnMissing}, log)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. COMMAND LOOP
	// ─────────────────────────────────────────────────────────────────────────
	manager := logic.NewManager(model.New(data, cfg.History.InitialLabel), cli.NewParser(), storage, log)
	return repl(ctx, manager, in, cli.NewRenderer(out))
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, args []string) error {
	flags := pflag.NewFlagSet("tutorspet", pflag.ContinueOnError)
	backend := flags.StringP("backend", "b", string(cfg.Storage.Backend), "storage backend: file, postgres or redis")
	flags.StringVarP(&cfg.Storage.FilePath, "file", "f", cfg.Storage.FilePath, "roster file for the file backend")
	flags.StringVar(&cfg.Storage.Format, "format", cfg.Storage.Format, "file format: json or yaml (default: from the file extension)")
	flags.StringVar(&cfg.Database.URL, "database-url", cfg.Database.URL, "PostgreSQL connection URL")
	flags.StringVar(&cfg.Redis.Host, "redis-host", cfg.Redis.Host, "Redis host")
	flags.IntVar(&cfg.Redis.Port, "redis-port", cfg.Redis.Port, "Redis port")
	flags.BoolVar(&cfg.Storage.SampleDataOnMissing, "sample-data", cfg.Storage.SampleDataOnMissing, "start with sample data when storage is empty")
	flags.StringVar(&cfg.Observability.LogLevel, "log-level", cfg.Observability.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&cfg.Observability.LogFile, "log-file", cfg.Observability.LogFile, "write logs to this file instead of stderr")

	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg.Storage.Backend = config.Backend(*backend)
	return nil
}

func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	opts := logger.DefaultOptions()
	opts.AddCaller = cfg.App.Debug || cfg.IsDevelopment()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}

	if cfg.Observability.LogFile == "" {
		return logger.New(opts), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Observability.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.Output = f
	return logger.New(opts), func() { _ = f.Close() }, nil
}

// openStorage builds the configured backend. Server backends are retried
// while the server comes up, bounded by the connect timeout.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (roster.Storage, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.App.ConnectTimeout)
	defer cancel()

	policy := retry.ConnectPolicy(func(attempt int, err error, delay time.Duration) {
		log.Warn("storage not reachable, retrying",
			logger.Backend(string(cfg.Storage.Backend)),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.Host = cfg.Database.Host
		pgCfg.Port = cfg.Database.Port
		pgCfg.Database = cfg.Database.Name
		pgCfg.User = cfg.Database.User
		pgCfg.Password = cfg.Database.Password
		pgCfg.SSLMode = cfg.Database.SSLMode
		pgCfg.MaxConns = int32(cfg.Database.MaxConns)
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		conn, err := retry.DoWithData(connectCtx, policy, func(ctx context.Context) (*postgres.Connection, error) {
			conn, err := postgres.NewConnection(ctx, pgCfg)
			if errors.Is(err, postgres.ErrInvalidConfig) {
				return nil, retry.Permanent(err)
			}
			return conn, err
		})
		if err != nil {
			return nil, nil, err
		}
		applied, err := postgres.NewMigrator(conn, log).Migrate(connectCtx)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Debug("schema ready", logger.Int("migrations_applied", applied))
		return postgres.NewRosterStore(conn, log), conn.Close, nil

	case config.BackendRedis:
		rCfg := redis.DefaultConfig()
		rCfg.Host = cfg.Redis.Host
		rCfg.Port = cfg.Redis.Port
		rCfg.Password = cfg.Redis.Password
		rCfg.DB = cfg.Redis.DB
		rCfg.KeyPrefix = cfg.Redis.KeyPrefix
		rCfg.DialTimeout = cfg.Redis.DialTimeout
		rCfg.ReadTimeout = cfg.Redis.ReadTimeout
		rCfg.WriteTimeout = cfg.Redis.WriteTimeout

		client, err := retry.DoWithData(connectCtx, policy, func(ctx context.Context) (*goredis.Client, error) {
			return redis.NewClient(ctx, rCfg)
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewRosterStore(client, rCfg.KeyPrefix, log), func() { _ = client.Close() }, nil

	default:
		format, err := file.ParseFormat(cfg.Storage.Format, cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		store := file.NewStore(cfg.Storage.FilePath, format)
		log.Debug("using roster file", logger.String("path", store.Path()), logger.String("format", string(format)))
		return store, func() {}, nil
	}
}

// repl reads commands until exit, end of input or cancellation.
func repl(ctx context.Context, manager *logic.Manager, in io.Reader, r *cli.Renderer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	r.Lists(manager.Model())
	for {
		r.Prompt()
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}
		if line == "" {
			continue
		}

		res, err := manager.Execute(ctx, line)
		if err != nil {
			r.Error(err)
			if !shared.IsPersistence(err) {
				continue
			}
		}
		r.Result(res)
		if res.Exit {
			return nil
		}
		r.Lists(manager.Model())
	}
}
