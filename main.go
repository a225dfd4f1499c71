package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to a config file (json, yaml or toml)")
	issueToken := flag.String("issue-token", "", "Print a spectator token for this subject and exit")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash for spectator.passwordHash and exit")
	noColor := flag.Bool("no-color", false, "Disable colored log output")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		auth := NewAuth(cfg.Spectator.Secret, "", cfg.Spectator.TokenTTL)
		if auth == nil {
			fmt.Fprintln(os.Stderr, "spectator.secret is not set")
			os.Exit(1)
		}
		token, err := auth.IssueToken(*issueToken)
		if err != nil {
			fmt.Fprintln(os.Stderr, "issue token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log := NewLogger(os.Stderr, cfg.LogLevel, *noColor)
	log.Info().Str("loglevel", log.GetLevel().String()).Msg("logging set up")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		stop()
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("bye")
}

// run wires every component together and blocks until ctx is cancelled or
// one of them fails
func run(ctx context.Context, cfg *Config, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	opts := ServerOptions{
		TickInterval: cfg.TickInterval,
		WriteTimeout: cfg.WriteTimeout,
		MaxConns:     cfg.MaxConnections,
	}

	var db *DB
	if cfg.AnalyticsPath != "" {
		db, err = OpenDB(cfg.AnalyticsPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("open analytics db: %w", err)
		}
		defer db.Close()
		analytics := NewAnalytics(db, log)
		defer analytics.Stop()
		opts.Recorder = analytics
		log.Info().Str("path", cfg.AnalyticsPath).Str("run", analytics.RunID()).Msg("recording match events")
	}

	var debug *DebugSink
	if cfg.Game.DebugLines {
		debug = NewDebugSink()
	}
	game := NewGame(cfg.Game, nil, debug)

	hub := NewHub(cfg.Spectator.Max, log)
	if cfg.HTTP.Listen != "" {
		opts.Spectators = hub
	}

	srv := NewServer(ln, game, opts, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })

	if cfg.HTTP.Listen != "" {
		auth := NewAuth(cfg.Spectator.Secret, cfg.Spectator.PasswordHash, cfg.Spectator.TokenTTL)
		httpSrv := &http.Server{
			Addr:              cfg.HTTP.Listen,
			Handler:           SetupRoutes(hub, auth, db, cfg.HTTP.PublicURL, log),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error { return hub.Run(ctx) })
		g.Go(func() error {
			log.Info().Str("addr", cfg.HTTP.Listen).Bool("auth", auth != nil).Msg("http listening")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(sctx)
		})
	}

	return g.Wait()
}
