// Package server parses server command flags and starts the webhook service.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/roster.space/internal/engine"
	"github.com/louisbranch/roster.space/internal/lock"
	entrypoint "github.com/louisbranch/roster.space/internal/platform/cmd"
	"github.com/louisbranch/roster.space/internal/session"
	"github.com/louisbranch/roster.space/internal/store"
	"github.com/louisbranch/roster.space/internal/store/memory"
	"github.com/louisbranch/roster.space/internal/store/sqlite"
	"github.com/louisbranch/roster.space/internal/transport/discord"
)

// purgeInterval is how often the shared store drops expired rows.
const purgeInterval = time.Minute

// shutdownTimeout bounds the HTTP server drain on exit.
const shutdownTimeout = 5 * time.Second

// Config holds server command configuration.
type Config struct {
	Port int    `env:"ROSTER_SPACE_PORT" envDefault:"8080"`
	Addr string `env:"ROSTER_SPACE_ADDR"`

	// StorePath selects the shared SQLite store; empty runs in-memory.
	StorePath string `env:"ROSTER_SPACE_STORE_PATH"`

	PublicKey       string `env:"ROSTER_SPACE_PUBLIC_KEY"`
	VerifySignature bool   `env:"ROSTER_SPACE_VERIFY_SIGNATURE" envDefault:"false"`
	BotToken        string `env:"ROSTER_SPACE_BOT_TOKEN"`
	APIBaseURL      string `env:"ROSTER_SPACE_API_BASE_URL"`

	LockTTL    time.Duration `env:"ROSTER_SPACE_LOCK_TTL" envDefault:"2s"`
	LockBudget time.Duration `env:"ROSTER_SPACE_LOCK_BUDGET" envDefault:"1500ms"`
	SessionTTL time.Duration `env:"ROSTER_SPACE_SESSION_TTL" envDefault:"2m"`
	FastBudget time.Duration `env:"ROSTER_SPACE_FAST_BUDGET" envDefault:"2s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The webhook server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The webhook server listen address (overrides -port)")
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "Path to the shared SQLite store (empty for in-memory)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the interactions webhook service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	locks := lock.New(kv,
		lock.WithTTL(cfg.LockTTL),
		lock.WithAcquireBudget(cfg.LockBudget),
	)
	pipeline := engine.NewPipeline(locks, kv)
	responder := engine.NewResponder(pipeline, cfg.FastBudget)
	sessions := session.New(kv, cfg.SessionTTL)

	verifier, err := discord.NewVerifier(cfg.PublicKey, cfg.VerifySignature)
	if err != nil {
		return fmt.Errorf("configure signature verification: %w", err)
	}
	var clientOpts []discord.ClientOption
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, discord.WithBaseURL(cfg.APIBaseURL))
	}
	client := discord.NewClient(cfg.BotToken, clientOpts...)

	handler := discord.NewHandler(verifier, responder, pipeline, sessions, client)

	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStore picks the backing store. A store path means a shared SQLite
// file (multi-instance deployments on one volume); otherwise state lives
// in process memory.
func openStore(ctx context.Context, cfg Config) (store.KV, func(), error) {
	if cfg.StorePath == "" {
		return memory.New(), func() {}, nil
	}
	s, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				if err := s.PurgeExpired(purgeCtx); err != nil {
					log.Printf("purge expired keys: %v", err)
				}
			}
		}
	}()

	return s, func() {
		stopPurge()
		if err := s.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}, nil
}
