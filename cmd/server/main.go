package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	ballotstore "github.com/D00256764/u-vote-sub002/internal/ballot/store"
	"github.com/D00256764/u-vote-sub002/internal/bridge"
	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/internal/election"
	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/internal/identity/lockout"
	identitystore "github.com/D00256764/u-vote-sub002/internal/identity/store"
	"github.com/D00256764/u-vote-sub002/internal/jwtauth"
	"github.com/D00256764/u-vote-sub002/internal/keystore"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	ledgerkafka "github.com/D00256764/u-vote-sub002/internal/ledger/kafka"
	ledgerstore "github.com/D00256764/u-vote-sub002/internal/ledger/store"
	"github.com/D00256764/u-vote-sub002/internal/platform/config"
	"github.com/D00256764/u-vote-sub002/internal/platform/httpserver"
	"github.com/D00256764/u-vote-sub002/internal/platform/logger"
	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
	pgplatform "github.com/D00256764/u-vote-sub002/internal/platform/postgres"
	redisplatform "github.com/D00256764/u-vote-sub002/internal/platform/redis"
	httptransport "github.com/D00256764/u-vote-sub002/internal/transport/http"
)

const auditInboxBuffer = 256

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db            *sql.DB
		identityStore identityStoreIface
		ballotStore   ballotStoreIface
		ledgerStore   ledger.Store
		gate          election.Gate
		txRunner      bridge.Tx
		health        []httptransport.HealthChecker
	)

	if cfg.PostgresURL != "" {
		var err error
		db, err = pgplatform.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := pgplatform.EnsureSchema(db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		identityStore = identitystore.NewPostgres(db)
		ballotStore = ballotstore.NewPostgres(db)
		ledgerStore = ledgerstore.NewPostgres(db)
		gate = election.NewPostgresGate(db)
		txRunner = newPostgresTx(db)
		health = append(health, dbHealth{db})
	} else {
		log.Warn("no postgres url configured, using in-memory stores")
		identityStore = identitystore.NewMemory()
		ballotStore = ballotstore.NewMemory()
		ledgerStore = ledgerstore.NewMemory()
		gate = election.NewStaticGate()
		txRunner = bridge.NewMemoryTx()
	}

	var attempts lockout.Store
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		attempts = lockout.NewRedisStore(redisClient.Client, cfg.MFALockoutWindow)
		health = append(health, redisClient)
	} else {
		attempts = lockout.NewMemoryStore(cfg.MFALockoutWindow)
	}

	var mirror ledger.Mirror
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaMirror, err := ledgerkafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka mirror setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kafkaMirror.Close(closeCtx)
		}()
		mirror = kafkaMirror
	}

	keys, err := keystore.NewDerivingProvider(cfg.BallotKeyMaster)
	if err != nil {
		log.Error("keystore setup failed", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(ledgerStore, mirror, log, m)
	auditPub := ledger.NewPublisher(auditInboxBuffer, log)
	auditWorker := ledger.NewWorker(ledgerSvc, auditPub.Inbox(), log)

	identitySvc := identity.NewService(identityStore, identityStore, gate, attempts, auditPub, log, m, cfg.MFAMaxAttempts)
	bridgeSvc := bridge.NewService(identityStore, ballotStore, txRunner, gate, auditPub, log, m, cfg.BallotAuthTTL)
	ballotSvc := ballot.NewService(ballotStore, ballotStore, ballotStore, txRunner, gate, keys, auditPub, log, m)
	verifier := chain.NewVerifier(ballotStore, ledgerStore, log, m)

	jwtSvc := jwtauth.NewService(cfg.JWTSigningKey, "uvote", "uvote-operators")

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Voting:    httptransport.NewVotingHandler(identitySvc, bridgeSvc, ballotSvc, log),
		Ledger:    httptransport.NewLedgerHandler(ledgerSvc, verifier, log),
		Validator: jwtauth.NewServiceAdapter(jwtSvc),
		Logger:    log,
		Metrics:   m,
		Health:    health,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// identityStoreIface is the union of capabilities main hands out; each service
// receives only the narrow interface it declares.
type identityStoreIface interface {
	identity.TokenReader
	identity.VoterReader
	bridge.IdentityConsumer
}

type ballotStoreIface interface {
	bridge.AuthorizationMinter
	ballot.AuthorizationConsumer
	ballot.Appender
	ballot.ReceiptReader
	chain.BallotReader
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
