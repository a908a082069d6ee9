package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/banking-ledger/internal/config"
	"github.com/sheikh-saqib/banking-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/banking-ledger/internal/interfaces"
	"github.com/sheikh-saqib/banking-ledger/internal/ledger"
	"github.com/sheikh-saqib/banking-ledger/internal/menu"
	"github.com/sheikh-saqib/banking-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/banking-ledger/internal/storage/postgres"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatalf("log level: %v", err)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank := ledger.NewBank(
		ledger.WithBranch(cfg.Account.Branch),
		ledger.WithLimits(ledger.Limits{
			PerWithdrawal:    cfg.Account.PerWithdrawal,
			DailyWithdrawals: cfg.Account.DailyWithdrawals,
		}),
	)

	journal, closeJournal, err := buildJournal(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup journal: %v", err)
	}
	defer closeJournal()

	opts := []ledger.LedgerOption{ledger.WithLogger(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer pub.Close()
		opts = append(opts, ledger.WithPublisher(pub, cfg.Kafka.Topic))
		logger.Infof("publishing movements to kafka topic %s", cfg.Kafka.Topic)
	}
	l := ledger.NewLedger(bank, journal, opts...)

	done := make(chan error, 1)
	go func() {
		done <- menu.New(l, os.Stdin, os.Stdout).Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Errorf("menu: %v", err)
		}
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		logger.Info("interrupted, shutting down")
	}
}

func buildJournal(ctx context.Context, cfg config.Config, logger *logrus.Logger) (interfaces.TransactionJournal, func(), error) {
	switch cfg.Journal.Driver {
	case "postgres":
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := postgres.Open(openCtx, cfg.Journal.DSN)
		if err != nil {
			return nil, nil, err
		}
		j := postgres.NewPostgresJournal(db)
		if err := j.Init(openCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("mirroring movements to postgres journal")
		return j, func() { db.Close() }, nil
	default:
		return memory.NewMemoryJournal(), func() {}, nil
	}
}
