package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clck-dev/clck/internal/config"
	"github.com/clck-dev/clck/internal/logger"
	"github.com/clck-dev/clck/internal/mailbox"
	"github.com/clck-dev/clck/internal/registry"
	"github.com/clck-dev/clck/internal/shell"
	"github.com/clck-dev/clck/internal/slug"
	"github.com/clck-dev/clck/internal/sweeper"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "clck",
		Short:   "In-memory URL shortener with click limits, TTL expiration and owner notifications",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(cfg.Log)
	log.Info("starting clck",
		"environment", cfg.App.Environment,
		"ttl", cfg.Link.TTL.String(),
		"sweep_interval", cfg.Sweep.Interval.String())

	mb := mailbox.New()
	store := registry.New(registry.Config{
		TTL:       cfg.Link.TTL,
		ShortBase: cfg.Link.ShortBase,
	}, slug.New(), mb)

	sw := sweeper.New(sweeper.Config{
		Interval:     cfg.Sweep.Interval,
		InitialDelay: cfg.Sweep.InitialDelay,
	}, store, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeperDone := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(sweeperDone)
	}()

	fmt.Printf("Default TTL: %v (override with CLCK_TTL_SECONDS)\n", cfg.Link.TTL)

	sh := shell.New(store, mb, cfg.Link.ShortBase, log, os.Stdin, os.Stdout)
	shellDone := make(chan struct{})
	go func() {
		sh.Run()
		close(shellDone)
	}()

	select {
	case <-shellDone:
		log.Info("console session ended")
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// Cancel the sweeper and give an in-flight run a moment to finish.
	stop()
	select {
	case <-sweeperDone:
	case <-time.After(5 * time.Second):
		log.Warn("sweeper did not stop in time")
	}

	log.Info("stopped", "links", store.Len())
	return nil
}
