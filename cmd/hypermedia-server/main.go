// Command hypermedia-server is a demo service whose pages are rendered by
// the hypermedia engine: an API index at / describes the note endpoints it
// serves, and every note is a microdata item.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-hypermedia/pkg/config"
	"github.com/goliatone/go-hypermedia/pkg/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("hypermedia-server", pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "configuration file (.yaml, .yml or .toml)")
	addr := flags.String("addr", "", "HTTP listen address")
	grace := flags.Duration("grace", 5*time.Second, "shutdown grace period")
	if err := flags.Parse(args); err != nil {
		return err
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.addr"] = *addr
	}
	cfg, err := config.Load(config.LoadOptions{File: *configFile, Overrides: overrides})
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	srv, err := newServer(cfg, newNoteStore(sampleNotes()...), logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("shutdown")
	}
	return nil
}
