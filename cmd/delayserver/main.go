// File: cmd/delayserver/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// delayserver is the collaborator the async client talks to: it answers
// GET /{delay}/{message} with message after delay milliseconds.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		addr  string
		debug bool
	)
	root := &cobra.Command{
		Use:   "delayserver",
		Short: "HTTP server that delays each response by a per-request amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
			return run(cmd.Context(), log, addr)
		},
	}
	root.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("GET /{delay}/{message}", delayHandler(log))

	srv := &http.Server{Addr: addr, Handler: mux}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("delayserver: listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("delayserver: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// delayHandler sleeps for the requested delay, then writes the message.
func delayHandler(log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms, err := strconv.Atoi(r.PathValue("delay"))
		if err != nil || ms < 0 {
			http.Error(w, "delay must be a non-negative integer", http.StatusBadRequest)
			return
		}
		msg := r.PathValue("message")
		log.Debug().Int("delay_ms", ms).Str("message", msg).Msg("delayserver: request")
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, msg)
	})
}
