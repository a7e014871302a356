package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/arbor/internal/demoapi"
)

// NewDemoCmd creates the demo command.
func NewDemoCmd() *cobra.Command {
	var (
		addr     string
		start    int64
		step     int64
		interval int
		language string
		debug    bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a local demo backend",
		Long: `Serve a demo backend whose counter grows on every poll. Point the viewer at
it with --api-url or ARBOR_API_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			server := demoapi.New(demoapi.Options{
				Start:           start,
				Step:            step,
				PollingInterval: interval,
				Language:        language,
				DebugMode:       debug,
			})
			return serveDemo(cmd.Context(), addr, server, logger, func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "demo backend at %s\n  arbor --api-url %s\n", url, url)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "127.0.0.1:8787", "listen address")
	flags.Int64Var(&start, "start", 0, "starting counter value")
	flags.Int64Var(&step, "step", 3, "counter growth per poll")
	flags.IntVar(&interval, "interval", 5, "pollingInterval reported to viewers, in seconds")
	flags.StringVar(&language, "language", "ja", "language reported to viewers")
	flags.BoolVar(&debug, "debug", false, "enable the viewer's debug panel")
	return cmd
}

// serveDemo listens on addr until ctx is cancelled.
func serveDemo(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, ready func(url string)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	url := "http://" + ln.Addr().String()
	logger.Info("demo backend listening", "url", url)
	if ready != nil {
		ready(url)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
