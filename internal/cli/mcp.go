package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ppiankov/alertflow/internal/feed"
	"github.com/ppiankov/alertflow/internal/lifecycle"
	alertmcp "github.com/ppiankov/alertflow/internal/mcp"
)

var mcpMetricsAddr string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs alertflow as an MCP (Model Context Protocol) server over stdio.\nExposes every lifecycle operation and read as a tool, acting as the current user.",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e, err := openEnv(cmd, lifecycle.WithMetrics(lifecycle.NewMetrics(reg)))
	if err != nil {
		return err
	}
	defer e.Close()

	actor, err := e.actor()
	if err != nil {
		return err
	}

	cfg := alertmcp.Config{
		Controller: e.ctrl,
		Actor:      actor,
		Settings:   e.cfg,
		Version:    version,
		Logger:     e.log,
	}
	if e.cfg.FeedPath != "" {
		cfg.Feed = feed.File{Path: e.cfg.FeedPath}
	}

	srv, err := alertmcp.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		e.log.Info().Msg("shutting down MCP server")
		cancel()
	}()

	if mcpMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		httpSrv := &http.Server{Addr: mcpMetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			e.log.Info().Str("addr", mcpMetricsAddr).Msg("serving metrics")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	return srv.Run(ctx)
}
