package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bridge-lite/internal/api"
	"bridge-lite/internal/gateway"
	"bridge-lite/internal/ledger"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the practice WebSocket gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from BRIDGE_HTTP_ADDR)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := a.logger.Named("server")

	reg, err := a.registry()
	if err != nil {
		return err
	}
	ledgerService, ledgerMode, err := ledger.NewServiceFromConfig(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer ledgerService.Close()

	external, recognizer, err := a.external(ctx)
	if err != nil {
		return err
	}

	rec := api.NewRecommender(reg, external, ledgerService, a.cfg.ExternalTimeout, a.logger)
	mux := http.NewServeMux()
	api.NewHTTPHandler(rec, recognizer, a.cfg.DefaultSystem, log).RegisterRoutes(mux)
	ledger.NewHTTPHandler(ledgerService, a.cfg.LedgerRecentLimit, a.logger.Named("ledger")).RegisterRoutes(mux)
	gw := gateway.New(rec, a.cfg.DefaultSystem, a.logger.Named("gateway"))
	mux.HandleFunc("/ws", gw.HandleWebSocket)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.String("ledger", ledgerMode),
		zap.Strings("systems", reg.Names()),
		zap.String("default_system", a.cfg.DefaultSystem),
		zap.Bool("external", external != nil))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down", zap.Int("connections", gw.Count()))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
