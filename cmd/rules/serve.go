package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/caocaocc/rules/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动状态服务，启动时生成一次，之后通过 POST /api/generate 按需触发",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, drv, cleanup, err := buildDriver()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := drv.Run(ctx); err != nil {
				log.Error("初始生成失败", "error", err)
			}
		}()

		r := chi.NewRouter()
		web.BindRoutes(r, drv, cfg.Monitoring.Enabled)

		srv := &http.Server{Addr: cfg.Monitoring.Listen, Handler: r}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("状态服务已启动", "listen", cfg.Monitoring.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
