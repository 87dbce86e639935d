package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/caocaocc/rules/internal/web"
)

var jobName string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "执行全部（或指定）任务并生成规则文件",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, drv, cleanup, err := buildDriver()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// 生成期间可选地暴露指标端口，便于观察长任务
		if cfg.Monitoring.Enabled {
			r := chi.NewRouter()
			web.BindRoutes(r, drv, true)
			go func() {
				if err := http.ListenAndServe(cfg.Monitoring.Listen, r); err != nil {
					log.Error("监控端口启动失败", "listen", cfg.Monitoring.Listen, "error", err)
				}
			}()
		}

		if jobName != "" {
			return drv.RunOne(ctx, jobName)
		}
		return drv.Run(ctx)
	},
}

func init() {
	generateCmd.Flags().StringVar(&jobName, "job", "", "只执行指定名字的任务")
	rootCmd.AddCommand(generateCmd)
}
