// Package web 提供运行状态的 HTTP 接口与 Prometheus 指标端点。
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caocaocc/rules/internal/pipeline"
)

type Api struct {
	drv *pipeline.Driver
}

// BindRoutes 挂载状态 API 路由
func BindRoutes(r *chi.Mux, drv *pipeline.Driver, metricsEnabled bool) {
	api := &Api{drv: drv}

	// 中间件
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Timeout(10*time.Second))

	r.Get("/api/health", api.health)
	r.Get("/api/status", api.getStatus)
	r.Post("/api/generate", api.generate)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
}

func (a *Api) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (a *Api) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.drv.Status().Snapshot())
}

// generate 按需触发一次生成。同一时刻只允许一次运行。
func (a *Api) generate(w http.ResponseWriter, r *http.Request) {
	if a.drv.Status().Running() {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error": "已有生成在进行中",
		})
		return
	}

	go func() {
		if err := a.drv.Run(context.Background()); err != nil {
			log.Error("按需生成失败", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "started",
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("写入响应失败", "error", err)
	}
}
