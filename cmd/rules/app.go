package main

import (
	"fmt"

	"github.com/caocaocc/rules/internal/fetch"
	"github.com/caocaocc/rules/internal/pipeline"
	"github.com/caocaocc/rules/internal/storage"
	"github.com/caocaocc/rules/pkg/config"
	"github.com/caocaocc/rules/pkg/logger"
)

// buildDriver 完成公共装配：配置 -> 日志 -> 缓存 -> 抓取器 -> 驱动
func buildDriver() (*config.Config, *pipeline.Driver, func(), error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {}
	var store *storage.Store
	if cfg.Cache.Enabled {
		store, err = storage.Open(cfg.Cache.SQLiteFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("打开来源缓存失败: %w", err)
		}
		cleanup = func() { store.Close() }
	}

	fetcher := fetch.NewFetcher(fetch.Options{
		Timeout:      cfg.GetFetchTimeout(),
		RetryCount:   cfg.Fetch.RetryCount,
		RetryBackoff: cfg.GetRetryBackoff(),
		UserAgent:    cfg.Fetch.UserAgent,
	})

	return cfg, pipeline.NewDriver(cfg, fetcher, store), cleanup, nil
}
