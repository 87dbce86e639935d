// Package metrics 定义流水线的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourcesFetched 按结果统计来源抓取次数，result 取 success/cache/error
	SourcesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_source_fetch_total",
		Help: "按结果统计的来源抓取次数",
	}, []string{"result"})

	// FetchDuration 来源抓取耗时
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rules_source_fetch_duration_seconds",
		Help:    "来源抓取耗时",
		Buckets: prometheus.DefBuckets,
	})

	// LinesProcessed 按结果统计处理过的行数，result 取 classified/discarded
	LinesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_lines_total",
		Help: "按结果统计的规则行数",
	}, []string{"result"})

	// EntriesMerged 按类别统计聚合进规则集的条目数
	EntriesMerged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_entries_total",
		Help: "按类别统计的聚合条目数",
	}, []string{"category"})

	// JobsCompleted 按结果统计任务数，result 取 done/empty/failed
	JobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rules_jobs_total",
		Help: "按结果统计的任务数",
	}, []string{"result"})
)
