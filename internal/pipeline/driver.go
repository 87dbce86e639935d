// Package pipeline 按任务驱动整条归一化流水线：
// 来源 -> 分类 -> 聚合 -> 排序 -> 编码 -> 落盘与外部编译。
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/caocaocc/rules/internal/fetch"
	"github.com/caocaocc/rules/internal/metrics"
	"github.com/caocaocc/rules/internal/rules"
	"github.com/caocaocc/rules/internal/storage"
	"github.com/caocaocc/rules/pkg/config"
)

// Driver 流水线驱动。任务之间相互独立，不共享可变状态；
// 规则集在单个任务内由单写者折叠。
type Driver struct {
	cfg        *config.Config
	fetcher    *fetch.Fetcher
	store      *storage.Store // 缓存关闭时为 nil
	classifier *rules.Classifier
	status     *Status
}

// NewDriver 创建驱动
func NewDriver(cfg *config.Config, fetcher *fetch.Fetcher, store *storage.Store) *Driver {
	return &Driver{
		cfg:        cfg,
		fetcher:    fetcher,
		store:      store,
		classifier: rules.NewClassifier(cfg.URLPathFallback()),
		status:     NewStatus(),
	}
}

// Status 返回运行状态跟踪器
func (d *Driver) Status() *Status {
	return d.status
}

// Run 按名字顺序执行全部任务。单个任务失败只记录日志，
// 不影响其他任务。
func (d *Driver) Run(ctx context.Context) error {
	if !d.status.TryStart() {
		return fmt.Errorf("已有生成在进行中")
	}
	defer d.status.Finish()

	names := make([]string, 0, len(d.cfg.Jobs))
	for name := range d.cfg.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := d.RunJob(ctx, name, d.cfg.Jobs[name]); err != nil {
			log.Error("任务失败", "job", name, "error", err)
		}
	}
	return nil
}

// RunOne 只执行指定名字的任务
func (d *Driver) RunOne(ctx context.Context, name string) error {
	job, ok := d.cfg.Jobs[name]
	if !ok {
		return fmt.Errorf("未知任务: %s", name)
	}
	return d.RunJob(ctx, name, job)
}

// RunJob 执行单个任务的完整状态机
func (d *Driver) RunJob(ctx context.Context, name string, job config.JobConfig) error {
	start := time.Now()
	js := JobStatus{Name: name, State: StateFetching, Sources: len(job.Sources)}
	d.status.setJob(js)

	fail := func(err error) error {
		js.State = StateFailed
		js.LastError = err.Error()
		js.Duration = time.Since(start)
		d.status.setJob(js)
		metrics.JobsCompleted.WithLabelValues("failed").Inc()
		return err
	}

	// Fetching: 并发抓取，单个来源失败降级为跳过
	contents, skipped := d.fetchAll(ctx, job.Sources)
	js.Skipped = skipped
	if skipped == len(job.Sources) {
		return fail(fmt.Errorf("任务 %s 的全部来源都不可用", name))
	}

	// Classifying: 逐行分类，畸形行丢弃
	js.State = StateClassifying
	d.status.setJob(js)
	documents := make([][]rules.Entry, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}
		documents = append(documents, d.classifyDocument(content))
	}

	// Aggregating: 单写者折叠进类别集合
	js.State = StateAggregating
	d.status.setJob(js)
	set := rules.NewSet()
	for _, entries := range documents {
		set.Merge(entries)
	}
	js.Entries = set.Len()

	if set.Empty() {
		log.Warn("任务没有产出任何条目，不写文件", "job", name)
		js.State = StateDone
		js.Duration = time.Since(start)
		d.status.setJob(js)
		metrics.JobsCompleted.WithLabelValues("empty").Inc()
		return nil
	}

	metrics.EntriesMerged.WithLabelValues("domain").Add(float64(len(set.Domains())))
	metrics.EntriesMerged.WithLabelValues("domain_suffix").Add(float64(len(set.Suffixes())))
	metrics.EntriesMerged.WithLabelValues("ip_cidr").Add(float64(len(set.CIDRs())))

	// Sorting + Encoding: 排序由集合的读取路径统一保证
	js.State = StateSorting
	d.status.setJob(js)
	js.State = StateEncoding
	d.status.setJob(js)

	files, err := d.writeOutputs(name, set, job)
	js.Files = files
	if err != nil {
		return fail(err)
	}

	d.compileArtifacts(ctx, d.basePath(name), rules.Type(job.Type))

	js.State = StateDone
	js.Duration = time.Since(start)
	d.status.setJob(js)
	metrics.JobsCompleted.WithLabelValues("done").Inc()
	log.Info("任务完成", "job", name, "entries", js.Entries,
		"skipped_sources", js.Skipped, "duration", js.Duration)
	return nil
}

// fetchAll 并发抓取全部来源。返回与 sources 对齐的内容切片
// （跳过的来源为 nil）以及跳过数。内联来源直接原样使用。
func (d *Driver) fetchAll(ctx context.Context, sources []string) ([][]byte, int) {
	contents := make([][]byte, len(sources))
	var skipped atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Fetch.Concurrency)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if !fetch.IsRemote(src) {
				contents[i] = []byte(src)
				return nil
			}

			begin := time.Now()
			body, err := d.fetcher.Fetch(gctx, src)
			metrics.FetchDuration.Observe(time.Since(begin).Seconds())
			if err == nil {
				metrics.SourcesFetched.WithLabelValues("success").Inc()
				if d.store != nil {
					if serr := d.store.Save(src, body); serr != nil {
						log.Warn("写入来源缓存失败", "url", src, "error", serr)
					}
				}
				contents[i] = body
				return nil
			}

			log.Warn("来源抓取失败", "url", src, "error", err)
			if d.store != nil {
				_ = d.store.RecordError(src, err.Error())
				if cs, cerr := d.store.Load(src); cerr == nil && cs != nil {
					log.Warn("回退到缓存副本", "url", src, "fetched_at", cs.FetchedAt)
					metrics.SourcesFetched.WithLabelValues("cache").Inc()
					contents[i] = cs.Content
					return nil
				}
			}
			metrics.SourcesFetched.WithLabelValues("error").Inc()
			skipped.Add(1)
			return nil
		})
	}

	_ = g.Wait()
	return contents, int(skipped.Load())
}

// classifyDocument 对一个来源文档逐行分类
func (d *Driver) classifyDocument(content []byte) []rules.Entry {
	var entries []rules.Entry

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, ok := d.classifier.Classify(line)
		if !ok {
			metrics.LinesProcessed.WithLabelValues("discarded").Inc()
			log.Debug("丢弃无法识别的行", "line", line)
			continue
		}
		metrics.LinesProcessed.WithLabelValues("classified").Inc()
		entries = append(entries, e)
	}
	return entries
}
