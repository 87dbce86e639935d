// Package fetch 负责从远端拉取来源文档。
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// IsRemote 判断来源是否为需要抓取的 URL，否则按内联规则文本处理
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Options 抓取参数
type Options struct {
	Timeout      time.Duration
	RetryCount   int           // 失败后的重试次数
	RetryBackoff time.Duration // 首次退避，之后指数翻倍
	UserAgent    string
}

// Fetcher HTTP 来源抓取器，带超时与有限的指数退避重试。
// 抓取失败只影响对应来源，调用方负责降级处理。
type Fetcher struct {
	client *http.Client
	opts   Options
}

// NewFetcher 创建抓取器
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "rules/1.0"
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Fetch 抓取一个 URL 的完整内容。网络错误与 5xx 会重试，
// 4xx 不重试。重试耗尽后返回最后一次错误。
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := f.opts.RetryBackoff

	for attempt := 0; attempt <= f.opts.RetryCount; attempt++ {
		if attempt > 0 {
			log.Debug("重试抓取", "url", url, "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return nil, resp.StatusCode >= 500, err
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
