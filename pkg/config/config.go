// Package config 负责加载与校验应用配置。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// JobConfig 单个任务：一个输出基名对应一组来源与类别
type JobConfig struct {
	// Type 任务类别：domain 或 ip_cidr，决定运行哪些编码器
	Type string `yaml:"type"`
	// SplitIPCIDR6 JSON 输出里 v4/v6 是否拆成 ip_cidr / ip_cidr6 两个键。
	// 省略时默认拆分（与旧版 geoip 生成器一致）。
	SplitIPCIDR6 *bool `yaml:"split_ip_cidr6"`
	// Sources 来源列表。http:// 或 https:// 开头的按 URL 抓取，
	// 其余按内联规则文本逐行处理。
	Sources []string `yaml:"sources"`
}

// SplitIPFamilies 返回 JSON 是否拆分 v4/v6 键
func (j JobConfig) SplitIPFamilies() bool {
	if j.SplitIPCIDR6 == nil {
		return true
	}
	return *j.SplitIPCIDR6
}

// Config 应用配置结构
type Config struct {
	// 基础配置
	App struct {
		Name  string `yaml:"name"`
		Debug bool   `yaml:"debug"`
	} `yaml:"app"`

	// 日志配置
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	// 输出配置
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	// 抓取配置
	Fetch struct {
		Timeout      int    `yaml:"timeout"`       // 秒
		RetryCount   int    `yaml:"retry_count"`   // 重试次数（不含首次）
		RetryBackoff int    `yaml:"retry_backoff"` // 首次退避秒数，之后指数翻倍
		UserAgent    string `yaml:"user_agent"`
		Concurrency  int    `yaml:"concurrency"` // 单任务并发抓取上限
	} `yaml:"fetch"`

	// 来源缓存配置
	Cache struct {
		Enabled    bool   `yaml:"enabled"`
		SQLiteFile string `yaml:"sqlite_file"`
	} `yaml:"cache"`

	// 监控配置
	Monitoring struct {
		Enabled bool   `yaml:"enabled"`
		Listen  string `yaml:"listen"`
	} `yaml:"monitoring"`

	// 外部编译器配置，路径留空则跳过对应编译
	Compile struct {
		SingBox string `yaml:"sing_box"`
		Mihomo  string `yaml:"mihomo"`
	} `yaml:"compile"`

	// 分类行为配置
	Classify struct {
		// URLPathFallback 见 internal/rules.Classifier，默认开启
		URLPathFallback *bool `yaml:"url_path_fallback"`
	} `yaml:"classify"`

	// 任务表：输出基名 -> 任务配置
	Jobs map[string]JobConfig `yaml:"jobs"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	setDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(config *Config) {
	if config.App.Name == "" {
		config.App.Name = "rules"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.App.Debug {
		config.Logging.Level = "debug"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "rule-set"
	}

	if config.Fetch.Timeout <= 0 {
		config.Fetch.Timeout = 30
	}
	if config.Fetch.RetryCount <= 0 {
		config.Fetch.RetryCount = 3
	}
	if config.Fetch.RetryBackoff <= 0 {
		config.Fetch.RetryBackoff = 2
	}
	if config.Fetch.UserAgent == "" {
		config.Fetch.UserAgent = "rules/1.0"
	}
	if config.Fetch.Concurrency <= 0 {
		config.Fetch.Concurrency = 8
	}

	if config.Cache.SQLiteFile == "" {
		config.Cache.SQLiteFile = "data/sources.db"
	}

	if config.Monitoring.Listen == "" {
		config.Monitoring.Listen = ":9090"
	}
}

// validateConfig 验证配置。任务类别非法属于启动期致命错误。
func validateConfig(config *Config) error {
	if len(config.Jobs) == 0 {
		return fmt.Errorf("至少需要配置一个任务")
	}

	for name, job := range config.Jobs {
		switch job.Type {
		case "domain", "ip_cidr":
		default:
			return fmt.Errorf("任务 %s 的类别无效: %q", name, job.Type)
		}
		if len(job.Sources) == 0 {
			return fmt.Errorf("任务 %s 没有配置来源", name)
		}
	}

	return nil
}

// GetFetchTimeout 获取抓取超时
func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.Fetch.Timeout) * time.Second
}

// GetRetryBackoff 获取首次重试退避时长
func (c *Config) GetRetryBackoff() time.Duration {
	return time.Duration(c.Fetch.RetryBackoff) * time.Second
}

// URLPathFallback 获取 URL path 回退开关，默认开启
func (c *Config) URLPathFallback() bool {
	if c.Classify.URLPathFallback == nil {
		return true
	}
	return *c.Classify.URLPathFallback
}
