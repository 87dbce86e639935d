package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caocaocc/rules/internal/rules"
	"github.com/caocaocc/rules/pkg/config"
	"github.com/caocaocc/rules/pkg/utils"
)

// basePath 任务输出基路径。任务名可以带子目录（如 folder2/geosite-apple-cn）。
func (d *Driver) basePath(name string) string {
	return filepath.Join(d.cfg.Output.Dir, name)
}

// writeOutputs 把规则集按任务类别对应的全部格式编码并落盘。
// 任一文件写入失败即视为该任务失败。
func (d *Driver) writeOutputs(name string, set *rules.Set, job config.JobConfig) ([]string, error) {
	t := rules.Type(job.Type)
	opts := rules.Options{Type: t, SplitIPv6: job.SplitIPFamilies()}

	base := d.basePath(name)
	if err := utils.EnsureDir(filepath.Dir(base)); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	var files []string
	for _, f := range rules.Formats(t) {
		data, err := rules.Encode(set, f, opts)
		if err != nil {
			return files, err
		}
		path := base + "." + string(f)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return files, fmt.Errorf("写入输出文件失败: %w", err)
		}
		files = append(files, path)
	}
	return files, nil
}
