package pipeline

import (
	"context"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/caocaocc/rules/internal/rules"
)

// compileArtifacts 把已落盘的 JSON/YAML 交给外部编译器生成二进制规则集。
// 编译器缺失或退出非零只告警，已经写好的文本产物不受影响。
func (d *Driver) compileArtifacts(ctx context.Context, base string, t rules.Type) {
	if bin := d.cfg.Compile.SingBox; bin != "" {
		d.runCompiler(ctx, bin,
			"rule-set", "compile", base+".json", "-o", base+".srs")
	}
	if bin := d.cfg.Compile.Mihomo; bin != "" {
		kind := "domain"
		if t == rules.TypeIPCIDR {
			kind = "ipcidr"
		}
		d.runCompiler(ctx, bin,
			"convert-ruleset", kind, "yaml", base+".yaml", base+".mrs")
	}
}

// runCompiler 以参数向量方式调用外部二进制，路径不经过 shell
func (d *Driver) runCompiler(ctx context.Context, bin string, args ...string) {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Warn("外部编译器不可用，跳过", "binary", bin)
		return
	}

	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Warn("外部编译失败", "binary", bin, "error", err, "output", string(out))
		return
	}
	log.Info("外部编译完成", "binary", bin, "output", args[len(args)-1])
}
