package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type 任务类别，决定运行哪些编码器以及 JSON 键名
type Type string

const (
	TypeDomain Type = "domain"
	TypeIPCIDR Type = "ip_cidr"
)

// Valid 判断任务类别是否受支持
func (t Type) Valid() bool {
	return t == TypeDomain || t == TypeIPCIDR
}

// Format 输出格式，同时作为文件扩展名
type Format string

const (
	FormatJSON    Format = "json"
	FormatList    Format = "list"
	FormatText    Format = "txt"
	FormatYAML    Format = "yaml"
	FormatSnippet Format = "snippet"
)

// Formats 返回某任务类别要产出的格式。snippet 仅域名任务产出。
func Formats(t Type) []Format {
	if t == TypeDomain {
		return []Format{FormatJSON, FormatList, FormatText, FormatYAML, FormatSnippet}
	}
	return []Format{FormatJSON, FormatList, FormatText, FormatYAML}
}

// Options 编码选项
type Options struct {
	Type Type
	// SplitIPv6 为真时 JSON 里 v4/v6 分别写入 ip_cidr 与 ip_cidr6，
	// 否则合并写入 ip_cidr
	SplitIPv6 bool
}

// Encode 把规则集合按指定格式编码为字节。排序完全由集合的
// 读取路径决定，同一集合任何两次编码都产生逐字节相同的输出。
func Encode(s *Set, f Format, o Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(s, o)
	case FormatList:
		return encodeList(s), nil
	case FormatText:
		return encodeText(s), nil
	case FormatYAML:
		return encodeYAML(s), nil
	case FormatSnippet:
		return encodeSnippet(s), nil
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", f)
	}
}

// headlessRule sing-box 源规则集的规则对象，空类别省略
type headlessRule struct {
	Domain       []string `json:"domain,omitempty"`
	DomainSuffix []string `json:"domain_suffix,omitempty"`
	IPCIDR       []string `json:"ip_cidr,omitempty"`
	IPCIDR6      []string `json:"ip_cidr6,omitempty"`
}

type ruleSetDocument struct {
	Version int            `json:"version"`
	Rules   []headlessRule `json:"rules"`
}

func encodeJSON(s *Set, o Options) ([]byte, error) {
	var rule headlessRule
	switch o.Type {
	case TypeIPCIDR:
		if o.SplitIPv6 {
			rule.IPCIDR = s.CIDR4()
			rule.IPCIDR6 = s.CIDR6()
		} else {
			rule.IPCIDR = s.CIDRs()
		}
	default:
		rule.Domain = s.Domains()
		rule.DomainSuffix = s.Suffixes()
	}
	doc := ruleSetDocument{Version: 1, Rules: []headlessRule{rule}}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// encodeList 经典 list 格式：域名在前，后缀其次，地址块最后（v4 先于 v6）
func encodeList(s *Set) []byte {
	var b strings.Builder
	for _, d := range s.Domains() {
		b.WriteString("DOMAIN,")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	for _, d := range s.Suffixes() {
		b.WriteString("DOMAIN-SUFFIX,")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	for _, c := range s.CIDR4() {
		b.WriteString("IP-CIDR,")
		b.WriteString(c)
		b.WriteByte('\n')
	}
	for _, c := range s.CIDR6() {
		b.WriteString("IP-CIDR6,")
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// encodeText 纯文本：裸值一行一条，后缀加 "+." 前缀
func encodeText(s *Set) []byte {
	var b strings.Builder
	for _, d := range s.Domains() {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	for _, d := range s.Suffixes() {
		b.WriteString("+.")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	for _, c := range s.CIDRs() {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// encodeYAML mihomo payload 格式。下游约定的是这组固定的引号写法，
// 直接按字面拼出，不走 YAML 序列化器。
func encodeYAML(s *Set) []byte {
	var b strings.Builder
	b.WriteString("payload:\n")
	for _, d := range s.Domains() {
		fmt.Fprintf(&b, "  - '%s'\n", d)
	}
	for _, d := range s.Suffixes() {
		fmt.Fprintf(&b, "  - '+.%s'\n", d)
	}
	for _, c := range s.CIDRs() {
		fmt.Fprintf(&b, "  - '%s'\n", c)
	}
	return []byte(b.String())
}

// encodeSnippet Surge 模块片段，只含域名类条目
func encodeSnippet(s *Set) []byte {
	var b strings.Builder
	for _, d := range s.Domains() {
		fmt.Fprintf(&b, "host, %s\n", d)
	}
	for _, d := range s.Suffixes() {
		fmt.Fprintf(&b, "host-suffix, %s\n", d)
	}
	return []byte(b.String())
}
