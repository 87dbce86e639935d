package rules

import (
	"net/netip"
	"regexp"
	"strings"
)

// domainPattern 域名格式：若干 [A-Za-z0-9] 标签（内部可含连字符，
// 长度 ≤ 63），点分隔，顶级标签至少两个字母。
var domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// NormalizeDomain 域名规范化：去空白、小写、去末尾点
func NormalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSuffix(s, ".")
}

// ValidDomain 判断 s 是否为合法域名。纯函数，任何输入都只返回真假。
func ValidDomain(s string) bool {
	return domainPattern.MatchString(s)
}

// ParseCIDR 解析 IPv4/IPv6 网络字面量，前缀可省略（v4 补 /32，v6 补 /128）。
// 返回规范化（主机位清零）的地址块。纯函数，任何输入都不会 panic。
func ParseCIDR(s string) (netip.Prefix, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Prefix{}, false
	}
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil || p.Addr().Zone() != "" {
			return netip.Prefix{}, false
		}
		return p.Masked(), true
	}
	addr, err := netip.ParseAddr(s)
	if err != nil || addr.Zone() != "" {
		return netip.Prefix{}, false
	}
	// 无前缀时按单地址块处理
	return netip.PrefixFrom(addr, addr.BitLen()), true
}
