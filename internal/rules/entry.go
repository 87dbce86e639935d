// Package rules 实现规则归一化核心：行分类、校验、聚合、排序与多格式编码。
package rules

import "net/netip"

// Kind 规则条目类型
type Kind int

const (
	KindDomain       Kind = iota // 精确域名
	KindDomainSuffix             // 域名后缀（含所有子域名）
	KindIPCIDR                   // IP 地址块
)

// String 返回规则类型的字符串表示
func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindDomainSuffix:
		return "domain_suffix"
	case KindIPCIDR:
		return "ip_cidr"
	default:
		return "unknown"
	}
}

// Family IP 协议族，仅对 KindIPCIDR 有意义
type Family int

const (
	FamilyNone Family = iota
	FamilyIPv4
	FamilyIPv6
)

// Entry 单条规则。Value 永远保存校验并规范化之后的形式：
// 小写、无前导 "."/"+."、无末尾点、CIDR 带显式前缀长度。
type Entry struct {
	Kind   Kind
	Value  string
	Family Family
	prefix netip.Prefix // 仅 KindIPCIDR 填充
}

// NewDomain 构造精确域名条目，v 必须已通过校验
func NewDomain(v string) Entry {
	return Entry{Kind: KindDomain, Value: v}
}

// NewDomainSuffix 构造域名后缀条目，v 必须已通过校验
func NewDomainSuffix(v string) Entry {
	return Entry{Kind: KindDomainSuffix, Value: v}
}

// NewIPCIDR 构造 IP 地址块条目，协议族按是否为 IPv6 地址推导
func NewIPCIDR(p netip.Prefix) Entry {
	family := FamilyIPv4
	if p.Addr().Is6() {
		family = FamilyIPv6
	}
	return Entry{Kind: KindIPCIDR, Value: p.String(), Family: family, prefix: p}
}

// Prefix 返回 CIDR 条目的地址块
func (e Entry) Prefix() netip.Prefix {
	return e.prefix
}
