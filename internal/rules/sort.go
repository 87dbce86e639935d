package rules

import (
	"net/netip"
	"sort"
)

// Domains 返回字典序排列的精确域名
func (s *Set) Domains() []string {
	return sortedKeys(s.domains)
}

// Suffixes 返回字典序排列的域名后缀
func (s *Set) Suffixes() []string {
	return sortedKeys(s.suffixes)
}

// CIDR4 返回按 (网络地址, 前缀长度) 排列的 IPv4 地址块
func (s *Set) CIDR4() []string {
	return sortedPrefixes(s.cidr4)
}

// CIDR6 返回按 (网络地址, 前缀长度) 排列的 IPv6 地址块
func (s *Set) CIDR6() []string {
	return sortedPrefixes(s.cidr6)
}

// CIDRs 返回全部地址块，IPv4 在前
func (s *Set) CIDRs() []string {
	return append(s.CIDR4(), s.CIDR6()...)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedPrefixes(m map[string]netip.Prefix) []string {
	prefixes := make([]netip.Prefix, 0, len(m))
	for _, p := range m {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if c := prefixes[i].Addr().Compare(prefixes[j].Addr()); c != 0 {
			return c < 0
		}
		return prefixes[i].Bits() < prefixes[j].Bits()
	})
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p.String()
	}
	return out
}
