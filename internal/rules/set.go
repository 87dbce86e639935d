package rules

import "net/netip"

// Set 一个任务的规范规则集合。四个互不重叠的类别集合，
// 插入即去重，读取路径（sort.go）保证稳定排序。
type Set struct {
	domains  map[string]struct{}
	suffixes map[string]struct{}
	cidr4    map[string]netip.Prefix
	cidr6    map[string]netip.Prefix
}

// NewSet 创建空规则集合
func NewSet() *Set {
	return &Set{
		domains:  make(map[string]struct{}),
		suffixes: make(map[string]struct{}),
		cidr4:    make(map[string]netip.Prefix),
		cidr6:    make(map[string]netip.Prefix),
	}
}

// Add 插入一条规则，重复插入是无操作
func (s *Set) Add(e Entry) {
	switch e.Kind {
	case KindDomain:
		s.domains[e.Value] = struct{}{}
	case KindDomainSuffix:
		s.suffixes[e.Value] = struct{}{}
	case KindIPCIDR:
		if e.Family == FamilyIPv6 {
			s.cidr6[e.Value] = e.prefix
		} else {
			s.cidr4[e.Value] = e.prefix
		}
	}
}

// Merge 把一批条目折叠进集合。满足交换律与幂等性：
// 同一批条目合并两次与合并一次结果相同。
func (s *Set) Merge(entries []Entry) {
	for _, e := range entries {
		s.Add(e)
	}
}

// Len 返回所有类别的条目总数
func (s *Set) Len() int {
	return len(s.domains) + len(s.suffixes) + len(s.cidr4) + len(s.cidr6)
}

// Empty 判断集合是否没有任何条目
func (s *Set) Empty() bool {
	return s.Len() == 0
}
