package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMergeIdempotent(t *testing.T) {
	entries := []Entry{
		NewDomain("a.com"),
		NewDomainSuffix("b.org"),
		mustCIDR(t, "10.0.0.0/8"),
	}

	once := NewSet()
	once.Merge(entries)

	twice := NewSet()
	twice.Merge(entries)
	twice.Merge(entries)

	assert.Equal(t, once.Domains(), twice.Domains())
	assert.Equal(t, once.Suffixes(), twice.Suffixes())
	assert.Equal(t, once.CIDRs(), twice.CIDRs())
	assert.Equal(t, 3, twice.Len())
}

func TestSetDuplicateAcrossSources(t *testing.T) {
	// 两个来源都声明 DOMAIN,a.com，最终只出现一次
	set := NewSet()
	set.Merge([]Entry{NewDomain("a.com"), NewDomain("b.com")})
	set.Merge([]Entry{NewDomain("a.com")})

	assert.Equal(t, []string{"a.com", "b.com"}, set.Domains())
}

func TestSetCategoriesDisjoint(t *testing.T) {
	// 同一个值被分别声明为精确域名与后缀时，两个类别各保留一份，
	// 不做跨类别推导
	set := NewSet()
	set.Add(NewDomain("example.com"))
	set.Add(NewDomainSuffix("example.com"))

	assert.Equal(t, []string{"example.com"}, set.Domains())
	assert.Equal(t, []string{"example.com"}, set.Suffixes())
	assert.Equal(t, 2, set.Len())
}

func TestSetCIDROrdering(t *testing.T) {
	set := NewSet()
	for _, s := range []string{"192.168.0.0/16", "10.0.0.0/8", "10.0.0.0/16", "2001:db8::/32", "::1/128"} {
		p, ok := ParseCIDR(s)
		require.True(t, ok)
		set.Add(NewIPCIDR(p))
	}

	// 族内按 (网络地址, 前缀长度) 升序，合并视图 v4 在前
	assert.Equal(t, []string{"10.0.0.0/8", "10.0.0.0/16", "192.168.0.0/16"}, set.CIDR4())
	assert.Equal(t, []string{"::1/128", "2001:db8::/32"}, set.CIDR6())
	assert.Equal(t, []string{"10.0.0.0/8", "10.0.0.0/16", "192.168.0.0/16", "::1/128", "2001:db8::/32"}, set.CIDRs())
}

func TestSetEmpty(t *testing.T) {
	set := NewSet()
	assert.True(t, set.Empty())
	set.Add(NewDomain("a.com"))
	assert.False(t, set.Empty())
}
