package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(true)

	tests := []struct {
		name   string
		line   string
		want   Entry
		wantOK bool
	}{
		{"domain line", "DOMAIN,example.com", NewDomain("example.com"), true},
		{"domain line normalized", "DOMAIN,Example.COM.", NewDomain("example.com"), true},
		{"domain line invalid claims the line", "DOMAIN,not a domain", Entry{}, false},
		{"suffix line", "DOMAIN-SUFFIX,cdn.example.net", NewDomainSuffix("cdn.example.net"), true},
		{"suffix line invalid", "DOMAIN-SUFFIX,!!", Entry{}, false},
		{"cidr line", "IP-CIDR,10.0.0.0/8", mustCIDR(t, "10.0.0.0/8"), true},
		{"cidr line bare address gets /32", "IP-CIDR,8.8.8.8", mustCIDR(t, "8.8.8.8/32"), true},
		{"cidr6 line", "IP-CIDR6,2001:db8::/32", mustCIDR(t, "2001:db8::/32"), true},
		{"cidr tag does not decide family", "IP-CIDR,2001:db8::1", mustCIDR(t, "2001:db8::1/128"), true},
		{"cidr line host bits masked", "IP-CIDR,10.0.0.1/8", mustCIDR(t, "10.0.0.0/8"), true},
		{"cidr line invalid", "IP-CIDR,10.0.0.0/33", Entry{}, false},
		{"dot marker", ".cdn.example.net", NewDomainSuffix("cdn.example.net"), true},
		{"plus dot marker", "+.cdn.example.net", NewDomainSuffix("cdn.example.net"), true},
		{"marker with invalid rest", ".not a domain", Entry{}, false},
		{"bare domain", "example.com", NewDomain("example.com"), true},
		{"bare domain uppercase", "EXAMPLE.COM", NewDomain("example.com"), true},
		{"bare domain trailing dot", "example.com.", NewDomain("example.com"), true},
		{"bare ipv4 cidr", "10.0.0.0/8", mustCIDR(t, "10.0.0.0/8"), true},
		{"bare ipv4 address", "8.8.8.8", mustCIDR(t, "8.8.8.8/32"), true},
		{"bare ipv6 address", "2001:db8::1", mustCIDR(t, "2001:db8::1/128"), true},
		{"dnsmasq server directive", "server=/example.com/1.1.1.1", NewDomain("example.com"), true},
		{"dnsmasq server directive invalid domain", "server=/!!/114.114.114.114", Entry{}, false},
		{"url takes hostname", "https://example.com/some/path", NewDomain("example.com"), true},
		{"url strips port", "https://example.com:8443/x", NewDomain("example.com"), true},
		{"url with ip host", "https://1.2.3.4/x", Entry{}, false},
		{"url path fallback", "https:///example.com", NewDomain("example.com"), true},
		{"url path fallback non-domain", "file:///etc/hosts", Entry{}, false},
		{"comment only", "# just a comment", Entry{}, false},
		{"empty line", "   ", Entry{}, false},
		{"trailing comment stripped", "example.com # cdn", NewDomain("example.com"), true},
		{"fullwidth comment stripped", "example.com ；备注", NewDomain("example.com"), true},
		{"garbage", "not a domain!!", Entry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassifyEquivalences(t *testing.T) {
	c := NewClassifier(true)

	// 对合法域名 d，DOMAIN,d 与裸写 d 等价
	for _, d := range []string{"example.com", "a.b.example.org"} {
		tagged, ok := c.Classify("DOMAIN," + d)
		require.True(t, ok)
		bare, ok := c.Classify(d)
		require.True(t, ok)
		assert.Equal(t, tagged, bare)
	}

	// 对合法后缀 s，三种写法等价
	for _, s := range []string{"example.com", "cdn.example.net"} {
		want := NewDomainSuffix(s)
		for _, line := range []string{"." + s, "+." + s, "DOMAIN-SUFFIX," + s} {
			got, ok := c.Classify(line)
			require.True(t, ok, "line %q", line)
			assert.Equal(t, want, got, "line %q", line)
		}
	}
}

func TestClassifyURLPathFallbackDisabled(t *testing.T) {
	c := NewClassifier(false)
	_, ok := c.Classify("https:///example.com")
	assert.False(t, ok)
	// 有 authority 的 URL 不受开关影响
	got, ok := c.Classify("https://example.com/")
	require.True(t, ok)
	assert.Equal(t, NewDomain("example.com"), got)
}

func TestClassifyScenario(t *testing.T) {
	c := NewClassifier(true)
	lines := []string{"DOMAIN,example.com", ".cdn.example.net", "not a domain!!", "10.0.0.0/8"}

	set := NewSet()
	for _, line := range lines {
		if e, ok := c.Classify(line); ok {
			set.Add(e)
		}
	}

	assert.Equal(t, []string{"example.com"}, set.Domains())
	assert.Equal(t, []string{"cdn.example.net"}, set.Suffixes())
	assert.Equal(t, []string{"10.0.0.0/8"}, set.CIDRs())
	assert.Equal(t, 3, set.Len())
}

func mustCIDR(t *testing.T, s string) Entry {
	t.Helper()
	p, ok := ParseCIDR(s)
	require.True(t, ok, "ParseCIDR(%q)", s)
	return NewIPCIDR(p)
}
