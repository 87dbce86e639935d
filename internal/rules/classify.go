package rules

import (
	"net/url"
	"regexp"
	"strings"
)

// serverLinePattern dnsmasq 风格的 server=/<domain>/ 指令
var serverLinePattern = regexp.MustCompile(`^server=/([^/]+)/`)

// matcher 单条分类规则。matched 表示该行被此规则认领（无论值是否合法），
// ok 表示产出了合法条目。认领但不合法的行直接判为无法识别，不再继续匹配。
type matcher func(line string) (e Entry, ok bool, matched bool)

// Classifier 行分类器。分类规则表按固定顺序排列，首个命中生效，
// 一行至多匹配一条规则。分类永远不会因畸形输入报错。
type Classifier struct {
	// URLPathFallback 保留旧版行为：无 authority 的 URL 回退取 path 当域名。
	// 该行为疑似历史缺陷，挂在开关下等产品侧确认，默认开启。
	URLPathFallback bool

	cascade []matcher
}

// NewClassifier 创建分类器
func NewClassifier(urlPathFallback bool) *Classifier {
	c := &Classifier{URLPathFallback: urlPathFallback}
	// 级联顺序集中定义在这一处，避免多处实现各自漂移
	c.cascade = []matcher{
		c.matchDomainLine,
		c.matchDomainSuffixLine,
		c.matchIPCIDRLine,
		c.matchSuffixMarker,
		c.matchBareDomain,
		c.matchBareCIDR,
		c.matchServerDirective,
		c.matchURL,
	}
	return c
}

// Classify 对一行原始文本分类，返回条目或“无法识别”（ok=false）
func (c *Classifier) Classify(line string) (Entry, bool) {
	line = stripComment(line)
	if line == "" {
		return Entry{}, false
	}
	for _, m := range c.cascade {
		if e, ok, matched := m(line); matched {
			return e, ok
		}
	}
	return Entry{}, false
}

// stripComment 去掉行尾 # 或全角分号（；）注释并裁剪空白
func stripComment(line string) string {
	for _, sep := range []string{"#", "；"} {
		if i := strings.Index(line, sep); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}

// DOMAIN,<value>
func (c *Classifier) matchDomainLine(line string) (Entry, bool, bool) {
	v, found := strings.CutPrefix(line, "DOMAIN,")
	if !found {
		return Entry{}, false, false
	}
	d := NormalizeDomain(v)
	if !ValidDomain(d) {
		return Entry{}, false, true
	}
	return NewDomain(d), true, true
}

// DOMAIN-SUFFIX,<value>
func (c *Classifier) matchDomainSuffixLine(line string) (Entry, bool, bool) {
	v, found := strings.CutPrefix(line, "DOMAIN-SUFFIX,")
	if !found {
		return Entry{}, false, false
	}
	d := NormalizeDomain(v)
	if !ValidDomain(d) {
		return Entry{}, false, true
	}
	return NewDomainSuffix(d), true, true
}

// IP-CIDR,<value> / IP-CIDR6,<value>。协议族按值本身推导，不信标签。
func (c *Classifier) matchIPCIDRLine(line string) (Entry, bool, bool) {
	v, found := strings.CutPrefix(line, "IP-CIDR,")
	if !found {
		v, found = strings.CutPrefix(line, "IP-CIDR6,")
	}
	if !found {
		return Entry{}, false, false
	}
	p, ok := ParseCIDR(v)
	if !ok {
		return Entry{}, false, true
	}
	return NewIPCIDR(p), true, true
}

// 前导 "." 或 "+." 标记的域名后缀
func (c *Classifier) matchSuffixMarker(line string) (Entry, bool, bool) {
	if !strings.HasPrefix(line, ".") && !strings.HasPrefix(line, "+.") {
		return Entry{}, false, false
	}
	d := NormalizeDomain(strings.TrimLeft(line, ".+"))
	if !ValidDomain(d) {
		return Entry{}, false, true
	}
	return NewDomainSuffix(d), true, true
}

// 整行即为合法裸域名
func (c *Classifier) matchBareDomain(line string) (Entry, bool, bool) {
	d := NormalizeDomain(line)
	if !ValidDomain(d) {
		return Entry{}, false, false
	}
	return NewDomain(d), true, true
}

// 整行即为合法裸 IP/CIDR
func (c *Classifier) matchBareCIDR(line string) (Entry, bool, bool) {
	p, ok := ParseCIDR(line)
	if !ok {
		return Entry{}, false, false
	}
	return NewIPCIDR(p), true, true
}

// dnsmasq server=/<domain>/ 指令
func (c *Classifier) matchServerDirective(line string) (Entry, bool, bool) {
	m := serverLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false, false
	}
	d := NormalizeDomain(m[1])
	if !ValidDomain(d) {
		return Entry{}, false, true
	}
	return NewDomain(d), true, true
}

// 完整 URL，从 authority 取主机名；无 authority 时按开关回退取 path
func (c *Classifier) matchURL(line string) (Entry, bool, bool) {
	if !strings.Contains(line, "://") {
		return Entry{}, false, false
	}
	u, err := url.Parse(line)
	if err != nil {
		return Entry{}, false, true
	}
	if host := u.Hostname(); host != "" {
		d := NormalizeDomain(host)
		if ValidDomain(d) {
			return NewDomain(d), true, true
		}
		return Entry{}, false, true
	}
	if c.URLPathFallback && u.Path != "" {
		d := NormalizeDomain(strings.TrimPrefix(u.Path, "/"))
		if ValidDomain(d) {
			return NewDomain(d), true, true
		}
	}
	return Entry{}, false, true
}
