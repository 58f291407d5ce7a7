package inflow

import (
	"net/url"
	"strings"
)

// Source classifies where a visit came from.
type Source string

const (
	SourceDirect   Source = "direct"
	SourceSearch   Source = "search"
	SourceSocial   Source = "social"
	SourceInternal Source = "internal"
	SourceExternal Source = "external"
)

var searchHosts = []string{
	"google.", "bing.com", "naver.com", "daum.net", "yahoo.", "duckduckgo.com", "baidu.com", "yandex.", "ecosia.org",
}

var socialHosts = []string{
	"facebook.com", "fb.me", "instagram.com", "t.co", "twitter.com", "x.com", "linkedin.com", "lnkd.in",
	"reddit.com", "youtube.com", "kakao.com", "threads.net", "pinterest.", "line.me", "weibo.com",
}

// Classify maps a Referer header onto a Source. siteHost identifies internal
// navigation; it may be empty.
func Classify(referrer, siteHost string) Source {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return SourceDirect
	}
	parsed, err := url.Parse(referrer)
	if err != nil || parsed.Hostname() == "" {
		return SourceDirect
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	site := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(siteHost)), "www.")

	switch {
	case site != "" && (host == site || strings.HasSuffix(host, "."+site)):
		return SourceInternal
	case matchesHost(host, searchHosts):
		return SourceSearch
	case matchesHost(host, socialHosts):
		return SourceSocial
	default:
		return SourceExternal
	}
}

func matchesHost(host string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.HasSuffix(candidate, ".") {
			if strings.HasPrefix(host, candidate) || strings.Contains(host, "."+candidate) {
				return true
			}
			continue
		}
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}
