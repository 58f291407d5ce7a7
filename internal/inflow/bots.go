package inflow

import "strings"

// defaultBotPatterns are matched case-insensitively as substrings of the
// User-Agent header.
var defaultBotPatterns = []string{
	"bot",
	"crawl",
	"spider",
	"slurp",
	"bingpreview",
	"facebookexternalhit",
	"embedly",
	"quora link preview",
	"whatsapp",
	"telegram",
	"kakaotalk-scrap",
	"yeti",
	"daum",
	"headlesschrome",
	"lighthouse",
	"python-requests",
	"curl/",
	"wget",
	"go-http-client",
	"axios",
	"node-fetch",
	"postman",
	"uptime",
	"monitor",
	"preview",
}

// BotMatcher flags crawler and tooling traffic.
type BotMatcher struct {
	patterns []string
}

// NewBotMatcher returns a matcher over the built-in patterns plus extra.
func NewBotMatcher(extra ...string) *BotMatcher {
	patterns := make([]string, 0, len(defaultBotPatterns)+len(extra))
	patterns = append(patterns, defaultBotPatterns...)
	for _, p := range extra {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	return &BotMatcher{patterns: patterns}
}

// IsBot reports whether userAgent looks automated. An empty agent counts as a bot.
func (m *BotMatcher) IsBot(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	for _, pattern := range m.patterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

var defaultMatcher = NewBotMatcher()

// IsBot checks userAgent against the built-in patterns.
func IsBot(userAgent string) bool {
	return defaultMatcher.IsBot(userAgent)
}
