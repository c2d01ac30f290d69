package ratelimit

import (
	"net/http"
	"strings"
)

// exempt lists the GET paths that are never limited.
var exempt = []string{"/health", "/sitemap.xml"}

// MatchEndpoint returns the rule governing a request, or nil when none does.
// A rule whose path ends in "/" covers every path below it. An exact path
// beats a prefix, and a longer prefix beats a shorter one. Exempt paths get an
// unlimited rule.
func MatchEndpoint(path, method string, rules []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet {
		for _, p := range exempt {
			if path == p {
				return &EndpointConfig{Path: path, Method: method}
			}
		}
	}

	var best *EndpointConfig
	bestLen := -1
	for i := range rules {
		rule := &rules[i]
		if !methodMatches(rule.Method, method) {
			continue
		}
		switch {
		case rule.Path == path:
			return rule
		case strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) && len(rule.Path) > bestLen:
			best, bestLen = rule, len(rule.Path)
		}
	}
	return best
}

func methodMatches(want, got string) bool {
	return want == "" || want == got
}
