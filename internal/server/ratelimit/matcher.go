package ratelimit

import "strings"

// MatchEndpoint resolves a request path and method to an endpoint budget.
// Exact matches win; configs whose path ends with "/" also match by prefix
// (so "/resumes/" covers "/resumes/{id}/template"). Returns nil when no
// config matches.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && c.Method == method {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
