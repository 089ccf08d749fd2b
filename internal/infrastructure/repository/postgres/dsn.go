package postgres

import (
	"net/url"
	"strings"
)

// pgx-only connection parameters. lib/pq forwards unknown query parameters to
// the server as runtime settings, which the server rejects.
var pgxOnlyParams = []string{
	"disable_prepared_binary_result",
	"default_query_exec_mode",
	"statement_cache_capacity",
	"description_cache_capacity",
	"pool_max_conns",
}

// NormalizeURL drops connection parameters lib/pq does not understand.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	for _, key := range pgxOnlyParams {
		if query.Has(key) {
			query.Del(key)
			changed = true
		}
	}
	if !changed {
		return raw
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}
