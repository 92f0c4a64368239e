// Package collect implements the evidence collectors. Collectors never
// fail: every problem they hit becomes a negative evidence record.
package collect

import (
	"encoding/json"
	"net/url"
)

// contentJSON renders structured evidence content. Marshal errors cannot
// happen for the plain types used here; an empty string is returned if
// they ever do.
func contentJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// redactURL drops credentials from a repository URL so they never reach
// evidence locations or reports.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
