// Package env reads process settings that are needed before config.Load runs,
// such as the log format.
package env

import (
	"os"
	"strconv"
	"strings"
)

// Prefix namespaces storefront variables, matching pkg/config.
const Prefix = "EPICDREAMS_"

// Get returns EPICDREAMS_<key>, then the bare <key>, then fallback. Blank
// values count as unset.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}

// Bool parses Get(key) with strconv.ParseBool, using fallback when unset or
// unparsable.
func Bool(key string, fallback bool) bool {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
