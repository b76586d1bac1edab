package env

import (
	"os"
	"strconv"
	"strings"
)

// GetString returns the value of key, or fallback when it is unset or blank.
func GetString(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

// GetBool parses key as a boolean, falling back on unset or unparsable values.
func GetBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return b
}

// IsSet reports whether key carries a non-blank value.
func IsSet(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) != ""
}
