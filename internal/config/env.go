package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// The env* helpers read optional variables.  An unset, empty or
// unparsable value yields the default.

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(envStr(k, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(envStr(k, "")); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(envStr(k, "")); err == nil {
		return dur
	}
	return d
}
