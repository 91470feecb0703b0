package startup

import (
	"os"
	"strconv"
	"time"

	"static-video-server/internal/logging"
)

// envOr parses the variable named key, returning def when it is unset, empty
// or unparsable.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		logging.Warn("Ignoring %s=%q: %v (using %v)", key, raw, err, def)
		return def
	}
	return v
}

func getEnv(key, def string) string {
	return envOr(key, def, func(s string) (string, error) { return s, nil })
}

func getEnvBool(key string, def bool) bool {
	return envOr(key, def, strconv.ParseBool)
}

func getEnvInt(key string, def int) int {
	return envOr(key, def, strconv.Atoi)
}

// getEnvDuration accepts Go durations ("30m") and bare integers as seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	return envOr(key, def, func(s string) (time.Duration, error) {
		if secs, err := strconv.Atoi(s); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}
