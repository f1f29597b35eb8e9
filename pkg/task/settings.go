package task

import (
	"strings"
	"time"
)

// Namespace marks the settings this pipeline owns inside the flat key/value
// map the surrounding job framework hands every task.
const Namespace = "reed."

// Distinguished setting keys.
const (
	// SettingChainConfig locates the chain configuration resource. Absent
	// means the built-in default chain.
	SettingChainConfig = "reed.chain.config"

	// SettingIDPrefix selects the identity policy: empty keeps the
	// input-derived key, "random" draws a per-task prefix, anything else is
	// a literal prefix.
	SettingIDPrefix = "reed.loader.idPrefix"

	// SettingLivenessInterval overrides the liveness signal interval.
	SettingLivenessInterval = "reed.liveness.interval"
)

// Settings is the flat string map of task configuration.
type Settings map[string]string

// Scoped returns only the entries that belong to this pipeline's namespace.
func (s Settings) Scoped() Settings {
	scoped := make(Settings)
	for key, value := range s {
		if strings.Contains(key, Namespace) {
			scoped[key] = value
		}
	}
	return scoped
}

// Get returns the value for key, or "" when absent.
func (s Settings) Get(key string) string {
	return s[key]
}

// Duration parses the value for key as a duration, falling back when the key
// is absent or malformed.
func (s Settings) Duration(key string, fallback time.Duration) time.Duration {
	value, ok := s[key]
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
