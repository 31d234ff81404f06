package config

import (
	"os"
	"strings"
)

var logLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "notice": {}, "warn": {}, "error": {}, "fatal": {},
}

// LogLevel resolves the effective log level. LOG_LEVEL env wins over logging.level;
// unknown values fall back to info.
func (c LoggingConfig) LogLevel() string {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		level = strings.ToLower(strings.TrimSpace(c.Level))
	}
	if _, ok := logLevels[level]; !ok {
		return "info"
	}
	return level
}
