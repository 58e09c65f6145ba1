package app

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

func InitLogger() {
	logLevel := strings.ToLower(Config.Logger.Level)
	log.Debug("[LOGGER] Initializing logger with level: ", logLevel)

	level, err := log.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(Config.Logger.Format) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	log.Info("[LOGGER] Logger initialized with level: ", level)
}
