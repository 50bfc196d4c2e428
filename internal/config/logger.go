package config

import (
    "os"

    "github.com/sirupsen/logrus"
)

// NewLogger returns the process logger: JSON in production, text
// otherwise.  Unknown levels fall back to info.
func NewLogger(c Config) *logrus.Logger {
    log := logrus.New()
    log.SetOutput(os.Stdout)
    if c.IsProduction() {
        log.SetFormatter(&logrus.JSONFormatter{})
    } else {
        log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    }
    lvl, err := logrus.ParseLevel(c.LogLevel)
    if err != nil {
        lvl = logrus.InfoLevel
    }
    log.SetLevel(lvl)
    return log
}
