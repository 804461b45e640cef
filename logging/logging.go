package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup switches the global logrus logger to JSON on stdout at the given
// level. Unknown levels fall back to info.
func Setup(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("Unknown LOG_LEVEL, using info")
		return
	}
	log.SetLevel(lvl)
}
