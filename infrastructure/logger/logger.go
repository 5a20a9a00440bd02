package logger

import (
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	logger.Out = os.Stdout
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	level := log.InfoLevel
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
}

// GetLogger returns an entry annotated with the caller, so every log line
// carries its origin without handlers threading a logger around.
func GetLogger() *log.Entry {
	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return logger.WithFields(log.Fields{
		"function": fn.Name(),
		"file":     file,
		"line":     line,
	})
}
