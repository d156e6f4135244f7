package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnvLogDir overrides the directory CLI logs are written to.
const EnvLogDir = "IMAGE_CRAWLER_LOG_DIR"

var (
	logger  *log.Logger
	logFile *os.File
	once    sync.Once
)

const prefix = "[cli] "

// setup opens tmp/cli-<timestamp>.log. The TUI owns stdout, so stderr is only
// the fallback when the file cannot be created.
func setup() {
	dir := os.Getenv(EnvLogDir)
	if dir == "" {
		dir = "tmp"
	}

	var out io.Writer = os.Stderr
	name := filepath.Join(dir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0755); err == nil {
		if f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logFile, out = f, f
		}
	}
	logger = log.New(out, prefix, log.LstdFlags|log.Lshortfile)
}

// Logger returns the shared file logger, opening it on first use
func Logger() *log.Logger {
	once.Do(setup)
	return logger
}

// SetOutput redirects the logger, mainly for tests
func SetOutput(w io.Writer) {
	once.Do(func() {})
	logger = log.New(w, prefix, log.LstdFlags|log.Lshortfile)
}

func Log(format string, v ...any) {
	if l := Logger(); l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError logs "ERROR: <msg>: <err>"
func LogError(err error, format string, v ...any) {
	if l := Logger(); l != nil {
		msg := fmt.Sprintf(format, v...)
		l.Output(2, fmt.Sprintf("ERROR: %s: %v", msg, err))
	}
}

func CloseLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
