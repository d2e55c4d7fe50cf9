package mcp

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiagnosticLogger keeps server diagnostics off stdio. In MCP mode every
// line goes to a timestamped file under the temp dir since stdout carries
// the protocol.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
}

// NewDiagnosticLogger creates a file-backed logger when isMCP is set and a
// stderr logger otherwise
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	dl := &DiagnosticLogger{}
	if !isMCP {
		dl.logger = log.New(os.Stderr, "[MCP] ", log.LstdFlags)
		return dl
	}

	logDir := filepath.Join(os.TempDir(), "innolearn-mcp-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		dl.logger = log.New(io.Discard, "", 0)
		return dl
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("mcp-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Losing diagnostics is preferable to corrupting the protocol stream
		dl.logger = log.New(io.Discard, "", 0)
		return dl
	}

	dl.file = file
	dl.filePath = logPath
	dl.logger = log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile)
	return dl
}

// Printf logs a diagnostic message
func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf(format, v...)
}

// Errorf logs an error
func (dl *DiagnosticLogger) Errorf(format string, v ...interface{}) {
	dl.Printf("ERROR: "+format, v...)
}

// Close closes the log file if one is open
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}

// GetLogPath returns the diagnostic log file path, empty outside MCP mode
func (dl *DiagnosticLogger) GetLogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

// NoOpLogger discards everything
var NoOpLogger = &DiagnosticLogger{
	logger: log.New(io.Discard, "", 0),
}
