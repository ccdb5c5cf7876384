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

// DiagnosticLogger keeps server diagnostics off stdio.
// In MCP mode stdout carries the protocol, so everything goes to a file in the
// temp directory. Outside MCP mode it writes to stderr.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
}

// NewDiagnosticLogger creates a logger for the given mode. Failure to open the
// log file disables logging instead of failing startup.
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	if !isMCP {
		return &DiagnosticLogger{logger: log.New(os.Stderr, "[csx] ", log.LstdFlags)}
	}

	logDir := filepath.Join(os.TempDir(), "csx-mcp-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return &DiagnosticLogger{logger: log.New(io.Discard, "", 0)}
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("mcp-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &DiagnosticLogger{logger: log.New(io.Discard, "", 0)}
	}

	return &DiagnosticLogger{
		file:     file,
		filePath: logPath,
		logger:   log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile),
	}
}

// NewWriterLogger creates a logger writing to w
func NewWriterLogger(w io.Writer) *DiagnosticLogger {
	return &DiagnosticLogger{logger: log.New(w, "", 0)}
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
	if dl == nil || dl.logger == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.logger.Printf("ERROR: "+format, v...)
}

// Close closes the log file if one is open
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file == nil {
		return nil
	}
	err := dl.file.Close()
	dl.file = nil
	return err
}

// LogPath returns the diagnostic log file path, empty outside MCP mode
func (dl *DiagnosticLogger) LogPath() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}
