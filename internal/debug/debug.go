package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Build flag for debug mode:
// go build -ldflags "-X github.com/standardbeagle/csx/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode is set by main when stdio carries the MCP protocol
var MCPMode = false

var (
	mu     sync.Mutex
	output io.Writer
	file   *os.File
)

// SetMCPMode marks stdio as reserved for the protocol.
// Debug output to os.Stdout or os.Stderr is dropped while it is set.
func SetMCPMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	MCPMode = enabled
}

// SetDebugOutput sets the writer for debug output. nil disables output.
func SetDebugOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// InitDebugLogFile sends debug output to a timestamped file in the temp directory
// and returns its path. Call CloseDebugLog when done.
func InitDebugLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(os.TempDir(), "csx-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	file = f
	output = f
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open
func CloseDebugLog() error {
	mu.Lock()
	defer mu.Unlock()

	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

// IsDebugEnabled reports whether the build flag or DEBUG env var turns debug output on
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

// writer returns the active writer, or nil when nothing may be written
func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if output == nil {
		return nil
	}
	if MCPMode && (output == os.Stdout || output == os.Stderr) {
		return nil
	}
	return output
}

// Printf prints debug information when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG] "+format, args...)
	}
}

// Log writes a debug line tagged with a component name
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
	}
}

// LogScan logs tree scanner activity
func LogScan(format string, args ...interface{}) {
	Log("SCAN", format, args...)
}

// LogSearch logs search engine activity
func LogSearch(format string, args ...interface{}) {
	Log("SEARCH", format, args...)
}

// LogProject logs project metadata extraction
func LogProject(format string, args ...interface{}) {
	Log("PROJECT", format, args...)
}

// LogMCP logs MCP dispatch activity
func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}

// Fatal logs a fatal message (unless stdio is reserved) and returns it as an error.
// It never exits; callers decide what to do.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[FATAL] %s", msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}
