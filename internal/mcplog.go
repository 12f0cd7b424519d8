package internal

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

var (
	mcpLogger     *log.Logger
	mcpLoggerOnce sync.Once
	mcpLogEnabled bool
)

// initMCPLogger initializes the MCP logger with file output. Stdio transport
// owns stdout/stderr, so diagnostics have to go to a file.
func initMCPLogger(enabled bool) {
	mcpLogEnabled = enabled

	if !enabled {
		return
	}

	logDir := filepath.Join(xdg.CacheHome, appName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		mcpLogEnabled = false
		return
	}

	logPath := filepath.Join(logDir, "mcp.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		mcpLogEnabled = false
		return
	}

	mcpLogger = log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
}

// InitMCPLogging initializes MCP logging based on config
func InitMCPLogging(config *Config) {
	mcpLoggerOnce.Do(func() {
		initMCPLogger(config.MCPLogEnabled)
	})
}

func mcpLogf(level, format string, args ...any) {
	if !mcpLogEnabled || mcpLogger == nil {
		return
	}

	mcpLogger.Printf("[MCP] [%s] "+format, append([]any{level}, args...)...)
}

// MCPLogInfo logs an info message
func MCPLogInfo(format string, args ...any) {
	mcpLogf("INFO", format, args...)
}

// MCPLogError logs an error message
func MCPLogError(format string, args ...any) {
	mcpLogf("ERROR", format, args...)
}
