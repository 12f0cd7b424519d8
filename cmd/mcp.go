package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/geledek/Youtube-Subtitle-Downloader/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing the downloader",
	Long: `Run a Model Context Protocol (MCP) server that exposes the subtitle
downloader as tools.

The MCP server provides two tools:
- download_video_subtitle: download one video's transcript and return the text
- download_channel_subtitles: batch-download transcripts for a channel

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ytsubs mcp

  # Run MCP server with HTTP transport on port 8080
  ytsubs mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ytsubs mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio transport owns stdout, so suppress ordinary output.
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		internal.InitMCPLogging(config)

		app := internal.NewApp(config)
		mcpServer := internal.NewMCPServer(app.Controller, version)

		internal.MCPLogInfo("starting MCP server transport=%s port=%d", transport, port)

		// Blocks until the context is cancelled
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the ytsubs MCP server",
	Long: `Automatically configure Claude Desktop to use ytsubs as an MCP server.

This command will:
- Detect Claude Desktop installation and config location
- Add the ytsubs MCP server configuration to claude_desktop_config.json
- Preserve existing MCP server configurations
- Set appropriate XDG environment variables for the current platform`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setupClaudeDesktop()
	},
}

// ClaudeDesktopConfig represents the claude_desktop_config.json structure
type ClaudeDesktopConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
}

// MCPServerConfig represents an individual MCP server configuration
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// setupClaudeDesktop implements the setup-claude subcommand
func setupClaudeDesktop() error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("getting executable path: %w", err)
	}

	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	configPath, err := getClaudeDesktopConfigPath()
	if err != nil {
		return fmt.Errorf("getting Claude Desktop config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config for Claude Desktop not found at %s", configPath)
	}

	var desktopConfig ClaudeDesktopConfig
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading existing config: %w", err)
	}

	if err := json.Unmarshal(data, &desktopConfig); err != nil {
		return fmt.Errorf("parsing existing config: %w", err)
	}

	if desktopConfig.MCPServers == nil {
		desktopConfig.MCPServers = make(map[string]MCPServerConfig)
	}

	// XDG base paths so the server resolves the same config as the CLI
	xdgPaths := map[string]string{
		"XDG_DATA_HOME":   xdg.DataHome,
		"XDG_CONFIG_HOME": xdg.ConfigHome,
		"XDG_CACHE_HOME":  xdg.CacheHome,
	}

	desktopConfig.MCPServers["ytsubs"] = MCPServerConfig{
		Command: execPath,
		Args:    []string{"mcp"},
		Env:     xdgPaths,
	}

	data, err = json.MarshalIndent(desktopConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Successfully configured Claude Desktop MCP server\n")
	fmt.Printf("Restart Claude Desktop to use the ytsubs MCP server\n")

	return nil
}

// getClaudeDesktopConfigPath returns the platform-specific config path for Claude Desktop
func getClaudeDesktopConfigPath() (string, error) {
	var configPath string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configPath = filepath.Join(homeDir, "Library", "Application Support", "Claude", "claude_desktop_config.json")

	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configPath = filepath.Join(appData, "Claude", "claude_desktop_config.json")

	case "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configPath = filepath.Join(homeDir, ".config", "Claude", "claude_desktop_config.json")

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return configPath, nil
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
