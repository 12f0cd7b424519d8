package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// appName names the XDG subdirectories and the binary.
const appName = "ytsubs"

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner.
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Config holds application settings.
type Config struct {
	// User configurable settings
	OutputDir      string
	CookieFile     string
	URLsFile       string
	WhisperModel   string
	WhisperTimeout time.Duration
	MaxLanguages   int
	LogLevel       string
	Verbose        bool
	Quiet          bool
	OpenAIAPIKey   string
	MCPLogEnabled  bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist.
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration.
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	Install(context.Background())

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, appName)
	dataDir := filepath.Join(xdg.DataHome, appName)
	cacheDir := filepath.Join(xdg.CacheHome, appName)

	v := viper.New()

	// Defaults for configurable settings
	v.SetDefault("output_dir", "")
	v.SetDefault("cookie_file", "cookies.txt")
	v.SetDefault("urls_file", "")
	v.SetDefault("whisper_model", "whisper-1")
	v.SetDefault("whisper_timeout", 10*time.Minute)
	v.SetDefault("max_languages", 1)
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log_enabled", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("YTSUBS")
	v.AutomaticEnv()

	// OpenAI API key comes from the conventional env var as well
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	return &Config{
		OutputDir:      v.GetString("output_dir"),
		CookieFile:     v.GetString("cookie_file"),
		URLsFile:       v.GetString("urls_file"),
		WhisperModel:   v.GetString("whisper_model"),
		WhisperTimeout: v.GetDuration("whisper_timeout"),
		MaxLanguages:   v.GetInt("max_languages"),
		LogLevel:       v.GetString("log_level"),
		Verbose:        v.GetBool("verbose"),
		Quiet:          v.GetBool("quiet"),
		OpenAIAPIKey:   v.GetString("openai_api_key"),
		MCPLogEnabled:  v.GetBool("mcp_log_enabled"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}
}
