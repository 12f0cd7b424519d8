package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddWhisperFlags adds flags related to the speech-to-text fallback
func AddWhisperFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fallback-whisper", false, "Fallback to Whisper if no captions available (costs money)")
}

// HandleGlobalFlags copies persistent flag values into the config so every
// command sees one consistent view.
func HandleGlobalFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose

	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Quiet = quiet

	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		config.LogLevel = f.Value.String()
	}
	if f := flags.Lookup("cookies"); f != nil && f.Changed {
		config.CookieFile = f.Value.String()
	}
	if f := flags.Lookup("output-dir"); f != nil && f.Changed {
		config.OutputDir = f.Value.String()
	}
	if f := flags.Lookup("whisper-model"); f != nil && f.Changed {
		config.WhisperModel = f.Value.String()
	}
	if f := flags.Lookup("max-languages"); f != nil && f.Changed {
		n, err := flags.GetInt("max-languages")
		if err != nil {
			return fmt.Errorf("failed to get max-languages flag: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("max-languages must be at least 1, got %d", n)
		}
		config.MaxLanguages = n
	}

	return nil
}

// ValidateWhisperRequirements checks the API key when the fallback is requested
func ValidateWhisperRequirements(cmd *cobra.Command, config *Config) error {
	fallback, _ := cmd.Flags().GetBool("fallback-whisper")
	if fallback && config.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for --fallback-whisper")
	}
	return nil
}
