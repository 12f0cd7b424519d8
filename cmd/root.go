package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geledek/Youtube-Subtitle-Downloader/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytsubs",
	Short: "Download YouTube subtitles as clean text transcripts",
	Long: `ytsubs downloads captions from YouTube videos and channels and turns
them into deduplicated plain-text transcripts.

Captions are fetched with yt-dlp, normalized (cue timings, inline tags and
repeated rolling lines removed), and assembled into one transcript file per
video. Channel runs are incremental: videos recorded in the summary CSV are
skipped on the next run.`,
	Example: `  # Download transcripts for a channel's videos
  ytsubs channel @DanKoeTalks --limit 10

  # Download one video's transcript
  ytsubs video "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Print a transcript to stdout instead of writing files
  ytsubs video tAP1eZYEuKA --print`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleGlobalFlags(cmd, config)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Cancelled on the first interrupt so yt-dlp subprocesses stop too.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config = internal.InitConfig()

	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose output for debugging")
	pf.BoolP("quiet", "q", false, "Suppress progress and status output")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("cookies", "", "Netscape cookie file passed to yt-dlp")
	pf.String("output-dir", "", "Directory for transcripts and the summary CSV")
	pf.Int("max-languages", 0, "Maximum caption languages per video")
	pf.String("whisper-model", "", "OpenAI model for the speech-to-text fallback")
	pf.String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytsubs/config.toml)")
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("quiet", pf.Lookup("quiet"))
}
