package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/geledek/Youtube-Subtitle-Downloader/internal"
)

// videoCmd represents the video command
var videoCmd = &cobra.Command{
	Use:   "video [URL or ID]",
	Short: "Download one video's transcript",
	Long: `Download subtitles for a single YouTube video.

Without --channel or --output-dir the channel is read from the video's own
metadata, so the transcript lands in the same from-channel-<name> directory a
batch run for that channel would use.`,
	Example: `  # Download a single video's transcript
  ytsubs video "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytsubs video tAP1eZYEuKA

  # File the transcript under a specific channel directory
  ytsubs video tAP1eZYEuKA --channel DanKoeTalks

  # Print to stdout instead of writing files
  ytsubs video tAP1eZYEuKA --print

  # Use Whisper if no captions available (costs money)
  ytsubs video tAP1eZYEuKA --fallback-whisper`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateWhisperRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		channelName, _ := cmd.Flags().GetString("channel")
		printMode, _ := cmd.Flags().GetBool("print")
		fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")

		opts := internal.VideoOptions{
			ChannelName:     channelName,
			OutputDir:       config.OutputDir,
			FallbackWhisper: fallbackWhisper,
		}
		if printMode {
			opts.PrintTo = os.Stdout
		}

		_, err := app.Controller.DownloadVideo(cmd.Context(), args[0], opts)
		return err
	},
}

func init() {
	videoCmd.Flags().String("channel", "", "Channel name used to organize the output")
	videoCmd.Flags().Bool("print", false, "Print the transcript to stdout instead of writing files")
	internal.AddWhisperFlags(videoCmd)
	rootCmd.AddCommand(videoCmd)
}
