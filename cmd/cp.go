package cmd

import (
	"bytes"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/geledek/Youtube-Subtitle-Downloader/internal"
)

// cpCmd copies the transcript to the system clipboard instead of writing files.
var cpCmd = &cobra.Command{
	Use:   "cp [URL or ID]",
	Short: "Copy a video's transcript to the clipboard",
	Example: `  # Copy a transcript from YouTube captions
  ytsubs cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytsubs cp tAP1eZYEuKA

  # Use Whisper if no captions available (costs money)
  ytsubs cp tAP1eZYEuKA --fallback-whisper`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateWhisperRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")

		var buf bytes.Buffer
		result, err := app.Controller.DownloadVideo(cmd.Context(), args[0], internal.VideoOptions{
			PrintTo:         &buf,
			FallbackWhisper: fallbackWhisper,
		})
		if err != nil {
			return err
		}
		if buf.Len() == 0 {
			return fmt.Errorf("no transcript available for %s", result.URL)
		}

		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	internal.AddWhisperFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
