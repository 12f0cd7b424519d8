package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geledek/Youtube-Subtitle-Downloader/internal"
)

// channelCmd represents the channel command
var channelCmd = &cobra.Command{
	Use:   "channel [handle]",
	Short: "Download transcripts for a channel's videos",
	Long: `Download subtitles for the videos of a YouTube channel.

Runs are incremental: videos already listed in the channel's summary CSV are
skipped, so re-running the command only picks up new uploads. Use --full to
reset the CSV and process everything again.`,
	Example: `  # Download the 10 newest unprocessed videos
  ytsubs channel @DanKoeTalks --limit 10

  # Process every video, ignoring earlier runs
  ytsubs channel DanKoeTalks --full

  # Write markdown artifacts and a zip bundle of the run
  ytsubs channel @DanKoeTalks --artifact-dir artifacts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateWhisperRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		limit, _ := cmd.Flags().GetInt("limit")
		full, _ := cmd.Flags().GetBool("full")
		urlsFile, _ := cmd.Flags().GetString("urls-file")
		fallbackWhisper, _ := cmd.Flags().GetBool("fallback-whisper")
		if urlsFile == "" {
			urlsFile = config.URLsFile
		}

		batch, err := app.Controller.DownloadChannel(cmd.Context(), args[0], internal.ChannelOptions{
			OutputDir:       config.OutputDir,
			URLsFile:        urlsFile,
			Limit:           limit,
			Full:            full,
			FallbackWhisper: fallbackWhisper,
		})
		if err != nil {
			return err
		}

		artifactDir, _ := cmd.Flags().GetString("artifact-dir")
		if artifactDir != "" && len(batch.Results) > 0 {
			summaryPath, err := writeArtifacts(batch.Results, artifactDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			} else if summaryPath != "" && !config.Quiet {
				showSummary(summaryPath)
			}
		}

		return nil
	},
}

// writeArtifacts renders the markdown files, the zip bundle, and the summary.
func writeArtifacts(results []internal.VideoResult, artifactDir string) (string, error) {
	mdFiles, err := internal.BuildMarkdownArtifacts(results, artifactDir)
	if err != nil {
		return "", fmt.Errorf("building markdown artifacts: %w", err)
	}
	if len(mdFiles) > 0 {
		if _, err := internal.ZipMarkdownArtifacts(mdFiles, artifactDir); err != nil {
			return "", fmt.Errorf("bundling markdown artifacts: %w", err)
		}
	}
	summaryPath, err := internal.CreateSummaryMarkdown(results, artifactDir)
	if err != nil {
		return "", fmt.Errorf("writing run summary: %w", err)
	}
	return summaryPath, nil
}

// showSummary prints the run summary, styled when stdout is a terminal.
func showSummary(summaryPath string) {
	content, err := os.ReadFile(summaryPath)
	if err != nil {
		return
	}
	rendered, err := internal.RenderMarkdown(string(content))
	if err != nil {
		fmt.Println(string(content))
		return
	}
	fmt.Print(rendered)
}

func init() {
	channelCmd.Flags().IntP("limit", "n", 0, "Maximum number of videos to process (0 = all)")
	channelCmd.Flags().Bool("full", false, "Reprocess every video, resetting the summary CSV")
	channelCmd.Flags().String("urls-file", "", "Where to write the resolved video URL list")
	channelCmd.Flags().String("artifact-dir", "", "Write markdown artifacts and a zip bundle here")
	internal.AddWhisperFlags(channelCmd)
	rootCmd.AddCommand(channelCmd)
}
