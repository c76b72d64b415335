package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytchat/ytchat/internal"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Get the transcript of a video (stored or freshly fetched)",
	Example: `  # Print the transcript of a video
  ytchat transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytchat transcript tAP1eZYEuKA

  # Save transcript to file
  ytchat transcript tAP1eZYEuKA -o transcript.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		transcript, err := fetchTranscript(cmd, app, args[0])
		if err != nil {
			return err
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

// fetchTranscript resolves the argument to a stored video and returns
// its transcript, fetching captions when the video is new.
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg string) (string, error) {
	videoID, err := app.OpenVideo(cmd.Context(), arg)
	if err != nil {
		return "", err
	}
	return app.Chat().Transcript(videoID)
}

func init() {
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcriptCmd)
}
