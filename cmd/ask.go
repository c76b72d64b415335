package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytchat/ytchat/internal"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [YouTube URL or ID] [question]",
	Short: "Ask a single question about a video",
	Long: `Ask one question about a video and print the answer.

The question and answer are appended to the video's stored conversation,
so a later interactive session picks up the full context. Omitting the
question prints the video summary.`,
	Example: `  # Ask a question about a video
  ytchat ask tAP1eZYEuKA "What tools are mentioned?"

  # Print the summary of a video
  ytchat ask "https://youtu.be/tAP1eZYEuKA"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := internal.HandleInstructionFlag(cmd, app); err != nil {
			return err
		}

		videoID, err := app.OpenVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Seeds the summary pair when the conversation is new.
		_, turns, err := app.Chat().ConversationView(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		if len(args) < 2 {
			// No question: print the stored summary.
			for _, turn := range turns {
				if turn.Role == internal.RoleAssistant {
					fmt.Println(turn.Content)
					return nil
				}
			}
			return fmt.Errorf("no summary available")
		}

		reply, _, err := app.Chat().SubmitUtterance(cmd.Context(), videoID, args[1])
		if err != nil {
			return err
		}

		fmt.Println(reply)
		return nil
	},
}

func init() {
	internal.AddOpenAIFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
