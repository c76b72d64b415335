package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytchat/ytchat/internal"
)

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List stored videos",
	Example: `  # List all videos in the library, newest first
  ytchat library`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.Chat().Library()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("Library is empty. Run 'ytchat <URL>' to add a video.")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  %s  %s\n", entry.CreatedAt.Format("2006-01-02"), entry.YouTubeID, entry.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
}
